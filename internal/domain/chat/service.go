package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/knowledge"
	"sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/domain/prompt"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/metrics"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// KnowledgeRetriever ranks tenant knowledge against the user query.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, tenantID uint, locale, query string) ([]knowledge.ScoredChunk, error)
}

// Service orchestrates one widget turn: conversation resolution, context
// assembly, generation, post-processing and lead capture.
type Service struct {
	conversations *conversation.Service
	retriever     KnowledgeRetriever
	generator     Generator
	post          *PostProcessor
	leads         *lead.Service
	demoTenantKey string
	historyTurns  int
	log           zerolog.Logger
}

// NewService constructs the chat orchestrator.
func NewService(
	conversations *conversation.Service,
	retriever KnowledgeRetriever,
	generator Generator,
	post *PostProcessor,
	leads *lead.Service,
	demoTenantKey string,
	historyTurns int,
	log zerolog.Logger,
) *Service {
	return &Service{
		conversations: conversations,
		retriever:     retriever,
		generator:     generator,
		post:          post,
		leads:         leads,
		demoTenantKey: demoTenantKey,
		historyTurns:  historyTurns,
		log:           log.With().Str("component", "chat-service").Logger(),
	}
}

// Params describe one inbound widget turn after the gate, limiter and
// accountant have all passed.
type Params struct {
	Tenant       *tenant.Tenant
	IsPreview    bool
	PublicID     string // client-supplied conversation id, optional
	ExternalRef  string
	Message      string
	CustomerName string
	Channel      conversation.Channel
	Locale       string
	ClientLead   *lead.Draft
	CallerIP     string
	SourceHost   string
}

// Reply is the orchestrator's answer for one turn.
type Reply struct {
	ConversationID string
	Text           string
	Locale         string
	Actions        []Action
}

// Respond executes the full turn pipeline. Every turn appends exactly one
// user message and exactly one assistant message, even when the provider
// fails and a localized fallback is returned instead.
func (s *Service) Respond(ctx context.Context, params Params) (*Reply, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "Missing message", nil)
	}

	conv, err := s.conversations.Resolve(ctx, conversation.ResolveParams{
		TenantID:    params.Tenant.ID,
		PublicID:    params.PublicID,
		ExternalRef: params.ExternalRef,
		Channel:     params.Channel,
		IsPreview:   params.IsPreview,
	})
	if err != nil {
		return nil, err
	}

	userMeta := map[string]any{}
	if params.CustomerName != "" {
		userMeta["customer_name"] = params.CustomerName
	}
	if err := s.conversations.AppendMessage(ctx, conv, &conversation.Message{
		Role:     conversation.RoleUser,
		Content:  message,
		Channel:  params.Channel,
		Metadata: userMeta,
	}); err != nil {
		return nil, err
	}

	scored := s.retrieve(ctx, params, message)
	isDemo := params.Tenant.Slug == s.demoTenantKey

	var result *GenerateResult
	if s.strictMode(params.Tenant, scored, isDemo) {
		// No verified knowledge to ground a reply on: return the canned
		// clarification and force lead collection without a model call.
		result = &GenerateResult{
			Reply:   prompt.Clarification(params.Locale),
			Actions: []Action{CollectLeadAction("name", "email")},
		}
	} else {
		result = s.generate(ctx, conv, params, scored, isDemo)
	}

	actions := FilterValid(result.Actions)
	text, actions := s.post.Process(ctx, result.Reply, actions, params.Tenant, params.Locale)

	assistantMeta := map[string]any{}
	if len(actions) > 0 {
		assistantMeta["actions"] = actions
	}
	if result.Lead != nil {
		assistantMeta["extracted_lead"] = result.Lead
	}
	if err := s.conversations.AppendMessage(ctx, conv, &conversation.Message{
		Role:     conversation.RoleAssistant,
		Content:  text,
		Channel:  params.Channel,
		Metadata: assistantMeta,
	}); err != nil {
		return nil, err
	}

	s.captureLead(ctx, conv, params, result.Lead)

	metrics.TurnsTotal.WithLabelValues(string(params.Channel)).Inc()

	return &Reply{
		ConversationID: conv.PublicID,
		Text:           text,
		Locale:         params.Locale,
		Actions:        actions,
	}, nil
}

func (s *Service) retrieve(ctx context.Context, params Params, message string) []knowledge.ScoredChunk {
	scored, err := s.retriever.Retrieve(ctx, params.Tenant.ID, params.Locale, message)
	if err != nil {
		// Retrieval failure degrades to an ungrounded reply rather than a 500.
		s.log.Warn().Err(err).Uint("tenant_id", params.Tenant.ID).Msg("knowledge retrieval failed")
		return nil
	}
	return scored
}

// strictMode applies when the tenant has no free-text knowledge and nothing
// was retrieved, unless this is the platform's own demo tenant.
func (s *Service) strictMode(t *tenant.Tenant, scored []knowledge.ScoredChunk, isDemo bool) bool {
	if isDemo {
		return false
	}
	hasText := t.KnowledgeText != nil && strings.TrimSpace(*t.KnowledgeText) != ""
	return !hasText && len(scored) == 0
}

func (s *Service) generate(ctx context.Context, conv *conversation.Conversation, params Params, scored []knowledge.ScoredChunk, isDemo bool) *GenerateResult {
	in := prompt.Input{
		Locale:      params.Locale,
		Context:     renderContext(scored),
		DemoPricing: isDemo,
	}
	if params.Tenant.SystemPrompt != nil {
		in.Persona = *params.Tenant.SystemPrompt
	}
	if params.Tenant.KnowledgeText != nil {
		in.KnowledgeText = *params.Tenant.KnowledgeText
	}
	if params.Tenant.QualificationPrompt != nil {
		in.Qualification = *params.Tenant.QualificationPrompt
	}
	system := prompt.Render(prompt.Assemble(in))

	history, err := s.conversations.History(ctx, conv.ID, s.historyTurns)
	if err != nil {
		s.log.Warn().Err(err).Uint("conversation_id", conv.ID).Msg("load history failed")
	}
	turns := make([]Turn, 0, len(history))
	for _, msg := range history {
		if msg.Role == conversation.RoleSystem {
			continue
		}
		turns = append(turns, Turn{Role: msg.Role, Content: msg.Content})
	}

	result, err := s.generator.Generate(ctx, GenerateRequest{
		System:  system,
		History: turns,
		Locale:  params.Locale,
	})
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(errorClass(err)).Inc()
		s.log.Error().Err(err).Uint("tenant_id", params.Tenant.ID).Msg("provider call failed")
		if errors.Is(err, ErrProviderThrottled) {
			return &GenerateResult{Reply: prompt.UnavailableFallback(params.Locale)}
		}
		return &GenerateResult{Reply: prompt.GenericApology(params.Locale)}
	}
	return result
}

func (s *Service) captureLead(ctx context.Context, conv *conversation.Conversation, params Params, extracted *lead.Draft) {
	if params.ClientLead == nil && extracted == nil {
		return
	}
	saved, err := s.leads.Capture(ctx, lead.CaptureParams{
		TenantID:       params.Tenant.ID,
		ConversationID: conv.ID,
		Channel:        params.Channel,
		SourceHost:     params.SourceHost,
		ExternalRef:    params.ExternalRef,
		CallerIP:       params.CallerIP,
		Client:         params.ClientLead,
		Extracted:      extracted,
	})
	if err != nil {
		// Lead persistence is part of the turn's side effects but never fails
		// the reply the visitor already received.
		s.log.Error().Err(err).Uint("tenant_id", params.Tenant.ID).Msg("lead capture failed")
		return
	}
	if saved != nil {
		metrics.LeadsCapturedTotal.Inc()
	}
}

func renderContext(scored []knowledge.ScoredChunk) string {
	if len(scored) == 0 {
		return ""
	}
	var b strings.Builder
	for i, sc := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if sc.Chunk.SourceURL != "" {
			fmt.Fprintf(&b, "[source: %s]\n", sc.Chunk.SourceURL)
		}
		b.WriteString(sc.Chunk.Text)
	}
	return b.String()
}

func errorClass(err error) string {
	if errors.Is(err, ErrProviderThrottled) {
		return "throttled"
	}
	return "other"
}
