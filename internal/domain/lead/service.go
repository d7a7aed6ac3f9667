package lead

import (
	"context"

	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// Notifier hands a saved lead to the background notification queue. Failures
// are best-effort: they never fail the capturing request.
type Notifier interface {
	EnqueueLeadNotification(ctx context.Context, leadID uint) error
}

// Service captures leads and triggers their notifications.
type Service struct {
	leads    Repository
	notifier Notifier
	log      zerolog.Logger
}

// NewService constructs the lead service.
func NewService(leads Repository, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		leads:    leads,
		notifier: notifier,
		log:      log.With().Str("component", "lead-service").Logger(),
	}
}

// CaptureParams describe one qualifying lead signal.
type CaptureParams struct {
	TenantID       uint
	ConversationID uint
	Channel        conversation.Channel
	SourceHost     string
	ExternalRef    string
	CallerIP       string
	// Client is the lead the widget sent with the request; Extracted is the
	// one the model pulled from the dialogue. Client wins and suppresses a
	// duplicate save from extraction.
	Client    *Draft
	Extracted *Draft
}

// Capture normalizes whichever draft applies and persists it. Returns nil
// lead (no error) when neither draft yields an identifying field.
func (s *Service) Capture(ctx context.Context, params CaptureParams) (*Lead, error) {
	draft := s.pick(params.Client, params.Extracted)
	if draft == nil {
		return nil, nil
	}

	saved := &Lead{
		TenantID:       params.TenantID,
		ConversationID: params.ConversationID,
		Channel:        params.Channel,
		SourceHost:     params.SourceHost,
		CallerIP:       params.CallerIP,
		Consent:        draft.Consent,
	}
	if params.ExternalRef != "" {
		ref := params.ExternalRef
		saved.ExternalRef = &ref
	}
	if draft.Name != "" {
		saved.Name = &draft.Name
	}
	if draft.Email != "" {
		saved.Email = &draft.Email
	}
	if draft.Phone != "" {
		saved.Phone = &draft.Phone
	}

	if err := s.leads.Create(ctx, saved); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create lead")
	}

	if err := s.notifier.EnqueueLeadNotification(ctx, saved.ID); err != nil {
		s.log.Warn().Err(err).Uint("lead_id", saved.ID).Msg("enqueue lead notification")
	}

	return saved, nil
}

func (s *Service) pick(client, extracted *Draft) *Draft {
	if client != nil {
		if normalized := client.Normalize(); normalized != nil {
			return normalized
		}
	}
	if extracted != nil {
		return extracted.Normalize()
	}
	return nil
}
