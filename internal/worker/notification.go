package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/mailer"
)

// summaryTurns is how much of the dialogue the notification email quotes.
const summaryTurns = 8

var notificationSubjects = map[string]string{
	"en": "New lead from your assistant",
	"es": "Nuevo contacto de tu asistente",
	"fr": "Nouveau contact de votre assistant",
	"it": "Nuovo contatto dal tuo assistente",
	"de": "Neuer Kontakt von Ihrem Assistenten",
}

var conversationHeadings = map[string]string{
	"en": "Recent conversation",
	"es": "Conversación reciente",
	"fr": "Conversation récente",
	"it": "Conversazione recente",
	"de": "Letzter Gesprächsverlauf",
}

// NotificationService builds and sends lead notification emails. Everything
// here is best-effort: a failure marks the task failed and is never seen by
// the visitor whose turn produced the lead.
type NotificationService struct {
	leads    lead.Repository
	tenants  tenant.Repository
	messages conversation.MessageRepository
	sender   mailer.Sender
	log      zerolog.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(
	leads lead.Repository,
	tenants tenant.Repository,
	messages conversation.MessageRepository,
	sender mailer.Sender,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		leads:    leads,
		tenants:  tenants,
		messages: messages,
		sender:   sender,
		log:      log.With().Str("component", "notification-service").Logger(),
	}
}

// NotifyLead sends the tenant a summary email for one captured lead.
func (s *NotificationService) NotifyLead(ctx context.Context, leadID uint) error {
	captured, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("load lead %d: %w", leadID, err)
	}

	owner, err := s.tenants.FindByID(ctx, captured.TenantID)
	if err != nil {
		return fmt.Errorf("load tenant %d: %w", captured.TenantID, err)
	}
	if owner.ContactEmail == nil || strings.TrimSpace(*owner.ContactEmail) == "" {
		s.log.Debug().Uint("tenant_id", owner.ID).Msg("tenant has no contact email, skipping notification")
		return nil
	}

	history, err := s.messages.ListRecent(ctx, captured.ConversationID, summaryTurns)
	if err != nil {
		s.log.Warn().Err(err).Uint("conversation_id", captured.ConversationID).Msg("load conversation summary")
		history = nil
	}

	locale := owner.ResolveLocale("")
	email := mailer.Email{
		To:      *owner.ContactEmail,
		Subject: localized(notificationSubjects, locale),
		Text:    buildBody(captured, history, locale),
	}

	if err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send lead notification: %w", err)
	}

	s.log.Info().Uint("lead_id", leadID).Uint("tenant_id", owner.ID).Msg("lead notification sent")
	return nil
}

func buildBody(captured *lead.Lead, history []*conversation.Message, locale string) string {
	var b strings.Builder

	if captured.Name != nil {
		fmt.Fprintf(&b, "Name: %s\n", *captured.Name)
	}
	if captured.Email != nil {
		fmt.Fprintf(&b, "Email: %s\n", *captured.Email)
	}
	if captured.Phone != nil {
		fmt.Fprintf(&b, "Phone: %s\n", *captured.Phone)
	}
	fmt.Fprintf(&b, "Channel: %s\n", captured.Channel)
	if captured.SourceHost != "" {
		fmt.Fprintf(&b, "Source: %s\n", captured.SourceHost)
	}

	if len(history) > 0 {
		fmt.Fprintf(&b, "\n%s:\n", localized(conversationHeadings, locale))
		for _, msg := range history {
			if msg.Role == conversation.RoleSystem {
				continue
			}
			fmt.Fprintf(&b, "- [%s] %s\n", msg.Role, msg.Content)
		}
	}

	return b.String()
}

func localized(table map[string]string, locale string) string {
	if v, ok := table[locale]; ok {
		return v
	}
	return table["en"]
}
