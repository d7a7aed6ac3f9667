package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// Service resolves and creates conversations for inbound widget turns.
type Service struct {
	conversations Repository
	messages      MessageRepository
	reuseWindow   time.Duration
	now           func() time.Time
}

// NewService constructs the conversation service.
func NewService(conversations Repository, messages MessageRepository, reuseWindow time.Duration) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		reuseWindow:   reuseWindow,
		now:           time.Now,
	}
}

// ResolveParams describe the inbound turn.
type ResolveParams struct {
	TenantID    uint
	PublicID    string
	ExternalRef string
	Channel     Channel
	IsPreview   bool
}

// Resolve returns the conversation this turn belongs to. A client-supplied id
// must belong to the authenticated tenant. Without one, a recent open
// conversation for the same tenant and external reference is reused; the
// read-then-insert race is tolerated by design (worst case is two
// conversations for one visitor burst).
func (s *Service) Resolve(ctx context.Context, params ResolveParams) (*Conversation, error) {
	if params.PublicID != "" {
		conv, err := s.conversations.FindByPublicID(ctx, params.PublicID)
		if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "resolve conversation")
		}
		// An unknown id answers exactly like a foreign one so callers cannot
		// tell which conversation ids exist.
		if err != nil || conv == nil || conv.TenantID != params.TenantID {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeForbidden, "Conversation does not belong to tenant", nil)
		}
		return conv, nil
	}

	if params.ExternalRef != "" && !params.IsPreview {
		cutoff := s.now().Add(-s.reuseWindow)
		conv, err := s.conversations.FindReusable(ctx, params.TenantID, params.ExternalRef, cutoff)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "find reusable conversation")
		}
		if conv != nil {
			return conv, nil
		}
	}

	conv := &Conversation{
		PublicID:      "conv_" + uuid.NewString(),
		TenantID:      params.TenantID,
		Channel:       params.Channel,
		Status:        StatusOpen,
		LastMessageAt: s.now(),
	}
	if params.ExternalRef != "" {
		ref := params.ExternalRef
		conv.ExternalRef = &ref
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create conversation")
	}
	return conv, nil
}

// AppendMessage persists one turn and touches the conversation's last activity.
func (s *Service) AppendMessage(ctx context.Context, conv *Conversation, msg *Message) error {
	msg.ConversationID = conv.ID
	if err := s.messages.Append(ctx, msg); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append message")
	}
	now := s.now()
	conv.LastMessageAt = now
	if err := s.conversations.Touch(ctx, conv.ID, now); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "touch conversation")
	}
	return nil
}

// History returns the newest limit messages in chronological order.
func (s *Service) History(ctx context.Context, conversationID uint, limit int) ([]*Message, error) {
	msgs, err := s.messages.ListRecent(ctx, conversationID, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list history")
	}
	return msgs, nil
}
