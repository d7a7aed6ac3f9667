package conversation_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

type stubConversations struct {
	byPublicID map[string]*conversation.Conversation
	findErr    error
	reusable   *conversation.Conversation
	created    []*conversation.Conversation
	touched    []uint
}

func (s *stubConversations) Create(_ context.Context, conv *conversation.Conversation) error {
	conv.ID = uint(len(s.created) + 1)
	s.created = append(s.created, conv)
	return nil
}

func (s *stubConversations) FindByPublicID(_ context.Context, publicID string) (*conversation.Conversation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byPublicID[publicID], nil
}

func (s *stubConversations) FindReusable(_ context.Context, tenantID uint, externalRef string, cutoff time.Time) (*conversation.Conversation, error) {
	if s.reusable != nil && s.reusable.TenantID == tenantID && s.reusable.LastMessageAt.After(cutoff) {
		return s.reusable, nil
	}
	return nil, nil
}

func (s *stubConversations) Touch(_ context.Context, id uint, _ time.Time) error {
	s.touched = append(s.touched, id)
	return nil
}

type stubMessages struct {
	appended []*conversation.Message
}

func (s *stubMessages) Append(_ context.Context, msg *conversation.Message) error {
	s.appended = append(s.appended, msg)
	return nil
}

func (s *stubMessages) ListRecent(_ context.Context, _ uint, _ int) ([]*conversation.Message, error) {
	return s.appended, nil
}

func (s *stubMessages) CountUserMessages(_ context.Context, _ uint, _, _ time.Time) (int64, error) {
	return 0, nil
}

func TestService_Resolve_ClientSuppliedID(t *testing.T) {
	owned := &conversation.Conversation{ID: 1, PublicID: "conv_a", TenantID: 5}
	repo := &stubConversations{byPublicID: map[string]*conversation.Conversation{"conv_a": owned}}
	svc := conversation.NewService(repo, &stubMessages{}, 12*time.Minute)

	conv, err := svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID: 5,
		PublicID: "conv_a",
	})
	require.NoError(t, err)
	assert.Equal(t, owned, conv)

	// A conversation belonging to another tenant is never handed out.
	_, err = svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID: 6,
		PublicID: "conv_a",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	_, err = svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID: 5,
		PublicID: "conv_unknown",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestService_Resolve_UnknownIDAnswersLikeForeignID(t *testing.T) {
	// The repository reports a missing row as NOT_FOUND; the service must not
	// let that leak, or callers could tell absent ids from foreign ones.
	repo := &stubConversations{
		findErr: platformerrors.NewError(context.Background(), platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil),
	}
	svc := conversation.NewService(repo, &stubMessages{}, 12*time.Minute)

	_, err := svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID: 5,
		PublicID: "conv_does_not_exist",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	assert.False(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestService_Resolve_ReusesRecentConversation(t *testing.T) {
	recent := &conversation.Conversation{
		ID:            3,
		PublicID:      "conv_recent",
		TenantID:      5,
		Status:        conversation.StatusOpen,
		LastMessageAt: time.Now().Add(-2 * time.Minute),
	}
	repo := &stubConversations{reusable: recent}
	svc := conversation.NewService(repo, &stubMessages{}, 12*time.Minute)

	conv, err := svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID:    5,
		ExternalRef: "wa:+123456",
		Channel:     conversation.ChannelWhatsApp,
	})
	require.NoError(t, err)
	assert.Equal(t, recent, conv)
	assert.Empty(t, repo.created)
}

func TestService_Resolve_StaleConversationStartsFresh(t *testing.T) {
	stale := &conversation.Conversation{
		ID:            3,
		TenantID:      5,
		Status:        conversation.StatusOpen,
		LastMessageAt: time.Now().Add(-time.Hour),
	}
	repo := &stubConversations{reusable: stale}
	svc := conversation.NewService(repo, &stubMessages{}, 12*time.Minute)

	conv, err := svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID:    5,
		ExternalRef: "wa:+123456",
		Channel:     conversation.ChannelWhatsApp,
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.True(t, strings.HasPrefix(conv.PublicID, "conv_"))
	assert.Equal(t, conversation.StatusOpen, conv.Status)
	require.NotNil(t, conv.ExternalRef)
	assert.Equal(t, "wa:+123456", *conv.ExternalRef)
}

func TestService_Resolve_PreviewNeverReuses(t *testing.T) {
	recent := &conversation.Conversation{
		ID:            3,
		TenantID:      5,
		Status:        conversation.StatusOpen,
		LastMessageAt: time.Now(),
	}
	repo := &stubConversations{reusable: recent}
	svc := conversation.NewService(repo, &stubMessages{}, 12*time.Minute)

	conv, err := svc.Resolve(context.Background(), conversation.ResolveParams{
		TenantID:    5,
		ExternalRef: "ref",
		IsPreview:   true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, recent, conv)
	assert.Len(t, repo.created, 1)
}

func TestService_AppendMessage_TouchesConversation(t *testing.T) {
	repo := &stubConversations{}
	messages := &stubMessages{}
	svc := conversation.NewService(repo, messages, 12*time.Minute)

	conv := &conversation.Conversation{ID: 8}
	before := conv.LastMessageAt
	err := svc.AppendMessage(context.Background(), conv, &conversation.Message{
		Role:    conversation.RoleUser,
		Content: "hello",
	})
	require.NoError(t, err)
	require.Len(t, messages.appended, 1)
	assert.Equal(t, uint(8), messages.appended[0].ConversationID)
	assert.Equal(t, []uint{8}, repo.touched)
	assert.True(t, conv.LastMessageAt.After(before))
}

func TestNormalizeChannel(t *testing.T) {
	tests := []struct {
		in   string
		want conversation.Channel
	}{
		{in: "whatsapp", want: conversation.ChannelWhatsApp},
		{in: "sms", want: conversation.ChannelSMS},
		{in: "email", want: conversation.ChannelEmail},
		{in: "telegram", want: conversation.ChannelTelegram},
		{in: "web", want: conversation.ChannelWeb},
		{in: "", want: conversation.ChannelWeb},
		{in: "carrier-pigeon", want: conversation.ChannelWeb},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, conversation.NormalizeChannel(tt.in), tt.in)
	}
}
