package lead_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
)

type stubLeadRepo struct {
	created []*lead.Lead
}

func (s *stubLeadRepo) Create(_ context.Context, l *lead.Lead) error {
	l.ID = uint(len(s.created) + 1)
	s.created = append(s.created, l)
	return nil
}

func (s *stubLeadRepo) FindByID(_ context.Context, id uint) (*lead.Lead, error) {
	for _, l := range s.created {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

type stubNotifier struct {
	enqueued []uint
}

func (s *stubNotifier) EnqueueLeadNotification(_ context.Context, leadID uint) error {
	s.enqueued = append(s.enqueued, leadID)
	return nil
}

func TestService_Capture(t *testing.T) {
	repo := &stubLeadRepo{}
	notifier := &stubNotifier{}
	svc := lead.NewService(repo, notifier, zerolog.Nop())

	saved, err := svc.Capture(context.Background(), lead.CaptureParams{
		TenantID:       3,
		ConversationID: 11,
		Channel:        conversation.ChannelWeb,
		SourceHost:     "example.com",
		ExternalRef:    "visitor-1",
		CallerIP:       "10.0.0.1",
		Client:         &lead.Draft{Name: " Jane ", Email: "JANE@example.com", Consent: true},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, uint(3), saved.TenantID)
	require.NotNil(t, saved.Name)
	assert.Equal(t, "Jane", *saved.Name)
	require.NotNil(t, saved.Email)
	assert.Equal(t, "jane@example.com", *saved.Email)
	assert.True(t, saved.Consent)
	require.NotNil(t, saved.ExternalRef)
	assert.Equal(t, "visitor-1", *saved.ExternalRef)

	assert.Equal(t, []uint{saved.ID}, notifier.enqueued)
}

func TestService_Capture_ClientWinsOverExtracted(t *testing.T) {
	repo := &stubLeadRepo{}
	svc := lead.NewService(repo, &stubNotifier{}, zerolog.Nop())

	saved, err := svc.Capture(context.Background(), lead.CaptureParams{
		TenantID:  3,
		Client:    &lead.Draft{Email: "client@example.com"},
		Extracted: &lead.Draft{Email: "extracted@example.com"},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Email)
	assert.Equal(t, "client@example.com", *saved.Email)
	assert.Len(t, repo.created, 1)
}

func TestService_Capture_FallsBackToExtracted(t *testing.T) {
	repo := &stubLeadRepo{}
	svc := lead.NewService(repo, &stubNotifier{}, zerolog.Nop())

	// The client draft normalizes to nothing, so the extracted one applies.
	saved, err := svc.Capture(context.Background(), lead.CaptureParams{
		TenantID:  3,
		Client:    &lead.Draft{Email: "broken"},
		Extracted: &lead.Draft{Phone: "+1 555 0100"},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, saved.Phone)
	assert.Equal(t, "+1 555 0100", *saved.Phone)
}

func TestService_Capture_NoIdentifyingField(t *testing.T) {
	repo := &stubLeadRepo{}
	notifier := &stubNotifier{}
	svc := lead.NewService(repo, notifier, zerolog.Nop())

	saved, err := svc.Capture(context.Background(), lead.CaptureParams{
		TenantID:  3,
		Client:    &lead.Draft{Email: "not-an-email"},
		Extracted: &lead.Draft{Consent: true},
	})
	require.NoError(t, err)
	assert.Nil(t, saved)
	assert.Empty(t, repo.created)
	assert.Empty(t, notifier.enqueued)
}
