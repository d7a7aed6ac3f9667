package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/mailer"
	"sitebot-server/services/assistant-api/internal/worker"
)

type stubLeads struct {
	byID map[uint]*lead.Lead
}

func (s *stubLeads) Create(_ context.Context, _ *lead.Lead) error { return nil }

func (s *stubLeads) FindByID(_ context.Context, id uint) (*lead.Lead, error) {
	if l, ok := s.byID[id]; ok {
		return l, nil
	}
	return nil, errors.New("not found")
}

type stubTenants struct {
	byID map[uint]*tenant.Tenant
}

func (s *stubTenants) FindByFilter(_ context.Context, _ tenant.Filter) (*tenant.Tenant, error) {
	return nil, nil
}

func (s *stubTenants) FindByEmbedKey(_ context.Context, _ string) (*tenant.Tenant, error) {
	return nil, nil
}

func (s *stubTenants) FindByEmbedToken(_ context.Context, _ string) (*tenant.Tenant, error) {
	return nil, nil
}

func (s *stubTenants) FindByID(_ context.Context, id uint) (*tenant.Tenant, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	return nil, errors.New("not found")
}

func (s *stubTenants) RecordHeartbeat(_ context.Context, _ uint, _ string, _ time.Time) error {
	return nil
}

type stubMessages struct {
	recent []*conversation.Message
}

func (s *stubMessages) Append(_ context.Context, _ *conversation.Message) error { return nil }

func (s *stubMessages) ListRecent(_ context.Context, _ uint, _ int) ([]*conversation.Message, error) {
	return s.recent, nil
}

func (s *stubMessages) CountUserMessages(_ context.Context, _ uint, _, _ time.Time) (int64, error) {
	return 0, nil
}

type captureSender struct {
	sent []mailer.Email
	err  error
}

func (c *captureSender) Send(_ context.Context, email mailer.Email) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, email)
	return nil
}

func strptr(s string) *string { return &s }

func TestNotificationService_NotifyLead(t *testing.T) {
	leads := &stubLeads{byID: map[uint]*lead.Lead{
		9: {
			ID:             9,
			TenantID:       3,
			ConversationID: 5,
			Channel:        conversation.ChannelWeb,
			SourceHost:     "example.com",
			Name:           strptr("Jane"),
			Email:          strptr("jane@example.com"),
		},
	}}
	tenants := &stubTenants{byID: map[uint]*tenant.Tenant{
		3: {ID: 3, ContactEmail: strptr("owner@acme.test"), DefaultLocale: "es"},
	}}
	messages := &stubMessages{recent: []*conversation.Message{
		{Role: conversation.RoleUser, Content: "Do you ship to Madrid?"},
		{Role: conversation.RoleAssistant, Content: "Yes, within three days."},
		{Role: conversation.RoleSystem, Content: "internal prompt"},
	}}
	sender := &captureSender{}

	svc := worker.NewNotificationService(leads, tenants, messages, sender, zerolog.Nop())
	require.NoError(t, svc.NotifyLead(context.Background(), 9))

	require.Len(t, sender.sent, 1)
	email := sender.sent[0]
	assert.Equal(t, "owner@acme.test", email.To)
	assert.Equal(t, "Nuevo contacto de tu asistente", email.Subject)
	assert.Contains(t, email.Text, "Name: Jane")
	assert.Contains(t, email.Text, "Email: jane@example.com")
	assert.Contains(t, email.Text, "Source: example.com")
	assert.Contains(t, email.Text, "Do you ship to Madrid?")
	assert.Contains(t, email.Text, "Yes, within three days.")
	// System turns stay out of the summary.
	assert.NotContains(t, email.Text, "internal prompt")
}

func TestNotificationService_SkipsTenantWithoutContactEmail(t *testing.T) {
	leads := &stubLeads{byID: map[uint]*lead.Lead{
		9: {ID: 9, TenantID: 3, Channel: conversation.ChannelWeb},
	}}
	tenants := &stubTenants{byID: map[uint]*tenant.Tenant{3: {ID: 3}}}
	sender := &captureSender{}

	svc := worker.NewNotificationService(leads, tenants, &stubMessages{}, sender, zerolog.Nop())
	require.NoError(t, svc.NotifyLead(context.Background(), 9))
	assert.Empty(t, sender.sent)
}

func TestNotificationService_Errors(t *testing.T) {
	tenants := &stubTenants{byID: map[uint]*tenant.Tenant{
		3: {ID: 3, ContactEmail: strptr("owner@acme.test")},
	}}
	leads := &stubLeads{byID: map[uint]*lead.Lead{
		9: {ID: 9, TenantID: 3, Channel: conversation.ChannelWeb},
	}}

	t.Run("unknown lead", func(t *testing.T) {
		svc := worker.NewNotificationService(leads, tenants, &stubMessages{}, &captureSender{}, zerolog.Nop())
		err := svc.NotifyLead(context.Background(), 404)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load lead")
	})

	t.Run("sender failure surfaces", func(t *testing.T) {
		sender := &captureSender{err: errors.New("mail api down")}
		svc := worker.NewNotificationService(leads, tenants, &stubMessages{}, sender, zerolog.Nop())
		err := svc.NotifyLead(context.Background(), 9)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "send lead notification")
	})
}
