package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/config"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/sessionstore"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/handlers"
)

type mockTenantRepo struct {
	byKey      map[string]*tenant.Tenant
	byID       map[uint]*tenant.Tenant
	heartbeats []string
}

func (m *mockTenantRepo) FindByFilter(_ context.Context, _ tenant.Filter) (*tenant.Tenant, error) {
	return nil, nil
}

func (m *mockTenantRepo) FindByEmbedKey(_ context.Context, key string) (*tenant.Tenant, error) {
	return m.byKey[key], nil
}

func (m *mockTenantRepo) FindByEmbedToken(_ context.Context, _ string) (*tenant.Tenant, error) {
	return nil, nil
}

func (m *mockTenantRepo) FindByID(_ context.Context, id uint) (*tenant.Tenant, error) {
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return nil, errors.New("tenant not found")
}

func (m *mockTenantRepo) RecordHeartbeat(_ context.Context, _ uint, host string, _ time.Time) error {
	m.heartbeats = append(m.heartbeats, host)
	return nil
}

func newSessionRouter(tenants *mockTenantRepo, store *sessionstore.MemoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{PlatformHost: "app.sitebot.chat", SessionTTL: 30 * time.Minute}
	handler := handlers.NewSessionHandler(cfg, tenants, store, zerolog.Nop())

	engine := gin.New()
	engine.GET("/v1/widget/session", handler.Session)
	return engine
}

func performRequest(t *testing.T, engine *gin.Engine, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSessionHandler_IssuesSession(t *testing.T) {
	tenants := &mockTenantRepo{byKey: map[string]*tenant.Tenant{
		"pk_live_1": {
			ID:             7,
			Name:           "Acme",
			Slug:           "acme",
			AllowedDomains: []string{"example.com"},
			DefaultLocale:  "en",
		},
	}}
	store := sessionstore.NewMemoryStore()
	engine := newSessionRouter(tenants, store)

	rec, body := performRequest(t, engine, "/v1/widget/session?key=pk_live_1&host=example.com")
	require.Equal(t, http.StatusOK, rec.Code)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "acme", body["slug"])
	assert.Equal(t, "en", body["locale"])

	session, err := store.Get(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, uint(7), session.TenantID)
	assert.Equal(t, "example.com", session.Host)
	assert.False(t, session.IsPreview)

	// Issuing a production session records the heartbeat the crawler checks.
	assert.Equal(t, []string{"example.com"}, tenants.heartbeats)
}

func TestSessionHandler_PreviewFromPlatformHost(t *testing.T) {
	tenants := &mockTenantRepo{byKey: map[string]*tenant.Tenant{
		"pk_live_1": {ID: 7, Slug: "acme", AllowedDomains: []string{"example.com"}},
	}}
	store := sessionstore.NewMemoryStore()
	engine := newSessionRouter(tenants, store)

	rec, body := performRequest(t, engine, "/v1/widget/session?key=pk_live_1&host=app.sitebot.chat")
	require.Equal(t, http.StatusOK, rec.Code)

	token, _ := body["token"].(string)
	session, err := store.Get(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.IsPreview)

	// Preview sessions never count as an installation heartbeat.
	assert.Empty(t, tenants.heartbeats)
}

func TestSessionHandler_Rejections(t *testing.T) {
	tenants := &mockTenantRepo{byKey: map[string]*tenant.Tenant{
		"pk_live_1": {ID: 7, AllowedDomains: []string{"example.com"}},
	}}

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "missing key", target: "/v1/widget/session?host=example.com", status: http.StatusBadRequest},
		{name: "missing host", target: "/v1/widget/session?key=pk_live_1", status: http.StatusBadRequest},
		{name: "unknown key", target: "/v1/widget/session?key=pk_other&host=example.com", status: http.StatusForbidden},
		{name: "host not allowed", target: "/v1/widget/session?key=pk_live_1&host=attacker.com", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newSessionRouter(tenants, sessionstore.NewMemoryStore())
			rec, body := performRequest(t, engine, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}
