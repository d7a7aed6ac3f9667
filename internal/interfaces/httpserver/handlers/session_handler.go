package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/config"
	"sitebot-server/services/assistant-api/internal/domain/accessgate"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/responses"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// SessionHandler issues short-lived embed sessions to the widget loader.
type SessionHandler struct {
	tenants      tenant.Repository
	sessions     accessgate.SessionStore
	platformHost string
	sessionTTL   time.Duration
	log          zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(cfg *config.Config, tenants tenant.Repository, sessions accessgate.SessionStore, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		tenants:      tenants,
		sessions:     sessions,
		platformHost: tenant.NormalizeHost(cfg.PlatformHost),
		sessionTTL:   cfg.SessionTTL,
		log:          log.With().Str("handler", "session").Logger(),
	}
}

// Session handles GET /v1/widget/session?key=<embed key>&host=<host>.
func (h *SessionHandler) Session(c *gin.Context) {
	key := c.Query("key")
	host := tenant.NormalizeHost(c.Query("host"))
	if key == "" || host == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Missing key or host")
		return
	}

	ctx := c.Request.Context()
	t, err := h.tenants.FindByEmbedKey(ctx, key)
	if err != nil || t == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "Forbidden")
		return
	}

	// The platform's own host gets a preview session regardless of the
	// allowlist; every other host must be listed.
	isPreview := host == h.platformHost
	if !isPreview && !t.AllowsHost(host) {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "Forbidden")
		return
	}

	now := time.Now()
	session := &accessgate.Session{
		Token:     "es_" + uuid.NewString(),
		TenantID:  t.ID,
		Host:      host,
		IsPreview: isPreview,
		ExpiresAt: now.Add(h.sessionTTL),
	}
	if err := h.sessions.Put(ctx, session, h.sessionTTL); err != nil {
		responses.HandleError(c, err, "Failed to issue session")
		return
	}

	// A production session proves the widget runs on this host; the crawler
	// requires this heartbeat before indexing the domain.
	if !isPreview {
		if err := h.tenants.RecordHeartbeat(ctx, t.ID, host, now); err != nil {
			h.log.Warn().Err(err).Uint("tenant_id", t.ID).Str("host", host).Msg("record heartbeat")
		}
	}

	c.JSON(http.StatusOK, responses.NewSessionResponse(session.Token, t))
}
