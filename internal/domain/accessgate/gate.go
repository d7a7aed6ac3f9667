package accessgate

import (
	"context"
	"net/url"
	"strings"
	"time"

	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// Session is a short-lived, host-bound, tenant-scoped embed credential.
type Session struct {
	Token     string    `json:"token"`
	TenantID  uint      `json:"tenant_id"`
	Host      string    `json:"host"`
	IsPreview bool      `json:"is_preview"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore keeps sessions until they expire. Implementations live in
// infrastructure/sessionstore (memory and redis drivers).
type SessionStore interface {
	Put(ctx context.Context, session *Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, error)
}

// Result is the outcome of a successful authorization.
type Result struct {
	TenantID  uint
	IsPreview bool
}

// Gate validates inbound embed credentials against host and tenant.
type Gate struct {
	sessions     SessionStore
	tenants      tenant.Repository
	platformHost string
	now          func() time.Time
}

// NewGate constructs the access gate.
func NewGate(sessions SessionStore, tenants tenant.Repository, platformHost string) *Gate {
	return &Gate{
		sessions:     sessions,
		tenants:      tenants,
		platformHost: tenant.NormalizeHost(platformHost),
		now:          time.Now,
	}
}

// Authorize resolves a token and caller host into a tenant. Every failure maps
// to FORBIDDEN with a short label; the gate never reveals whether the token or
// the tenant lookup was the failing check.
func (g *Gate) Authorize(ctx context.Context, token, host string) (*Result, error) {
	if strings.TrimSpace(token) == "" {
		return nil, g.forbidden(ctx, "Missing token")
	}
	host = tenant.NormalizeHost(host)
	if host == "" {
		return nil, g.forbidden(ctx, "Missing host")
	}

	// Session path: token resolves to a stored embed session.
	if session, err := g.sessions.Get(ctx, token); err == nil && session != nil {
		if session.Expired(g.now()) {
			return nil, g.forbidden(ctx, "Session expired")
		}
		if tenant.NormalizeHost(session.Host) != host {
			return nil, g.forbidden(ctx, "Host mismatch")
		}
		if session.IsPreview && host != g.platformHost {
			return nil, g.forbidden(ctx, "Preview restricted")
		}
		return &Result{TenantID: session.TenantID, IsPreview: session.IsPreview}, nil
	}

	// Legacy path: long-lived tenant token gated by the domain allowlist.
	t, err := g.tenants.FindByEmbedToken(ctx, token)
	if err != nil || t == nil {
		return nil, g.forbidden(ctx, "Invalid token")
	}
	if !t.AllowsHost(host) {
		return nil, g.forbidden(ctx, "Domain not allowed")
	}
	return &Result{TenantID: t.ID}, nil
}

func (g *Gate) forbidden(ctx context.Context, label string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeForbidden, "Forbidden: "+label, nil)
}

// CallerHost derives the normalized caller host from the Origin header,
// falling back to the referer host only when the referer points at the
// platform itself (same-site dashboard requests send no Origin on GET).
func CallerHost(origin, referer, platformHost string) string {
	if origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			return tenant.NormalizeHost(u.Host)
		}
	}
	if referer != "" {
		if u, err := url.Parse(referer); err == nil && u.Host != "" {
			host := tenant.NormalizeHost(u.Host)
			if host == tenant.NormalizeHost(platformHost) {
				return host
			}
		}
	}
	return ""
}
