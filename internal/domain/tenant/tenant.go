package tenant

import (
	"context"
	"strings"
	"time"
)

// BillingStatus mirrors the subscription status reported by the payment provider.
type BillingStatus string

const (
	BillingIncomplete BillingStatus = "incomplete"
	BillingTrialing   BillingStatus = "trialing"
	BillingActive     BillingStatus = "active"
	BillingCanceled   BillingStatus = "canceled"
	BillingPastDue    BillingStatus = "past_due"
)

// Tenant is a customer account owning its own widget, knowledge and billing state.
type Tenant struct {
	ID       uint
	PublicID string
	Name     string
	Slug     string

	// EmbedKey is the public key the widget loader sends to obtain a session.
	// EmbedToken is the legacy long-lived credential still accepted by the gate.
	EmbedKey   string
	EmbedToken string

	AllowedDomains []string
	DefaultLocale  string
	EnabledLocales []string

	Plan          string
	BillingStatus BillingStatus
	TrialEndsAt   *time.Time
	PeriodEndsAt  *time.Time

	SystemPrompt        *string
	QualificationPrompt *string
	KnowledgeText       *string
	ContactEmail        *string

	Theme          map[string]string
	ShowBranding   bool
	LocaleAuto     bool
	ShowHeaderIcon bool

	// Heartbeats records the last successful embed-session issuance per host.
	// The crawler uses it as proof the widget is actually installed there.
	Heartbeats map[string]time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows tenant lookups.
type Filter struct {
	ID         *uint
	PublicID   *string
	EmbedKey   *string
	EmbedToken *string
	Slug       *string
}

// Repository provides tenant persistence.
type Repository interface {
	FindByFilter(ctx context.Context, filter Filter) (*Tenant, error)
	FindByEmbedKey(ctx context.Context, key string) (*Tenant, error)
	FindByEmbedToken(ctx context.Context, token string) (*Tenant, error)
	FindByID(ctx context.Context, id uint) (*Tenant, error)
	RecordHeartbeat(ctx context.Context, tenantID uint, host string, at time.Time) error
}

// NormalizeHost lowercases and strips the port from a host value.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}

// AllowsHost reports whether host (or its www. pair) is in the allowed-domains list.
func (t *Tenant) AllowsHost(host string) bool {
	host = NormalizeHost(host)
	if host == "" {
		return false
	}

	pair := "www." + host
	if strings.HasPrefix(host, "www.") {
		pair = strings.TrimPrefix(host, "www.")
	}

	for _, allowed := range t.AllowedDomains {
		allowed = NormalizeHost(allowed)
		if allowed == host || allowed == pair {
			return true
		}
	}
	return false
}

// HeartbeatWithin reports whether host produced an embed session within d.
func (t *Tenant) HeartbeatWithin(host string, d time.Duration, now time.Time) bool {
	at, ok := t.Heartbeats[NormalizeHost(host)]
	if !ok {
		return false
	}
	return now.Sub(at) <= d
}

// ResolveLocale picks the reply locale for a request.
func (t *Tenant) ResolveLocale(requested string) string {
	if requested != "" && IsSupportedLocale(requested) {
		return requested
	}
	if t.DefaultLocale != "" && IsSupportedLocale(t.DefaultLocale) {
		return t.DefaultLocale
	}
	return "en"
}

// SupportedLocales are the reply locales the assistant can produce.
var SupportedLocales = []string{"en", "es", "fr", "it", "de"}

// IsSupportedLocale reports whether code is a supported reply locale.
func IsSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}
