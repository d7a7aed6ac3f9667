package tenant_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sitebot-server/services/assistant-api/internal/domain/tenant"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Example.COM", want: "example.com"},
		{name: "strips port", in: "example.com:8443", want: "example.com"},
		{name: "strips trailing dot", in: "example.com.", want: "example.com"},
		{name: "trims whitespace", in: "  example.com ", want: "example.com"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenant.NormalizeHost(tt.in))
		})
	}
}

func TestTenant_AllowsHost(t *testing.T) {
	tn := &tenant.Tenant{AllowedDomains: []string{"example.com", "www.other.org"}}

	tests := []struct {
		name string
		host string
		want bool
	}{
		{name: "exact match", host: "example.com", want: true},
		{name: "www variant of allowed apex", host: "www.example.com", want: true},
		{name: "apex variant of allowed www", host: "other.org", want: true},
		{name: "case and port ignored", host: "Example.com:443", want: true},
		{name: "unrelated host", host: "attacker.com", want: false},
		{name: "subdomain is not the apex", host: "shop.example.com", want: false},
		{name: "empty host", host: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tn.AllowsHost(tt.host))
		})
	}
}

func TestTenant_HeartbeatWithin(t *testing.T) {
	now := time.Now()
	tn := &tenant.Tenant{Heartbeats: map[string]time.Time{
		"example.com": now.Add(-2 * time.Hour),
	}}

	assert.True(t, tn.HeartbeatWithin("example.com", 24*time.Hour, now))
	assert.True(t, tn.HeartbeatWithin("EXAMPLE.com:443", 24*time.Hour, now))
	assert.False(t, tn.HeartbeatWithin("example.com", time.Hour, now))
	assert.False(t, tn.HeartbeatWithin("other.com", 24*time.Hour, now))

	var empty tenant.Tenant
	assert.False(t, empty.HeartbeatWithin("example.com", 24*time.Hour, now))
}

func TestTenant_ResolveLocale(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		deflt     string
		want      string
	}{
		{name: "requested supported locale wins", requested: "fr", deflt: "es", want: "fr"},
		{name: "unsupported request falls to default", requested: "pt", deflt: "es", want: "es"},
		{name: "empty request falls to default", requested: "", deflt: "de", want: "de"},
		{name: "unsupported default falls to en", requested: "", deflt: "xx", want: "en"},
		{name: "nothing configured", requested: "", deflt: "", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn := &tenant.Tenant{DefaultLocale: tt.deflt}
			assert.Equal(t, tt.want, tn.ResolveLocale(tt.requested))
		})
	}
}
