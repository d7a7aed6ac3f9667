package crawl_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/crawl"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases scheme and host", in: "HTTPS://Example.COM/About", want: "https://example.com/About"},
		{name: "drops fragment", in: "https://example.com/page#section", want: "https://example.com/page"},
		{name: "drops trailing slash", in: "https://example.com/about/", want: "https://example.com/about"},
		{name: "keeps root slash", in: "https://example.com/", want: "https://example.com/"},
		{name: "keeps query", in: "https://example.com/search?q=x", want: "https://example.com/search?q=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, crawl.NormalizeURL(mustParse(t, tt.in)))
		})
	}
}

func TestSameDomain(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{a: "https://example.com/", b: "https://example.com/about", want: true},
		{a: "https://example.com/", b: "https://www.example.com/about", want: true},
		{a: "https://example.com/", b: "https://example.com:8080/x", want: true},
		{a: "https://example.com/", b: "https://shop.example.com/", want: false},
		{a: "https://example.com/", b: "https://other.com/", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, crawl.SameDomain(mustParse(t, tt.a), mustParse(t, tt.b)), "%s vs %s", tt.a, tt.b)
	}
}

func TestCrawlable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "plain page", in: "https://example.com/pricing", want: true},
		{name: "root", in: "https://example.com/", want: true},
		{name: "admin path", in: "https://example.com/admin/users", want: false},
		{name: "wp-login", in: "https://example.com/wp-login", want: false},
		{name: "checkout", in: "https://example.com/checkout/step-1", want: false},
		{name: "api route", in: "https://example.com/api/v1/items", want: false},
		{name: "image asset", in: "https://example.com/logo.png", want: false},
		{name: "pdf", in: "https://example.com/brochure.pdf", want: false},
		{name: "stylesheet", in: "https://example.com/main.css", want: false},
		{name: "preview query", in: "https://example.com/page?preview=1", want: false},
		{name: "token query", in: "https://example.com/page?token=abc", want: false},
		{name: "harmless query", in: "https://example.com/page?ref=nav", want: true},
		{name: "ftp scheme", in: "ftp://example.com/file", want: false},
		{name: "path containing admin as substring", in: "https://example.com/administration-guide", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, crawl.Crawlable(mustParse(t, tt.in)))
		})
	}
}

func TestResolveLink(t *testing.T) {
	base := mustParse(t, "https://example.com/docs/intro")

	tests := []struct {
		name   string
		href   string
		want   string
		wantOK bool
	}{
		{name: "relative path", href: "../pricing", want: "https://example.com/pricing", wantOK: true},
		{name: "absolute path", href: "/about", want: "https://example.com/about", wantOK: true},
		{name: "absolute url", href: "https://example.com/contact", want: "https://example.com/contact", wantOK: true},
		{name: "fragment stripped", href: "/about#team", want: "https://example.com/about", wantOK: true},
		{name: "pure fragment", href: "#top", wantOK: false},
		{name: "mailto", href: "mailto:hi@example.com", wantOK: false},
		{name: "tel", href: "tel:+15550100", wantOK: false},
		{name: "javascript", href: "javascript:void(0)", wantOK: false},
		{name: "empty", href: "", wantOK: false},
		{name: "whitespace", href: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := crawl.ResolveLink(base, tt.href)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, u.String())
			}
		})
	}
}

func TestNormalizeMode(t *testing.T) {
	assert.Equal(t, crawl.ModePage, crawl.NormalizeMode("page"))
	assert.Equal(t, crawl.ModeSite, crawl.NormalizeMode("site"))
	assert.Equal(t, crawl.ModeSite, crawl.NormalizeMode(""))
	assert.Equal(t, crawl.ModeSite, crawl.NormalizeMode("bogus"))
}
