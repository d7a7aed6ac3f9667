package fetcher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/infrastructure/fetcher"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>  Acme Anvils — Pricing  </title>
  <style>body { color: red; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <nav><a href="/">Home</a> <a href="/about">About</a></nav>
  <h1>Pricing</h1>
  <p>Our anvils start at <strong>$10</strong> per unit.</p>
  <script>window.analytics = {};</script>
  <noscript>Please enable JavaScript.</noscript>
  <template><p>hidden</p></template>
  <svg><text>vector text</text></svg>
  <iframe src="https://ads.example.com"></iframe>
  <footer><a href="mailto:sales@acme.test">Contact</a></footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	out, err := fetcher.Extract(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Acme Anvils — Pricing", out.Title)

	assert.Contains(t, out.Text, "Pricing")
	assert.Contains(t, out.Text, "Our anvils start at $10 per unit.")
	assert.NotContains(t, out.Text, "color: red")
	assert.NotContains(t, out.Text, "tracking")
	assert.NotContains(t, out.Text, "analytics")
	assert.NotContains(t, out.Text, "enable JavaScript")
	assert.NotContains(t, out.Text, "hidden")
	assert.NotContains(t, out.Text, "vector text")
	// The title lives in head and is not part of the body text.
	assert.False(t, strings.HasPrefix(out.Text, "Acme"))

	assert.Equal(t, []string{"/", "/about", "mailto:sales@acme.test"}, out.Links)
}

func TestExtract_FirstTitleWins(t *testing.T) {
	page := `<html><head><title>First</title></head><body><svg><title>icon</title></svg>ok</body></html>`
	out, err := fetcher.Extract(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "First", out.Title)
}

func TestExtract_EmptyDocument(t *testing.T) {
	out, err := fetcher.Extract(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out.Title)
	assert.Empty(t, out.Text)
	assert.Empty(t, out.Links)
}
