package linkprobe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sitebot-server/services/assistant-api/internal/infrastructure/linkprobe"
)

func TestProber_Probe(t *testing.T) {
	var headCalls, getCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/head-rejected":
			// Served only via GET; HEAD gets 405.
			if r.Method == http.MethodHead {
				headCalls++
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			getCalls++
			w.WriteHeader(http.StatusOK)
		case "/redirect":
			http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	prober := linkprobe.NewProber(2 * time.Second)
	ctx := context.Background()

	assert.True(t, prober.Probe(ctx, server.URL+"/ok"))
	assert.True(t, prober.Probe(ctx, server.URL+"/redirect"))
	assert.False(t, prober.Probe(ctx, server.URL+"/missing"))

	assert.True(t, prober.Probe(ctx, server.URL+"/head-rejected"))
	assert.Equal(t, 1, headCalls)
	assert.Equal(t, 1, getCalls)

	assert.False(t, prober.Probe(ctx, "http://127.0.0.1:1/unreachable"))
}
