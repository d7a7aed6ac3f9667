package linkprobe

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Prober checks URL liveness with HEAD, falling back to GET for servers that
// reject HEAD outright. The timeout is short: an unreachable link is stripped
// rather than waited on.
type Prober struct {
	client *resty.Client
}

// NewProber constructs the prober.
func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client: resty.New().
			SetTimeout(timeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
	}
}

// Probe reports whether the URL answers with a non-error status.
func (p *Prober) Probe(ctx context.Context, rawURL string) bool {
	resp, err := p.client.R().SetContext(ctx).Head(rawURL)
	if err == nil && resp.StatusCode() < 400 {
		return true
	}

	// Some servers reject HEAD; retry those with GET before giving up.
	if err == nil {
		switch resp.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
			resp, err = p.client.R().SetContext(ctx).Get(rawURL)
			return err == nil && resp.StatusCode() < 400
		}
	}
	return false
}
