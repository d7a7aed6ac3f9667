package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"sitebot-server/services/assistant-api/internal/domain/crawl"
)

const userAgent = "SitebotCrawler/1.0 (+https://sitebot.chat/crawler)"

// HTTPFetcher retrieves pages for the crawler with a short per-request
// timeout so one slow page cannot eat the crawl budget.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher constructs the fetcher.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "text/html,application/xhtml+xml").
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
	}
}

// Fetch downloads a page and extracts its title, plain text and anchor hrefs.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*crawl.Page, error) {
	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "xhtml") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	extracted, err := Extract(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &crawl.Page{
		URL:   rawURL,
		Title: extracted.Title,
		Text:  extracted.Text,
		Links: extracted.Links,
	}, nil
}
