package chat

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"sitebot-server/services/assistant-api/internal/domain/tenant"
)

// LinkProber checks whether a URL is reachable. Implemented with a short
// per-probe timeout in infrastructure/linkprobe.
type LinkProber interface {
	Probe(ctx context.Context, rawURL string) bool
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)

// PostProcessor validates every URL a reply carries, inline and in CTA
// actions, stripping unreachable ones and repairing tenant-domain links that
// only resolve with a locale path segment. Probe results are memoized per
// request so each unique URL is checked once.
type PostProcessor struct {
	prober   LinkProber
	maxChars int
}

// NewPostProcessor constructs the post-processor.
func NewPostProcessor(prober LinkProber, maxChars int) *PostProcessor {
	return &PostProcessor{prober: prober, maxChars: maxChars}
}

// Process returns the cleaned reply and the surviving actions.
func (p *PostProcessor) Process(ctx context.Context, reply string, actions []Action, t *tenant.Tenant, locale string) (string, []Action) {
	unique := map[string]struct{}{}
	for _, raw := range urlPattern.FindAllString(reply, -1) {
		unique[trimTrailingPunct(raw)] = struct{}{}
	}
	for _, a := range actions {
		if a.Type == ActionCTA && a.URL != "" {
			unique[a.URL] = struct{}{}
		}
	}

	resolved := p.probeAll(ctx, unique, t, locale)

	for raw, outcome := range resolved {
		switch {
		case outcome.ok && outcome.repaired != "":
			reply = strings.ReplaceAll(reply, raw, outcome.repaired)
		case !outcome.ok:
			reply = strings.ReplaceAll(reply, raw, "")
		}
	}
	reply = strings.TrimSpace(collapseSpaces(reply))

	kept := actions[:0:0]
	for _, a := range actions {
		if a.Type == ActionCTA {
			outcome, checked := resolved[a.URL]
			if !checked || !outcome.ok {
				continue
			}
			if outcome.repaired != "" {
				a.URL = outcome.repaired
			}
		}
		kept = append(kept, a)
	}

	return Truncate(reply, p.maxChars), kept
}

type probeOutcome struct {
	ok       bool
	repaired string
}

func (p *PostProcessor) probeAll(ctx context.Context, urls map[string]struct{}, t *tenant.Tenant, locale string) map[string]probeOutcome {
	results := make(map[string]probeOutcome, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for raw := range urls {
		raw := raw
		g.Go(func() error {
			outcome := p.probeOne(gctx, raw, t, locale)
			mu.Lock()
			results[raw] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *PostProcessor) probeOne(ctx context.Context, raw string, t *tenant.Tenant, locale string) probeOutcome {
	if p.prober.Probe(ctx, raw) {
		return probeOutcome{ok: true}
	}
	if repaired := localeRepair(raw, t, locale); repaired != "" && p.prober.Probe(ctx, repaired) {
		return probeOutcome{ok: true, repaired: repaired}
	}
	return probeOutcome{}
}

// localeRepair inserts the locale as the leading path segment, but only for
// URLs on the tenant's own domains.
func localeRepair(raw string, t *tenant.Tenant, locale string) string {
	if locale == "" || t == nil {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !t.AllowsHost(u.Host) {
		return ""
	}
	if strings.HasPrefix(u.Path, "/"+locale+"/") || u.Path == "/"+locale {
		return ""
	}
	u.Path = "/" + locale + strings.TrimSuffix("/"+strings.TrimPrefix(u.Path, "/"), "/")
	return u.String()
}

// Truncate caps a reply at max runes, cutting back to the last word boundary.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

func trimTrailingPunct(raw string) string {
	return strings.TrimRight(raw, ".,;:!?")
}

var spacePattern = regexp.MustCompile(`[ \t]{2,}`)

func collapseSpaces(s string) string {
	return spacePattern.ReplaceAllString(s, " ")
}
