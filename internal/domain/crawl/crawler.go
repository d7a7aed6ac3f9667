package crawl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/domain/knowledge"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/metrics"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// Page is one fetched and text-extracted page.
type Page struct {
	URL   string
	Title string
	Text  string
	Links []string
}

// Fetcher retrieves a page and extracts its plain text, title and anchor
// hrefs. Implemented with resty + an HTML walker in infrastructure/fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Embedder turns chunk texts into vectors in one batch call.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Budget bounds one crawl run. Whichever limit is hit first stops the walk
// gracefully with partial results.
type Budget struct {
	MaxPages   int
	MaxDepth   int
	TimeBudget time.Duration
}

// Limits is the budget echo returned with every run result.
type Limits struct {
	MaxPages   int `json:"max_pages"`
	MaxDepth   int `json:"max_depth"`
	TimeBudget int `json:"time_budget_seconds"`
}

// Result summarizes one crawl run.
type Result struct {
	RunID             string
	Mode              Mode
	PagesScanned      int
	DocumentsUpserted int
	ChunksUpserted    int
	Errors            []string
	Limits            Limits
}

// Options tune the crawler beyond the teacher budgets.
type Options struct {
	SiteBudget       Budget
	HeartbeatWindow  time.Duration
	SkipUnchanged    bool
	RequireHeartbeat bool
}

// Crawler walks a tenant's site breadth-first and upserts what it finds into
// the knowledge store.
type Crawler struct {
	fetcher   Fetcher
	embedder  Embedder
	documents knowledge.DocumentRepository
	chunks    knowledge.ChunkRepository
	runs      RunRepository
	opts      Options
	log       zerolog.Logger
	now       func() time.Time
}

// NewCrawler constructs the crawler.
func NewCrawler(
	fetcher Fetcher,
	embedder Embedder,
	documents knowledge.DocumentRepository,
	chunks knowledge.ChunkRepository,
	runs RunRepository,
	opts Options,
	log zerolog.Logger,
) *Crawler {
	return &Crawler{
		fetcher:   fetcher,
		embedder:  embedder,
		documents: documents,
		chunks:    chunks,
		runs:      runs,
		opts:      opts,
		log:       log.With().Str("component", "crawler").Logger(),
		now:       time.Now,
	}
}

// Run crawls seedURL for the tenant. Structural failures (bad URL, domain not
// allowed, no widget heartbeat) error out before any fetch; everything after
// that accumulates into the run's error list instead of aborting.
func (c *Crawler) Run(ctx context.Context, t *tenant.Tenant, seedURL, locale string, mode Mode) (*Result, error) {
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Host == "" || (seed.Scheme != "http" && seed.Scheme != "https") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "Invalid crawl URL", err)
	}
	// The seed obeys the same blocklists as discovered links; a dashboard typo
	// must not index an admin or credentialed page.
	if !Crawlable(seed) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "Crawl URL is not indexable", nil)
	}
	if !t.AllowsHost(seed.Host) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "Forbidden: domain not in allowlist", nil)
	}
	if c.opts.RequireHeartbeat && !t.HeartbeatWithin(seed.Host, c.opts.HeartbeatWindow, c.now()) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "Forbidden: widget not verified on domain", nil)
	}

	budget := c.opts.SiteBudget
	if mode == ModePage {
		budget = Budget{MaxPages: 1, MaxDepth: 0, TimeBudget: c.opts.SiteBudget.TimeBudget}
	}

	run := &Run{
		PublicID:  "crawl_" + uuid.NewString(),
		TenantID:  t.ID,
		SeedURL:   seed.String(),
		Locale:    locale,
		Mode:      mode,
		Status:    RunStatusRunning,
		StartedAt: c.now(),
	}
	if err := c.runs.Create(ctx, run); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create crawl run")
	}

	result := c.walk(ctx, t, seed, locale, budget)
	result.RunID = run.PublicID
	result.Mode = mode
	result.Limits = Limits{
		MaxPages:   budget.MaxPages,
		MaxDepth:   budget.MaxDepth,
		TimeBudget: int(budget.TimeBudget.Seconds()),
	}

	run.Status = RunStatusCompleted
	run.PagesScanned = result.PagesScanned
	run.DocumentsUpserted = result.DocumentsUpserted
	run.ChunksUpserted = result.ChunksUpserted
	run.Errors = result.Errors
	finished := c.now()
	run.FinishedAt = &finished
	if err := c.runs.Update(ctx, run); err != nil {
		c.log.Error().Err(err).Str("run_id", run.PublicID).Msg("persist crawl run")
	}

	metrics.CrawlDuration.Observe(finished.Sub(run.StartedAt).Seconds())
	c.log.Info().
		Str("run_id", run.PublicID).
		Uint("tenant_id", t.ID).
		Int("pages", result.PagesScanned).
		Int("documents", result.DocumentsUpserted).
		Int("chunks", result.ChunksUpserted).
		Int("errors", len(result.Errors)).
		Msg("crawl finished")

	return result, nil
}

type queueItem struct {
	url   *url.URL
	depth int
}

func (c *Crawler) walk(ctx context.Context, t *tenant.Tenant, seed *url.URL, locale string, budget Budget) *Result {
	result := &Result{Errors: []string{}}
	deadline := c.now().Add(budget.TimeBudget)

	visited := map[string]bool{NormalizeURL(seed): true}
	queue := []queueItem{{url: seed, depth: 0}}

	for len(queue) > 0 {
		if result.PagesScanned >= budget.MaxPages || c.now().After(deadline) || ctx.Err() != nil {
			break
		}
		item := queue[0]
		queue = queue[1:]

		page, err := c.fetcher.Fetch(ctx, item.url.String())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fetch %s: %v", item.url, err))
			metrics.CrawlPagesTotal.WithLabelValues("fetch_error").Inc()
			continue
		}
		result.PagesScanned++

		docs, chunks, err := c.ingest(ctx, t, item.url, page, locale)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("ingest %s: %v", item.url, err))
			metrics.CrawlPagesTotal.WithLabelValues("ingest_error").Inc()
		} else {
			result.DocumentsUpserted += docs
			result.ChunksUpserted += chunks
			metrics.CrawlPagesTotal.WithLabelValues("ok").Inc()
		}

		if item.depth >= budget.MaxDepth {
			continue
		}
		for _, href := range page.Links {
			next, ok := ResolveLink(item.url, href)
			if !ok || !SameDomain(seed, next) || !Crawlable(next) {
				continue
			}
			key := NormalizeURL(next)
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, queueItem{url: next, depth: item.depth + 1})
		}
	}

	return result
}

// ingest upserts the page's document and replaces its chunks. Returns the
// number of documents (0 or 1) and chunks written.
func (c *Crawler) ingest(ctx context.Context, t *tenant.Tenant, pageURL *url.URL, page *Page, locale string) (int, int, error) {
	checksum := Checksum(page.Title, page.Text)
	key := knowledge.DocumentKey{
		TenantID:   t.ID,
		SourceType: knowledge.SourceWebsite,
		SourceURL:  NormalizeURL(pageURL),
		Locale:     locale,
	}

	doc, err := c.documents.FindByKey(ctx, key)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup document: %w", err)
	}

	if doc != nil && c.opts.SkipUnchanged && doc.Checksum == checksum && doc.Status == knowledge.DocumentReady {
		return 0, 0, nil
	}

	if doc == nil {
		doc = &knowledge.Document{
			TenantID:   key.TenantID,
			SourceType: key.SourceType,
			SourceURL:  key.SourceURL,
			Locale:     key.Locale,
		}
	}
	doc.Title = page.Title
	doc.Checksum = checksum
	doc.Status = knowledge.DocumentReady

	texts := knowledge.ChunkText(page.Text)
	if len(texts) == 0 {
		// Pages with no usable text still get their document recorded so the
		// checksum prevents repeated work.
		if err := c.upsertDocument(ctx, doc); err != nil {
			return 0, 0, err
		}
		return 1, 0, nil
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		doc.Status = knowledge.DocumentFailed
		if uerr := c.upsertDocument(ctx, doc); uerr != nil {
			c.log.Warn().Err(uerr).Str("url", doc.SourceURL).Msg("mark document failed")
		}
		return 0, 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, 0, fmt.Errorf("embed: got %d vectors for %d chunks", len(vectors), len(texts))
	}

	if err := c.upsertDocument(ctx, doc); err != nil {
		return 0, 0, err
	}

	chunks := make([]*knowledge.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, &knowledge.Chunk{
			DocumentID:  doc.ID,
			TenantID:    t.ID,
			Index:       i,
			Locale:      locale,
			Text:        text,
			Embedding:   vectors[i],
			TokenCount:  knowledge.EstimateTokens(text),
			SourceURL:   doc.SourceURL,
			SourceLabel: page.Title,
		})
	}
	if err := c.chunks.ReplaceForDocument(ctx, doc.ID, chunks); err != nil {
		return 0, 0, fmt.Errorf("replace chunks: %w", err)
	}

	return 1, len(chunks), nil
}

func (c *Crawler) upsertDocument(ctx context.Context, doc *knowledge.Document) error {
	if doc.ID == 0 {
		if err := c.documents.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return nil
	}
	if err := c.documents.Update(ctx, doc); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// Checksum fingerprints a page's extracted content.
func Checksum(title, text string) string {
	sum := sha256.Sum256([]byte(title + "\n" + text))
	return hex.EncodeToString(sum[:])
}
