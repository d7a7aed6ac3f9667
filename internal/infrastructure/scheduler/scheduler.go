package scheduler

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/config"
	"sitebot-server/services/assistant-api/internal/domain/crawl"
	"sitebot-server/services/assistant-api/internal/domain/knowledge"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
)

// refreshBatch caps how many stale documents one sweep re-crawls.
const refreshBatch = 10

// Scheduler periodically re-crawls stale website documents so tenant
// knowledge does not rot between manual crawls.
type Scheduler struct {
	cfg       *config.Config
	crawler   *crawl.Crawler
	documents knowledge.DocumentRepository
	tenants   tenant.Repository
	tab       *crontab.Crontab
	log       zerolog.Logger
}

// New constructs the scheduler.
func New(
	cfg *config.Config,
	crawler *crawl.Crawler,
	documents knowledge.DocumentRepository,
	tenants tenant.Repository,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		crawler:   crawler,
		documents: documents,
		tenants:   tenants,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the refresh job. No-op when refresh is disabled.
func (s *Scheduler) Start() error {
	if !s.cfg.CrawlRefreshEnabled {
		s.log.Info().Msg("crawl refresh disabled")
		return nil
	}

	s.tab = crontab.New()
	if err := s.tab.AddJob("0 * * * *", s.refreshStale); err != nil {
		return err
	}
	s.log.Info().Dur("max_age", s.cfg.CrawlRefreshMaxAge).Msg("crawl refresh scheduled hourly")
	return nil
}

// Stop clears the registered jobs.
func (s *Scheduler) Stop() {
	if s.tab != nil {
		s.tab.Clear()
	}
}

func (s *Scheduler) refreshStale() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.cfg.CrawlRefreshMaxAge)
	stale, err := s.documents.ListStale(ctx, cutoff, refreshBatch)
	if err != nil {
		s.log.Error().Err(err).Msg("list stale documents")
		return
	}
	if len(stale) == 0 {
		return
	}

	s.log.Info().Int("count", len(stale)).Msg("refreshing stale documents")
	for _, doc := range stale {
		owner, err := s.tenants.FindByID(ctx, doc.TenantID)
		if err != nil {
			s.log.Warn().Err(err).Uint("tenant_id", doc.TenantID).Msg("load tenant for refresh")
			continue
		}

		// Single-page mode: refresh exactly the stale URL.
		result, err := s.crawler.Run(ctx, owner, doc.SourceURL, doc.Locale, crawl.ModePage)
		if err != nil {
			s.log.Warn().Err(err).Str("url", doc.SourceURL).Msg("refresh crawl failed")
			continue
		}
		if len(result.Errors) > 0 {
			s.log.Warn().Strs("errors", result.Errors).Str("url", doc.SourceURL).Msg("refresh crawl reported errors")
		}
	}
}
