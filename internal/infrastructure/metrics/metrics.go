package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assistant-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Completed widget turns per channel
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "turns_total",
			Help:      "Total completed assistant turns",
		},
		[]string{"channel"},
	)

	// Provider failures by class
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "provider_errors_total",
			Help:      "Total model provider failures",
		},
		[]string{"class"},
	)

	// Leads persisted
	LeadsCapturedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "leads_captured_total",
			Help:      "Total leads captured",
		},
	)

	// Rate-limit rejections
	RateLimitHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		},
	)

	// Quota rejections
	QuotaHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "quota_hits_total",
			Help:      "Total requests rejected by the usage accountant",
		},
	)

	// Crawled pages by outcome
	CrawlPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "crawl_pages_total",
			Help:      "Total pages processed by the crawler",
		},
		[]string{"outcome"},
	)

	// Crawl run duration
	CrawlDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "crawl_duration_seconds",
			Help:      "Crawl run duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60},
		},
	)

	// Queue depth gauge
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "queue_depth",
			Help:      "Background job queue depth",
		},
	)

	// Background jobs counter
	BackgroundJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "background_jobs_total",
			Help:      "Total background jobs processed",
		},
		[]string{"job_type", "status"},
	)

	// DB query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sitebot",
			Subsystem: "assistant_api",
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"query_type"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// SetQueueDepth sets the current queue depth
func SetQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

// RecordBackgroundJob records a background job execution
func RecordBackgroundJob(jobType, status string) {
	BackgroundJobsTotal.WithLabelValues(jobType, status).Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(queryType string, durationSec float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(durationSec)
}
