package ratelimit

import (
	"context"
	"fmt"
	"time"

	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// Event is one accepted request, appended before counting so the current
// request counts against itself.
type Event struct {
	ID        uint
	TenantID  uint
	IP        string
	Bucket    string
	CreatedAt time.Time
}

// Repository persists rate events. Events expire logically by the time-window
// query; nothing is deleted.
type Repository interface {
	Record(ctx context.Context, event *Event) error
	CountSince(ctx context.Context, tenantID uint, bucket, ip string, since time.Time) (int64, error)
}

// Limiter is a sliding-window counter over the shared store. Concurrent
// requests may both pass before either write lands; the store stays the
// arbiter, so the limiter is best-effort rather than exact.
type Limiter struct {
	repo   Repository
	window time.Duration
	max    int
	now    func() time.Time
}

// NewLimiter constructs a limiter with the given trailing window and cap.
func NewLimiter(repo Repository, window time.Duration, max int) *Limiter {
	return &Limiter{repo: repo, window: window, max: max, now: time.Now}
}

// Allow records the request and fails with RATE_LIMITED once the count for
// tenant+bucket+IP inside the trailing window exceeds the cap.
func (l *Limiter) Allow(ctx context.Context, tenantID uint, ip string) error {
	bucket := ChatBucket(tenantID)
	now := l.now()

	if err := l.repo.Record(ctx, &Event{
		TenantID:  tenantID,
		IP:        ip,
		Bucket:    bucket,
		CreatedAt: now,
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record rate event")
	}

	count, err := l.repo.CountSince(ctx, tenantID, bucket, ip, now.Add(-l.window))
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count rate events")
	}

	if count > int64(l.max) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeRateLimited, "Too many requests, retry later", nil)
	}
	return nil
}

// ChatBucket labels the chat rate bucket for a tenant.
func ChatBucket(tenantID uint) string {
	return fmt.Sprintf("chat:%d", tenantID)
}
