package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/ratelimit"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// memoryEvents records events and answers window counts, so Allow is tested
// against the same write-then-count sequence the postgres store serves.
type memoryEvents struct {
	events []*ratelimit.Event
}

func (m *memoryEvents) Record(_ context.Context, event *ratelimit.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *memoryEvents) CountSince(_ context.Context, tenantID uint, bucket, ip string, since time.Time) (int64, error) {
	var count int64
	for _, e := range m.events {
		if e.TenantID == tenantID && e.Bucket == bucket && e.IP == ip && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func TestLimiter_Allow(t *testing.T) {
	repo := &memoryEvents{}
	limiter := ratelimit.NewLimiter(repo, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, 1, "10.0.0.1"))
	}

	err := limiter.Allow(ctx, 1, "10.0.0.1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRateLimited))

	// The rejected request was still recorded: the current request counts
	// against itself.
	assert.Len(t, repo.events, 4)
}

func TestLimiter_Allow_IsolatesTenantAndIP(t *testing.T) {
	repo := &memoryEvents{}
	limiter := ratelimit.NewLimiter(repo, time.Minute, 1)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, 1, "10.0.0.1"))
	require.Error(t, limiter.Allow(ctx, 1, "10.0.0.1"))

	// A different IP and a different tenant each get their own window.
	require.NoError(t, limiter.Allow(ctx, 1, "10.0.0.2"))
	require.NoError(t, limiter.Allow(ctx, 2, "10.0.0.1"))
}

func TestChatBucket(t *testing.T) {
	assert.Equal(t, "chat:42", ratelimit.ChatBucket(42))
}
