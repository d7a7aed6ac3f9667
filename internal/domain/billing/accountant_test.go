package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/billing"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

type stubCounter struct {
	used   int64
	called bool
	from   time.Time
	to     time.Time
}

func (s *stubCounter) CountUserMessages(_ context.Context, _ uint, from, to time.Time) (int64, error) {
	s.called = true
	s.from = from
	s.to = to
	return s.used, nil
}

func timePtr(t time.Time) *time.Time { return &t }

func TestAccountant_Authorize_QuotaStates(t *testing.T) {
	periodEnd := time.Now().Add(10 * 24 * time.Hour)

	tests := []struct {
		name    string
		plan    string
		used    int64
		wantErr bool
	}{
		{name: "under the free quota", plan: "free", used: 49},
		{name: "at the free quota", plan: "free", used: 50, wantErr: true},
		{name: "over the free quota", plan: "free", used: 80, wantErr: true},
		{name: "under the starter quota", plan: "starter", used: 499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &stubCounter{used: tt.used}
			accountant := billing.NewAccountant(counter)
			tn := &tenant.Tenant{
				ID:            1,
				Plan:          tt.plan,
				BillingStatus: tenant.BillingActive,
				PeriodEndsAt:  timePtr(periodEnd),
			}

			window, err := accountant.Authorize(context.Background(), tn)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePaymentRequired))
				return
			}
			require.NoError(t, err)
			assert.True(t, counter.called)
			assert.Equal(t, periodEnd, window.PeriodEnd)
			assert.Equal(t, periodEnd.AddDate(0, -1, 0), window.PeriodStart)
		})
	}
}

func TestAccountant_Authorize_QuotaErrorContext(t *testing.T) {
	counter := &stubCounter{used: 60}
	accountant := billing.NewAccountant(counter)
	periodEnd := time.Now().Add(5 * 24 * time.Hour)
	tn := &tenant.Tenant{
		ID:            1,
		Plan:          "free",
		BillingStatus: tenant.BillingActive,
		PeriodEndsAt:  timePtr(periodEnd),
	}

	_, err := accountant.Authorize(context.Background(), tn)
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, 50, platformErr.Context["limit"])
	assert.Equal(t, int64(60), platformErr.Context["used"])
	assert.Equal(t, periodEnd.UTC().Format(time.RFC3339), platformErr.Context["period_end"])
}

func TestAccountant_Authorize_UnlimitedPlanSkipsCounting(t *testing.T) {
	counter := &stubCounter{used: 1_000_000}
	accountant := billing.NewAccountant(counter)
	tn := &tenant.Tenant{
		ID:            1,
		Plan:          "scale",
		BillingStatus: tenant.BillingActive,
		PeriodEndsAt:  timePtr(time.Now().Add(24 * time.Hour)),
	}

	window, err := accountant.Authorize(context.Background(), tn)
	require.NoError(t, err)
	assert.Nil(t, window.Limit)
	assert.False(t, counter.called)
}

func TestAccountant_Authorize_TrialStates(t *testing.T) {
	tests := []struct {
		name     string
		trialEnd *time.Time
		wantErr  bool
	}{
		{name: "active trial", trialEnd: timePtr(time.Now().Add(3 * 24 * time.Hour))},
		{name: "expired trial", trialEnd: timePtr(time.Now().Add(-time.Hour)), wantErr: true},
		{name: "trial without end date", trialEnd: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountant := billing.NewAccountant(&stubCounter{})
			tn := &tenant.Tenant{
				ID:            1,
				Plan:          "free",
				BillingStatus: tenant.BillingTrialing,
				TrialEndsAt:   tt.trialEnd,
			}

			_, err := accountant.Authorize(context.Background(), tn)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePaymentRequired))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAccountant_Authorize_InactiveSubscription(t *testing.T) {
	for _, status := range []tenant.BillingStatus{
		tenant.BillingIncomplete, tenant.BillingCanceled, tenant.BillingPastDue,
	} {
		t.Run(string(status), func(t *testing.T) {
			accountant := billing.NewAccountant(&stubCounter{})
			_, err := accountant.Authorize(context.Background(), &tenant.Tenant{BillingStatus: status})
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePaymentRequired))
		})
	}
}

func TestAccountant_ResolveWindow_CalendarFallback(t *testing.T) {
	accountant := billing.NewAccountant(&stubCounter{})
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	tn := &tenant.Tenant{Plan: "free", BillingStatus: tenant.BillingActive}

	// No provider anchor stored: the window falls back to the calendar month.
	window, err := accountant.ResolveWindow(context.Background(), tn, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), window.PeriodStart)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), window.PeriodEnd)
}

func TestPlanByName(t *testing.T) {
	assert.Equal(t, "growth", billing.PlanByName("growth").Name)
	assert.Nil(t, billing.PlanByName("scale").MessageLimit)

	// Unknown names degrade to the tightest quota.
	fallback := billing.PlanByName("enterprise")
	assert.Equal(t, "free", fallback.Name)
	require.NotNil(t, fallback.MessageLimit)
	assert.Equal(t, 50, *fallback.MessageLimit)
}
