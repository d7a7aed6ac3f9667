package billing

import (
	"context"
	"time"

	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// UsageWindow is the billing-cycle-aligned interval a tenant's message quota
// is counted against. A nil Limit means unlimited.
type UsageWindow struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Limit       *int
}

// MessageCounter counts user-authored messages for a tenant inside a window.
type MessageCounter interface {
	CountUserMessages(ctx context.Context, tenantID uint, from, to time.Time) (int64, error)
}

// Accountant resolves plan and trial state into an allowed usage window and
// rejects requests once the quota is exhausted. The trial check compares
// wall clocks instead of a stored flag, so an expired trial self-heals
// without a background job.
type Accountant struct {
	counter MessageCounter
	now     func() time.Time
}

// NewAccountant constructs the usage accountant.
func NewAccountant(counter MessageCounter) *Accountant {
	return &Accountant{counter: counter, now: time.Now}
}

// Authorize validates billing state and quota. It runs before any model call
// so exhausted tenants never incur provider cost.
func (a *Accountant) Authorize(ctx context.Context, t *tenant.Tenant) (*UsageWindow, error) {
	now := a.now()

	window, err := a.ResolveWindow(ctx, t, now)
	if err != nil {
		return nil, err
	}

	if window.Limit == nil {
		return window, nil
	}

	used, err := a.counter.CountUserMessages(ctx, t.ID, window.PeriodStart, window.PeriodEnd)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count usage")
	}

	if used >= int64(*window.Limit) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypePaymentRequired, "Usage limit reached", nil,
			map[string]any{
				"limit":      *window.Limit,
				"used":       used,
				"period_end": window.PeriodEnd.UTC().Format(time.RFC3339),
			})
	}
	return window, nil
}

// ResolveWindow turns billing status, plan and period anchors into a usage
// window. Only trialing and active subscriptions pass.
func (a *Accountant) ResolveWindow(ctx context.Context, t *tenant.Tenant, now time.Time) (*UsageWindow, error) {
	switch t.BillingStatus {
	case tenant.BillingTrialing:
		if t.TrialEndsAt == nil || now.After(*t.TrialEndsAt) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypePaymentRequired, "Trial expired", nil)
		}
		end := *t.TrialEndsAt
		return &UsageWindow{
			PeriodStart: end.AddDate(0, -1, 0),
			PeriodEnd:   end,
			Limit:       PlanByName(t.Plan).MessageLimit,
		}, nil

	case tenant.BillingActive:
		start, end := periodBounds(t.PeriodEndsAt, now)
		return &UsageWindow{
			PeriodStart: start,
			PeriodEnd:   end,
			Limit:       PlanByName(t.Plan).MessageLimit,
		}, nil

	default:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypePaymentRequired, "Subscription inactive", nil)
	}
}

// periodBounds anchors the window on the provider-reported period end, or on
// the calendar month when no anchor is stored.
func periodBounds(periodEnd *time.Time, now time.Time) (time.Time, time.Time) {
	if periodEnd != nil && periodEnd.After(now) {
		return periodEnd.AddDate(0, -1, 0), *periodEnd
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
