package billing

import "github.com/shopspring/decimal"

// Plan describes a billable tier. A nil MessageLimit means unlimited.
type Plan struct {
	Name            string
	MessageLimit    *int
	MonthlyPriceUSD decimal.Decimal
}

func limit(n int) *int { return &n }

var plans = map[string]Plan{
	"free":    {Name: "free", MessageLimit: limit(50), MonthlyPriceUSD: decimal.Zero},
	"starter": {Name: "starter", MessageLimit: limit(500), MonthlyPriceUSD: decimal.NewFromInt(29)},
	"growth":  {Name: "growth", MessageLimit: limit(2000), MonthlyPriceUSD: decimal.NewFromInt(79)},
	"scale":   {Name: "scale", MessageLimit: nil, MonthlyPriceUSD: decimal.NewFromInt(199)},
}

// PlanByName resolves a plan, defaulting unknown names to the free tier so a
// misconfigured tenant degrades to the tightest quota instead of an error.
func PlanByName(name string) Plan {
	if p, ok := plans[name]; ok {
		return p
	}
	return plans["free"]
}
