package goal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BackfillDefault is one keyword rule for synthesizing a ledger record
// from a bare goal name during backfill.
type BackfillDefault struct {
	Keyword       string
	TargetAmount  decimal.Decimal
	HorizonMonths int
}

// DefaultBackfillRules maps the goal names offered on the profile
// screen to plausible targets and horizons. First match wins; matching
// is a case-insensitive substring test.
var DefaultBackfillRules = []BackfillDefault{
	{Keyword: "emergency fund", TargetAmount: decimal.NewFromInt(10000), HorizonMonths: 12},
	{Keyword: "credit card", TargetAmount: decimal.NewFromInt(5000), HorizonMonths: 12},
	{Keyword: "vacation", TargetAmount: decimal.NewFromInt(3000), HorizonMonths: 12},
	{Keyword: "wedding", TargetAmount: decimal.NewFromInt(20000), HorizonMonths: 36},
	{Keyword: "down payment", TargetAmount: decimal.NewFromInt(60000), HorizonMonths: 60},
	{Keyword: "house", TargetAmount: decimal.NewFromInt(60000), HorizonMonths: 60},
	{Keyword: "student loan", TargetAmount: decimal.NewFromInt(25000), HorizonMonths: 48},
	{Keyword: "business", TargetAmount: decimal.NewFromInt(25000), HorizonMonths: 48},
	{Keyword: "college", TargetAmount: decimal.NewFromInt(80000), HorizonMonths: 120},
	{Keyword: "retirement", TargetAmount: decimal.NewFromInt(500000), HorizonMonths: 300},
}

// GenericBackfillDefault applies when no keyword rule matches.
var GenericBackfillDefault = BackfillDefault{
	TargetAmount:  decimal.NewFromInt(5000),
	HorizonMonths: 24,
}

func defaultsFor(name string, rules []BackfillDefault) BackfillDefault {
	lower := strings.ToLower(name)
	for _, rule := range rules {
		if rule.Keyword != "" && strings.Contains(lower, rule.Keyword) {
			return rule
		}
	}
	return GenericBackfillDefault
}
