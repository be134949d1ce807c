package goal

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultsFor(t *testing.T) {
	cases := []struct {
		name       string
		wantTarget int64
	}{
		{"Build emergency fund", 10000},
		{"BUILD EMERGENCY FUND", 10000},
		{"Pay off credit card debt", 5000},
		{"Retirement planning", 500000},
		{"Save for down payment", 60000},
		{"Something unheard of", 5000},
	}

	for _, tc := range cases {
		def := defaultsFor(tc.name, DefaultBackfillRules)
		if !def.TargetAmount.Equal(decimal.NewFromInt(tc.wantTarget)) {
			t.Errorf("defaultsFor(%q) target = %s, want %d", tc.name, def.TargetAmount, tc.wantTarget)
		}
	}
}

func TestDefaultsForFallbackHorizon(t *testing.T) {
	def := defaultsFor("Unmatched goal", DefaultBackfillRules)
	if def.HorizonMonths != GenericBackfillDefault.HorizonMonths {
		t.Errorf("fallback horizon = %d, want %d", def.HorizonMonths, GenericBackfillDefault.HorizonMonths)
	}

	emergency := defaultsFor("Build emergency fund", DefaultBackfillRules)
	if emergency.HorizonMonths != 12 {
		t.Errorf("emergency fund horizon = %d, want 12", emergency.HorizonMonths)
	}
}

func TestDefaultsForCustomRules(t *testing.T) {
	rules := []BackfillDefault{
		{Keyword: "boat", TargetAmount: decimal.NewFromInt(42), HorizonMonths: 6},
	}

	if def := defaultsFor("Buy a boat", rules); !def.TargetAmount.Equal(decimal.NewFromInt(42)) {
		t.Errorf("custom rule not applied, got target %s", def.TargetAmount)
	}
	if def := defaultsFor("Buy a house", rules); !def.TargetAmount.Equal(GenericBackfillDefault.TargetAmount) {
		t.Errorf("unmatched name should fall back, got target %s", def.TargetAmount)
	}
}
