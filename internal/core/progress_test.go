package core

import "testing"

func TestEvaluateProgress(t *testing.T) {
	cases := []struct {
		name           string
		limit, spent   int64
		wantPercentage float64
		wantRemaining  int64
		wantTier       Tier
	}{
		{"nothing spent", 50000, 0, 0, 50000, TierUnder},
		{"halfway", 50000, 25000, 50, 25000, TierUnder},
		{"at near threshold", 50000, 40000, 80, 10000, TierNear},
		{"just under limit", 50000, 49999, 99.998, 1, TierNear},
		{"at limit", 50000, 50000, 100, 0, TierOver},
		{"over limit clamps", 50000, 60000, 100, 0, TierOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := EvaluateProgress(Money{Cents: tc.limit}, Money{Cents: tc.spent})
			if p.Percentage != tc.wantPercentage {
				t.Fatalf("percentage expected %v, got %v", tc.wantPercentage, p.Percentage)
			}
			if p.Remaining.Cents != tc.wantRemaining {
				t.Fatalf("remaining expected %d, got %d", tc.wantRemaining, p.Remaining.Cents)
			}
			if p.Tier != tc.wantTier {
				t.Fatalf("tier expected %s, got %s", tc.wantTier, p.Tier)
			}
		})
	}
}

func TestEvaluateProgressKeepsRawRatio(t *testing.T) {
	p := EvaluateProgress(Money{Cents: 50000}, Money{Cents: 60000})
	if p.Percentage != 100 {
		t.Fatalf("displayed percentage must clamp at 100, got %v", p.Percentage)
	}
	if p.Ratio != 120 {
		t.Fatalf("raw ratio expected 120, got %v", p.Ratio)
	}
}
