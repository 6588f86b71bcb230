package core

// Budget consumption tiers, classified against the fixed thresholds below.
const (
	TierUnder Tier = "under"
	TierNear  Tier = "near"
	TierOver  Tier = "over"

	// NearThresholdPercent and OverThresholdPercent drive alerting severity.
	NearThresholdPercent = 80.0
	OverThresholdPercent = 100.0
)

type (
	Tier string

	// Progress describes how far a category's cumulative spend has consumed
	// its budget limit.
	Progress struct {
		Limit     Money
		Spent     Money
		Remaining Money
		// Percentage is clamped to [0,100] for display.
		Percentage float64
		// Ratio is the unclamped percentage, so callers can rank categories
		// that are over their limit.
		Ratio float64
		Tier  Tier
	}
)

// EvaluateProgress computes the consumption of limit by spent.
//
// A non-positive limit is a caller contract violation: budget creation must
// reject it before this is ever reached, so no guard exists here and the
// resulting ratio would be non-finite or meaningless.
func EvaluateProgress(limit, spent Money) Progress {
	ratio := float64(spent.Cents) / float64(limit.Cents) * 100

	percentage := ratio
	if percentage > OverThresholdPercent {
		percentage = OverThresholdPercent
	}

	remaining := limit.Sub(spent)
	if remaining.Cents < 0 {
		remaining = Money{}
	}

	tier := TierUnder
	switch {
	case ratio >= OverThresholdPercent:
		tier = TierOver
	case ratio >= NearThresholdPercent:
		tier = TierNear
	}

	return Progress{
		Limit:      limit,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: percentage,
		Ratio:      ratio,
		Tier:       tier,
	}
}
