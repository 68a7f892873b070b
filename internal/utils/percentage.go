package utils

import "github.com/shopspring/decimal"

// CollectionPercentage computes round2(paid / target * 100). Reports zero
// when the target is zero rather than dividing by it.
func CollectionPercentage(totalPaid, totalTarget int64) decimal.Decimal {
	if totalTarget == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(totalPaid).
		Div(decimal.NewFromInt(totalTarget)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
