// Package utils holds small shared helpers with no domain state.
package utils

import "github.com/shopspring/decimal"

// Round2 rounds a price or balance to cents using decimal arithmetic, so
// repeated wallet folds do not accumulate float drift.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
