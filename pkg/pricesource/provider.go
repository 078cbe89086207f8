// Package pricesource fetches end-of-day price bars from external market
// data providers. Providers share one capability interface so the pipeline
// can chain a primary source with fallbacks.
package pricesource

import (
	"context"

	"github.com/rxtech-lab/swing-trader/internal/types"
)

// Provider is a single market data source.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// FetchDaily returns up to bars daily bars for the ticker in ascending
	// date order, ending at the most recent completed trading day.
	FetchDaily(ctx context.Context, ticker string, bars int) ([]types.PriceBar, error)
	// Quote returns the most recent daily closing price for the ticker.
	Quote(ctx context.Context, ticker string) (float64, error)
}
