// Package store persists the pipeline's tabular working sets. Each entity
// lives in its own table; a run loads a whole table, transforms it in memory,
// and writes it back in one transaction. Stored row order is part of the
// contract: the wallet fold over positions depends on it.
package store

import "github.com/rxtech-lab/swing-trader/internal/types"

// Store is the tabular persistence boundary. LoadX returns rows in stored
// order; OverwriteX replaces the table atomically. AppendPositions extends
// the positions table without touching existing rows.
type Store interface {
	LoadPrices() ([]types.PriceBar, error)
	OverwritePrices(bars []types.PriceBar) error

	LoadSignals() ([]types.BreakoutSignal, error)
	OverwriteSignals(signals []types.BreakoutSignal) error

	LoadPicks() ([]types.TradePlan, error)
	OverwritePicks(plans []types.TradePlan) error

	LoadPositions() ([]types.Position, error)
	OverwritePositions(positions []types.Position) error
	AppendPositions(positions []types.Position) error

	Close() error
}
