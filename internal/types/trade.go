package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type PositionStatus string

const (
	PositionStatusOpen   PositionStatus = "OPEN"
	PositionStatusClosed PositionStatus = "CLOSED"
)

type TradeResult string

const (
	TradeResultWin     TradeResult = "WIN"
	TradeResultLoss    TradeResult = "LOSS"
	TradeResultTimeout TradeResult = "TIMEOUT"
)

// TradePlan is an actionable pick derived from a BreakoutSignal: a fixed
// percentage bracket around the breakout close.
type TradePlan struct {
	Date     time.Time
	Ticker   string
	Strategy string
	// Entry is the breakout close price.
	Entry  float64
	Stop   float64
	Target float64
	// RiskAmount is computed from the configured nominal balance, not the
	// live wallet. The resolver sizes shares from the live balance instead;
	// the two deliberately disagree.
	RiskAmount float64
	Confidence Confidence
	Reasoning  string
}

// Position is a simulated fill for one TradePlan. Exactly one Position exists
// per plan. Open positions are advanced by the resolver on each run; once
// Status is CLOSED and WalletAfter is set the row never changes again.
type Position struct {
	ID         string
	DateOpened time.Time
	Ticker     string
	Strategy   string
	EntryPrice float64
	// ExecutedPrice is the simulated fill: entry perturbed by bounded slippage.
	ExecutedPrice float64
	Stop          float64
	Target        float64
	Confidence    Confidence
	Status        PositionStatus
	Result        optional.Option[TradeResult]
	DaysHeld      int
	WalletBefore  float64
	// WalletAfter is the running balance snapshot after this row was
	// processed. The next row in stored order carries it forward, which makes
	// the wallet a fold over row order rather than a global.
	WalletAfter optional.Option[float64]
}

func (p *Position) IsClosed() bool {
	return p.Status == PositionStatusClosed
}
