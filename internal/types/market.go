package types

import "time"

// DateLayout is the canonical layout for trading dates. Bars are daily, so
// anything finer than a calendar day is truncated away.
const DateLayout = "2006-01-02"

// PriceBar is one end-of-day OHLCV row for a ticker. Bars are immutable once
// stored and uniquely keyed by (Ticker, Date).
type PriceBar struct {
	Date   time.Time
	Ticker string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// StrategyBreakout is the only pattern the detector currently emits.
const StrategyBreakout = "Breakout"

// BreakoutSignal is a detected pattern occurrence. Signals are derived fresh
// from the price table on every detection run, never treated as input state.
type BreakoutSignal struct {
	Date       time.Time
	Ticker     string
	Strategy   string
	Confidence Confidence
	Close      float64
	Volume     float64
}
