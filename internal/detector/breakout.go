// Package detector scans stored price history for breakout patterns: a close
// above the recent high on abnormally high volume.
package detector

import (
	"sort"

	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

// VolumeSpikeFactor is the multiple of average volume the latest bar must
// reach for a breakout to count.
const VolumeSpikeFactor = 2.0

// Detector flags breakout bars over a rolling lookback window.
type Detector struct {
	window int
	logger *logger.Logger
}

// New creates a Detector with the given lookback window.
func New(logger *logger.Logger, window int) *Detector {
	return &Detector{
		window: window,
		logger: logger,
	}
}

// Scan walks every ticker present in bars and returns one signal per ticker
// whose latest bar breaks out. Tickers with fewer than window+1 bars are
// skipped silently; an empty result is a normal outcome.
func (d *Detector) Scan(bars []types.PriceBar) []types.BreakoutSignal {
	byTicker := make(map[string][]types.PriceBar)
	for _, bar := range bars {
		byTicker[bar.Ticker] = append(byTicker[bar.Ticker], bar)
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}

	// Deterministic output order regardless of map iteration.
	sort.Strings(tickers)

	var signals []types.BreakoutSignal

	for _, ticker := range tickers {
		history := byTicker[ticker]
		sort.Slice(history, func(i, j int) bool {
			return history[i].Date.Before(history[j].Date)
		})

		if len(history) < d.window+1 {
			d.logger.Debug("Skipping ticker",
				zap.Error(errors.NewInsufficientHistoryError(d.window+1, len(history), ticker)),
			)

			continue
		}

		signal, ok := d.detect(history)
		if !ok {
			continue
		}

		d.logger.Info("Breakout detected",
			zap.String("ticker", ticker),
			zap.Float64("close", signal.Close),
			zap.Float64("volume", signal.Volume),
		)

		signals = append(signals, signal)
	}

	return signals
}

// detect evaluates one ticker's history, sorted by date ascending. The latest
// bar is compared against the window of bars immediately preceding it.
func (d *Detector) detect(history []types.PriceBar) (types.BreakoutSignal, bool) {
	if len(history) < d.window+1 {
		return types.BreakoutSignal{}, false
	}

	recent := history[len(history)-(d.window+1) : len(history)-1]
	latest := history[len(history)-1]

	highestClose := recent[0].Close
	totalVolume := 0.0

	for _, bar := range recent {
		if bar.Close > highestClose {
			highestClose = bar.Close
		}

		totalVolume += bar.Volume
	}

	avgVolume := totalVolume / float64(len(recent))

	breakout := latest.Close > highestClose && latest.Volume >= VolumeSpikeFactor*avgVolume
	if !breakout {
		return types.BreakoutSignal{}, false
	}

	return types.BreakoutSignal{
		Date:       latest.Date,
		Ticker:     latest.Ticker,
		Strategy:   types.StrategyBreakout,
		Confidence: types.ConfidenceHigh,
		Close:      latest.Close,
		Volume:     latest.Volume,
	}, true
}
