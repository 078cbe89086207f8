package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TradeStats summarizes the simulated book at a point in time.
type TradeStats struct {
	// Timestamp is when this report was generated.
	Timestamp time.Time `yaml:"timestamp"`
	// StartingBalance is the configured wallet the fold begins from.
	StartingBalance float64 `yaml:"starting_balance"`
	// FinalBalance is the wallet after the last stored position.
	FinalBalance float64 `yaml:"final_balance"`
	// NumberOfTrades counts every stored position, open or closed.
	NumberOfTrades int `yaml:"number_of_trades"`
	OpenTrades     int `yaml:"open_trades"`
	Wins           int `yaml:"wins"`
	Losses         int `yaml:"losses"`
	Timeouts       int `yaml:"timeouts"`
	// WinRate is wins over decided trades (wins + losses); timeouts are flat
	// closes and do not count as decided.
	WinRate float64 `yaml:"win_rate"`
	// TotalPnL is FinalBalance - StartingBalance.
	TotalPnL float64 `yaml:"total_pnl"`
}

// CollectTradeStats folds the stored positions into a summary. The final
// balance is the last populated WalletAfter in stored order, or the starting
// balance when nothing has been resolved yet.
func CollectTradeStats(positions []Position, startingBalance float64, now time.Time) TradeStats {
	stats := TradeStats{
		Timestamp:       now,
		StartingBalance: startingBalance,
		FinalBalance:    startingBalance,
		NumberOfTrades:  len(positions),
	}

	for _, p := range positions {
		if p.WalletAfter.IsSome() {
			stats.FinalBalance = p.WalletAfter.Unwrap()
		}

		if !p.IsClosed() {
			stats.OpenTrades++
			continue
		}

		switch p.Result.TakeOr("") {
		case TradeResultWin:
			stats.Wins++
		case TradeResultLoss:
			stats.Losses++
		case TradeResultTimeout:
			stats.Timeouts++
		}
	}

	if decided := stats.Wins + stats.Losses; decided > 0 {
		stats.WinRate = float64(stats.Wins) / float64(decided)
	}

	stats.TotalPnL = stats.FinalBalance - stats.StartingBalance

	return stats
}

// WriteTradeStats writes the stats report to a YAML file.
func WriteTradeStats(path string, stats TradeStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal trade stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trade stats to file: %w", err)
	}

	return nil
}
