// Package alert converts breakout signals into trade plans with a fixed
// percentage bracket and a fixed-fraction risk quote.
package alert

import (
	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/utils"
)

const (
	// StopCoefficient places the stop 3% under the entry.
	StopCoefficient = 0.97
	// TargetCoefficient places the target 8% over the entry.
	TargetCoefficient = 1.08

	breakoutReasoning = "Breakout above 20-day high with volume spike"
)

// Builder maps signals to trade plans. The risk amount is quoted off the
// configured nominal balance, never the live wallet.
type Builder struct {
	nominalBalance float64
	riskPercent    float64
	logger         *logger.Logger
}

// New creates a Builder.
func New(logger *logger.Logger, nominalBalance, riskPercent float64) *Builder {
	return &Builder{
		nominalBalance: nominalBalance,
		riskPercent:    riskPercent,
		logger:         logger,
	}
}

// Build converts each signal into exactly one TradePlan. A signal missing
// required fields is skipped with a diagnostic; the batch continues.
func (b *Builder) Build(signals []types.BreakoutSignal) []types.TradePlan {
	plans := make([]types.TradePlan, 0, len(signals))

	for _, sig := range signals {
		if sig.Ticker == "" || sig.Close <= 0 {
			b.logger.Warn("Skipping malformed signal row",
				zap.String("ticker", sig.Ticker),
				zap.Float64("close", sig.Close),
			)

			continue
		}

		confidence := sig.Confidence
		if confidence == "" {
			confidence = types.ConfidenceMedium
		}

		entry := utils.Round2(sig.Close)
		plans = append(plans, types.TradePlan{
			Date:       sig.Date,
			Ticker:     sig.Ticker,
			Strategy:   sig.Strategy,
			Entry:      entry,
			Stop:       utils.Round2(entry * StopCoefficient),
			Target:     utils.Round2(entry * TargetCoefficient),
			RiskAmount: b.nominalBalance * b.riskPercent,
			Confidence: confidence,
			Reasoning:  breakoutReasoning,
		})
	}

	return plans
}
