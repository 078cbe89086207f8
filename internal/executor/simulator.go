// Package executor turns trade plans into simulated fills. Execution is
// paper-only: the fill price is the entry perturbed by bounded slippage.
package executor

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/utils"
)

// SlippageFraction bounds the simulated fill at ±0.5% of the entry price.
const SlippageFraction = 0.005

// Simulator produces OPEN positions from trade plans.
type Simulator struct {
	rng    *rand.Rand
	logger *logger.Logger
}

// New creates a Simulator with a time-seeded random source.
func New(logger *logger.Logger) *Simulator {
	return NewWithRand(logger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a Simulator with an injected random source, so tests
// can pin the slippage draw.
func NewWithRand(logger *logger.Logger, rng *rand.Rand) *Simulator {
	return &Simulator{
		rng:    rng,
		logger: logger,
	}
}

// Execute creates one Position per plan. Every position starts OPEN with
// zero days held; walletBefore is the caller's current running balance.
func (s *Simulator) Execute(plans []types.TradePlan, walletBefore float64) []types.Position {
	positions := make([]types.Position, 0, len(plans))

	for _, plan := range plans {
		executed := s.simulateFill(plan.Entry)

		s.logger.Info("Simulated fill",
			zap.String("ticker", plan.Ticker),
			zap.Float64("entry", plan.Entry),
			zap.Float64("executed", executed),
		)

		positions = append(positions, types.Position{
			ID:            uuid.New().String(),
			DateOpened:    plan.Date,
			Ticker:        plan.Ticker,
			Strategy:      plan.Strategy,
			EntryPrice:    plan.Entry,
			ExecutedPrice: executed,
			Stop:          plan.Stop,
			Target:        plan.Target,
			Confidence:    plan.Confidence,
			Status:        types.PositionStatusOpen,
			Result:        optional.None[types.TradeResult](),
			DaysHeld:      0,
			WalletBefore:  walletBefore,
			WalletAfter:   optional.None[float64](),
		})
	}

	return positions
}

// simulateFill perturbs the entry by a uniform draw in [-0.5%, +0.5%].
func (s *Simulator) simulateFill(entry float64) float64 {
	fluctuation := entry * (s.rng.Float64()*2 - 1) * SlippageFraction

	return utils.Round2(entry + fluctuation)
}
