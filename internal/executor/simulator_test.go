package executor

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
)

type SimulatorTestSuite struct {
	suite.Suite
	logger *logger.Logger
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func (suite *SimulatorTestSuite) SetupSuite() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	suite.logger = log
}

func planFor(ticker string, entry float64) types.TradePlan {
	return types.TradePlan{
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Ticker:     ticker,
		Strategy:   types.StrategyBreakout,
		Entry:      entry,
		Stop:       entry * 0.97,
		Target:     entry * 1.08,
		RiskAmount: 200,
		Confidence: types.ConfidenceHigh,
		Reasoning:  "test",
	}
}

func (suite *SimulatorTestSuite) TestExecutedPriceWithinSlippageBounds() {
	sim := NewWithRand(suite.logger, rand.New(rand.NewSource(42)))

	// Many draws: every fill must stay inside entry * [0.995, 1.005].
	for i := 0; i < 1000; i++ {
		positions := sim.Execute([]types.TradePlan{planFor("AAPL", 100)}, 10000)
		suite.Require().Len(positions, 1)
		suite.GreaterOrEqual(positions[0].ExecutedPrice, 99.5)
		suite.LessOrEqual(positions[0].ExecutedPrice, 100.5)
	}
}

func (suite *SimulatorTestSuite) TestNewPositionShape() {
	sim := NewWithRand(suite.logger, rand.New(rand.NewSource(1)))

	positions := sim.Execute([]types.TradePlan{planFor("AAPL", 100)}, 9876.54)
	suite.Require().Len(positions, 1)

	p := positions[0]
	suite.NotEmpty(p.ID)
	suite.Equal("AAPL", p.Ticker)
	suite.Equal(types.PositionStatusOpen, p.Status)
	suite.True(p.Result.IsNone())
	suite.Equal(0, p.DaysHeld)
	suite.Equal(100.0, p.EntryPrice)
	suite.Equal(9876.54, p.WalletBefore)
	suite.True(p.WalletAfter.IsNone())
}

func (suite *SimulatorTestSuite) TestOnePositionPerPlan() {
	sim := NewWithRand(suite.logger, rand.New(rand.NewSource(7)))

	plans := []types.TradePlan{planFor("AAPL", 100), planFor("TSLA", 200)}
	positions := sim.Execute(plans, 10000)

	suite.Require().Len(positions, 2)
	suite.NotEqual(positions[0].ID, positions[1].ID)
	suite.Equal("AAPL", positions[0].Ticker)
	suite.Equal("TSLA", positions[1].Ticker)
}

func (suite *SimulatorTestSuite) TestDeterministicWithPinnedSeed() {
	first := NewWithRand(suite.logger, rand.New(rand.NewSource(99))).
		Execute([]types.TradePlan{planFor("AAPL", 100)}, 10000)
	second := NewWithRand(suite.logger, rand.New(rand.NewSource(99))).
		Execute([]types.TradePlan{planFor("AAPL", 100)}, 10000)

	suite.Equal(first[0].ExecutedPrice, second[0].ExecutedPrice)
}
