package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
)

type DetectorTestSuite struct {
	suite.Suite
	detector *Detector
}

func TestDetectorSuite(t *testing.T) {
	suite.Run(t, new(DetectorTestSuite))
}

func (suite *DetectorTestSuite) SetupSuite() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	suite.detector = New(log, 20)
}

// makeHistory builds window bars of flat closes/volumes followed by one
// latest bar with the given close and volume.
func makeHistory(ticker string, window int, recentClose, recentVolume, latestClose, latestVolume float64) []types.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, 0, window+1)

	for i := 0; i < window; i++ {
		bars = append(bars, types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Ticker: ticker,
			Open:   recentClose,
			High:   recentClose,
			Low:    recentClose,
			Close:  recentClose,
			Volume: recentVolume,
		})
	}

	bars = append(bars, types.PriceBar{
		Date:   start.AddDate(0, 0, window),
		Ticker: ticker,
		Open:   latestClose,
		High:   latestClose,
		Low:    latestClose,
		Close:  latestClose,
		Volume: latestVolume,
	})

	return bars
}

func (suite *DetectorTestSuite) TestBreakoutFires() {
	// Closes [10]*20, latest close 11 on volume 250 vs average 100.
	bars := makeHistory("AAPL", 20, 10, 100, 11, 250)

	signals := suite.detector.Scan(bars)
	suite.Require().Len(signals, 1)
	suite.Equal("AAPL", signals[0].Ticker)
	suite.Equal(types.StrategyBreakout, signals[0].Strategy)
	suite.Equal(types.ConfidenceHigh, signals[0].Confidence)
	suite.Equal(11.0, signals[0].Close)
	suite.Equal(250.0, signals[0].Volume)
}

func (suite *DetectorTestSuite) TestVolumeBelowSpikeThresholdDoesNotFire() {
	// Latest volume 150 is under 2x the 100 average.
	bars := makeHistory("AAPL", 20, 10, 100, 11, 150)

	signals := suite.detector.Scan(bars)
	suite.Empty(signals)
}

func (suite *DetectorTestSuite) TestVolumeExactlyTwiceAverageFires() {
	bars := makeHistory("AAPL", 20, 10, 100, 11, 200)

	signals := suite.detector.Scan(bars)
	suite.Len(signals, 1)
}

func (suite *DetectorTestSuite) TestCloseEqualToRecentHighDoesNotFire() {
	bars := makeHistory("AAPL", 20, 10, 100, 10, 250)

	signals := suite.detector.Scan(bars)
	suite.Empty(signals)
}

func (suite *DetectorTestSuite) TestInsufficientHistorySkippedSilently() {
	// Exactly window bars: one short of window+1.
	bars := makeHistory("AAPL", 19, 10, 100, 11, 250)

	signals := suite.detector.Scan(bars)
	suite.Empty(signals)
}

func (suite *DetectorTestSuite) TestEmptyInputIsValid() {
	signals := suite.detector.Scan(nil)
	suite.Empty(signals)
}

func (suite *DetectorTestSuite) TestMixedUniverseOnlyBreakoutTickerFlagged() {
	var bars []types.PriceBar
	bars = append(bars, makeHistory("AAPL", 20, 10, 100, 10.5, 120)...)
	bars = append(bars, makeHistory("NVDA", 20, 50, 1000, 55, 2500)...)
	bars = append(bars, makeHistory("TSLA", 20, 200, 400, 199, 900)...)

	signals := suite.detector.Scan(bars)
	suite.Require().Len(signals, 1)
	suite.Equal("NVDA", signals[0].Ticker)
}

func (suite *DetectorTestSuite) TestUnsortedInputIsSortedByDate() {
	bars := makeHistory("AAPL", 20, 10, 100, 11, 250)

	// Shuffle deterministically: reverse the slice.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	signals := suite.detector.Scan(bars)
	suite.Require().Len(signals, 1)
	suite.Equal(11.0, signals[0].Close)
}
