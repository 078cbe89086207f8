package config

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) clearEnv() {
	for _, key := range []string{
		"POLYGON_API_KEY", "ALPHA_VANTAGE_API_KEY", "BOT_TOKEN", "CHAT_ID",
		"TICKERS", "DATA_PATH", "WALLET_BALANCE", "STARTING_BALANCE",
		"RISK_PERCENT", "LOOKBACK_WINDOW", "MAX_HOLD_DAYS",
	} {
		suite.T().Setenv(key, "")
	}
}

func (suite *ConfigTestSuite) TestDefaults() {
	suite.clearEnv()

	cfg, err := Load()
	suite.Require().NoError(err)

	suite.Equal([]string{"AAPL", "TSLA", "NVDA", "MSFT", "AMZN"}, cfg.Tickers)
	suite.Equal(DefaultDataPath, cfg.DataPath)
	suite.Equal(float64(DefaultNominalBalance), cfg.NominalBalance)
	suite.Equal(float64(DefaultStartingBalance), cfg.StartingBalance)
	suite.Equal(DefaultRiskPercent, cfg.RiskPercent)
	suite.Equal(DefaultLookbackWindow, cfg.LookbackWindow)
	suite.Equal(DefaultMaxHoldDays, cfg.MaxHoldDays)
	suite.Empty(cfg.PolygonAPIKey)
	suite.Empty(cfg.TelegramBotToken)
}

func (suite *ConfigTestSuite) TestOverrides() {
	suite.clearEnv()
	suite.T().Setenv("TICKERS", "AAPL, GOOG ,AMD")
	suite.T().Setenv("DATA_PATH", "/tmp/book.duckdb")
	suite.T().Setenv("WALLET_BALANCE", "25000")
	suite.T().Setenv("STARTING_BALANCE", "5000")
	suite.T().Setenv("RISK_PERCENT", "0.05")
	suite.T().Setenv("LOOKBACK_WINDOW", "30")
	suite.T().Setenv("MAX_HOLD_DAYS", "10")
	suite.T().Setenv("BOT_TOKEN", "token")
	suite.T().Setenv("CHAT_ID", "42")

	cfg, err := Load()
	suite.Require().NoError(err)

	suite.Equal([]string{"AAPL", "GOOG", "AMD"}, cfg.Tickers)
	suite.Equal("/tmp/book.duckdb", cfg.DataPath)
	suite.Equal(25000.0, cfg.NominalBalance)
	suite.Equal(5000.0, cfg.StartingBalance)
	suite.Equal(0.05, cfg.RiskPercent)
	suite.Equal(30, cfg.LookbackWindow)
	suite.Equal(10, cfg.MaxHoldDays)
	suite.Equal("token", cfg.TelegramBotToken)
	suite.Equal("42", cfg.TelegramChatID)
}

func (suite *ConfigTestSuite) TestMalformedNumber() {
	suite.clearEnv()
	suite.T().Setenv("RISK_PERCENT", "two percent")

	_, err := Load()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMalformedWindow() {
	suite.clearEnv()
	suite.T().Setenv("LOOKBACK_WINDOW", "twenty")

	_, err := Load()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestValidateRejectsBadValues() {
	cfg := &Config{
		Tickers:         []string{"AAPL"},
		DataPath:        "data/swing.duckdb",
		NominalBalance:  10000,
		StartingBalance: 10000,
		RiskPercent:     1.5,
		LookbackWindow:  20,
		MaxHoldDays:     5,
	}

	err := cfg.Validate()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestValidateRejectsEmptyUniverse() {
	cfg := &Config{
		Tickers:         nil,
		DataPath:        "data/swing.duckdb",
		NominalBalance:  10000,
		StartingBalance: 10000,
		RiskPercent:     0.02,
		LookbackWindow:  20,
		MaxHoldDays:     5,
	}

	err := cfg.Validate()
	suite.Require().Error(err)
}
