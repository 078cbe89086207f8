// Package config loads the pipeline configuration from environment
// variables, with a .env file honored when present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

// Defaults mirror the documented configuration surface. Every knob can be
// overridden through the environment.
const (
	DefaultDataPath        = "data/swing.duckdb"
	DefaultTickers         = "AAPL,TSLA,NVDA,MSFT,AMZN"
	DefaultNominalBalance  = 10000
	DefaultStartingBalance = 10000
	DefaultRiskPercent     = 0.02
	DefaultLookbackWindow  = 20
	DefaultMaxHoldDays     = 5
)

// Config holds every setting the pipeline stages need.
type Config struct {
	// Credentials. All optional: stages that need a missing credential fail
	// per item, not at load time.
	PolygonAPIKey      string
	AlphaVantageAPIKey string
	TelegramBotToken   string
	TelegramChatID     string

	// Tickers is the universe scanned by the collect stage.
	Tickers []string `validate:"min=1,dive,required"`

	// DataPath is the DuckDB file backing the tabular store.
	DataPath string `validate:"required"`

	// NominalBalance is the pretend account size the alert builder quotes
	// risk from. It is intentionally not the live wallet.
	NominalBalance float64 `validate:"gt=0"`
	// StartingBalance seeds the wallet fold when no positions exist yet.
	StartingBalance float64 `validate:"gt=0"`
	// RiskPercent is the fixed fraction used for both the quoted risk amount
	// and the resolver's share-size heuristic.
	RiskPercent float64 `validate:"gt=0,lte=1"`
	// LookbackWindow is the number of bars preceding the latest bar that the
	// detector compares against.
	LookbackWindow int `validate:"min=1"`
	// MaxHoldDays forces a flat close on open positions held this long.
	MaxHoldDays int `validate:"min=1"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when it exists.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		PolygonAPIKey:      os.Getenv("POLYGON_API_KEY"),
		AlphaVantageAPIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		TelegramBotToken:   os.Getenv("BOT_TOKEN"),
		TelegramChatID:     os.Getenv("CHAT_ID"),
		Tickers:            splitList(getEnv("TICKERS", DefaultTickers)),
		DataPath:           getEnv("DATA_PATH", DefaultDataPath),
	}

	var err error

	cfg.NominalBalance, err = getEnvFloat("WALLET_BALANCE", DefaultNominalBalance)
	if err != nil {
		return nil, err
	}

	cfg.StartingBalance, err = getEnvFloat("STARTING_BALANCE", DefaultStartingBalance)
	if err != nil {
		return nil, err
	}

	cfg.RiskPercent, err = getEnvFloat("RISK_PERCENT", DefaultRiskPercent)
	if err != nil {
		return nil, err
	}

	cfg.LookbackWindow, err = getEnvInt("LOOKBACK_WINDOW", DefaultLookbackWindow)
	if err != nil {
		return nil, err
	}

	cfg.MaxHoldDays, err = getEnvInt("MAX_HOLD_DAYS", DefaultMaxHoldDays)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", key)
	}

	return parsed, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", key)
	}

	return parsed, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
