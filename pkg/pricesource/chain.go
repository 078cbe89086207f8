package pricesource

import (
	"context"

	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

// Chain tries an ordered list of providers until one succeeds. A provider
// failure is logged and the next provider is consulted; only when every
// provider fails does the caller see an error.
type Chain struct {
	providers []Provider
	logger    *logger.Logger
}

// NewChain creates a provider chain. Order matters: the first provider is
// the primary source.
func NewChain(logger *logger.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    logger,
	}
}

// FetchDaily implements the same contract as Provider.FetchDaily across the
// whole chain.
func (c *Chain) FetchDaily(ctx context.Context, ticker string, bars int) ([]types.PriceBar, error) {
	var lastErr error

	for _, p := range c.providers {
		fetched, err := p.FetchDaily(ctx, ticker, bars)
		if err != nil {
			c.logger.Warn("Price fetch failed, trying next provider",
				zap.String("provider", p.Name()),
				zap.String("ticker", ticker),
				zap.Error(err),
			)

			lastErr = err

			continue
		}

		if len(fetched) == 0 {
			c.logger.Warn("Provider returned no bars, trying next provider",
				zap.String("provider", p.Name()),
				zap.String("ticker", ticker),
			)

			lastErr = errors.Newf(errors.ErrCodeMarketDataFetchFailed, "%s returned no bars for %s", p.Name(), ticker)

			continue
		}

		return fetched, nil
	}

	return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, lastErr, "no provider could fetch %s", ticker)
}

// Quote returns the most recent close from the first provider that answers.
func (c *Chain) Quote(ctx context.Context, ticker string) (float64, error) {
	var lastErr error

	for _, p := range c.providers {
		price, err := p.Quote(ctx, ticker)
		if err != nil {
			c.logger.Warn("Quote failed, trying next provider",
				zap.String("provider", p.Name()),
				zap.String("ticker", ticker),
				zap.Error(err),
			)

			lastErr = err

			continue
		}

		return price, nil
	}

	return 0, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, lastErr, "no provider could quote %s", ticker)
}
