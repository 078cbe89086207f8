package pricesource

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

// BinanceProvider fetches daily klines from Binance. Useful when the ticker
// universe includes crypto pairs; market data endpoints need no credentials.
type BinanceProvider struct {
	client *binance.Client
}

var _ Provider = (*BinanceProvider)(nil)

// NewBinanceProvider creates a Binance-backed provider.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient("", ""),
	}
}

// Name implements Provider.
func (b *BinanceProvider) Name() string {
	return "binance"
}

// FetchDaily implements Provider.
func (b *BinanceProvider) FetchDaily(ctx context.Context, ticker string, bars int) ([]types.PriceBar, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(ticker).
		Interval("1d").
		Limit(bars).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "binance klines failed for %s", ticker)
	}

	fetched := make([]types.PriceBar, 0, len(klines))

	for _, k := range klines {
		bar, err := klineToPriceBar(ticker, k)
		if err != nil {
			return nil, err
		}

		fetched = append(fetched, bar)
	}

	return fetched, nil
}

// Quote implements Provider.
func (b *BinanceProvider) Quote(ctx context.Context, ticker string) (float64, error) {
	fetched, err := b.FetchDaily(ctx, ticker, 1)
	if err != nil {
		return 0, err
	}

	if len(fetched) == 0 {
		return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "binance returned no klines for %s", ticker)
	}

	return fetched[len(fetched)-1].Close, nil
}

// klineToPriceBar converts the string-typed Binance kline into a PriceBar.
func klineToPriceBar(ticker string, k *binance.Kline) (types.PriceBar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "invalid open", err)
	}

	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "invalid high", err)
	}

	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "invalid low", err)
	}

	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "invalid close", err)
	}

	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "invalid volume", err)
	}

	return types.PriceBar{
		Date:   time.UnixMilli(k.OpenTime).UTC().Truncate(24 * time.Hour),
		Ticker: ticker,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
