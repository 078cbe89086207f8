package pricesource

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

// PolygonProvider fetches daily equity aggregates from Polygon.io.
type PolygonProvider struct {
	client *polygon.Client
}

var _ Provider = (*PolygonProvider)(nil)

// NewPolygonProvider creates a Polygon-backed provider.
func NewPolygonProvider(apiKey string) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon api key is required")
	}

	return &PolygonProvider{
		client: polygon.New(apiKey),
	}, nil
}

// Name implements Provider.
func (p *PolygonProvider) Name() string {
	return "polygon"
}

// FetchDaily implements Provider. The calendar range is padded well past the
// requested bar count so weekends and holidays do not starve the window.
func (p *PolygonProvider) FetchDaily(ctx context.Context, ticker string, bars int) ([]types.PriceBar, error) {
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -(bars*2 + 10))

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var fetched []types.PriceBar

	for iter.Next() {
		agg := iter.Item()
		fetched = append(fetched, types.PriceBar{
			Date:   time.Time(agg.Timestamp).UTC().Truncate(24 * time.Hour),
			Ticker: ticker,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, iter.Err(), "polygon aggregates failed for %s", ticker)
	}

	if len(fetched) > bars {
		fetched = fetched[len(fetched)-bars:]
	}

	return fetched, nil
}

// Quote implements Provider.
func (p *PolygonProvider) Quote(ctx context.Context, ticker string) (float64, error) {
	fetched, err := p.FetchDaily(ctx, ticker, 1)
	if err != nil {
		return 0, err
	}

	if len(fetched) == 0 {
		return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "polygon returned no bars for %s", ticker)
	}

	return fetched[len(fetched)-1].Close, nil
}
