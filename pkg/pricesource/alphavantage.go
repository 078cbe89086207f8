package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageProvider fetches adjusted daily series from the Alpha Vantage
// REST API. The free tier caps out around 100 bars per request, which covers
// the detection window comfortably.
type AlphaVantageProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Provider = (*AlphaVantageProvider)(nil)

// NewAlphaVantageProvider creates an Alpha Vantage provider.
func NewAlphaVantageProvider(apiKey string) (*AlphaVantageProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "alpha vantage api key is required")
	}

	return &AlphaVantageProvider{
		apiKey:  apiKey,
		baseURL: alphaVantageBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// WithBaseURL points the provider at an alternate endpoint. Used by tests.
func (a *AlphaVantageProvider) WithBaseURL(baseURL string) *AlphaVantageProvider {
	a.baseURL = baseURL

	return a
}

// Name implements Provider.
func (a *AlphaVantageProvider) Name() string {
	return "alphavantage"
}

// dailySeriesResponse mirrors the parts of the TIME_SERIES_DAILY_ADJUSTED
// payload we consume. Field keys carry the API's numeric prefixes.
type dailySeriesResponse struct {
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
}

// FetchDaily implements Provider.
func (a *AlphaVantageProvider) FetchDaily(ctx context.Context, ticker string, bars int) ([]types.PriceBar, error) {
	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	query.Set("symbol", ticker)
	query.Set("apikey", a.apiKey)
	query.Set("outputsize", "compact")

	endpoint := fmt.Sprintf("%s/query?%s", a.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to build alpha vantage request", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "alpha vantage request failed for %s", ticker)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "alpha vantage returned status %d for %s", resp.StatusCode, ticker)
	}

	var payload dailySeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode alpha vantage response", err)
	}

	if len(payload.TimeSeries) == 0 {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "alpha vantage returned no series for %s", ticker)
	}

	dates := make([]string, 0, len(payload.TimeSeries))
	for d := range payload.TimeSeries {
		dates = append(dates, d)
	}

	sort.Strings(dates)

	if len(dates) > bars {
		dates = dates[len(dates)-bars:]
	}

	fetched := make([]types.PriceBar, 0, len(dates))

	for _, d := range dates {
		bar, err := parseDailyEntry(ticker, d, payload.TimeSeries[d])
		if err != nil {
			return nil, err
		}

		fetched = append(fetched, bar)
	}

	return fetched, nil
}

// Quote implements Provider.
func (a *AlphaVantageProvider) Quote(ctx context.Context, ticker string) (float64, error) {
	fetched, err := a.FetchDaily(ctx, ticker, 1)
	if err != nil {
		return 0, err
	}

	return fetched[len(fetched)-1].Close, nil
}

func parseDailyEntry(ticker, date string, entry map[string]string) (types.PriceBar, error) {
	parsedDate, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid date %q", date)
	}

	fields := map[string]*float64{}
	bar := types.PriceBar{
		Date:   parsedDate,
		Ticker: ticker,
	}

	fields["1. open"] = &bar.Open
	fields["2. high"] = &bar.High
	fields["3. low"] = &bar.Low
	fields["4. close"] = &bar.Close
	fields["6. volume"] = &bar.Volume

	for key, dst := range fields {
		raw, ok := entry[key]
		if !ok {
			return types.PriceBar{}, errors.Newf(errors.ErrCodeMarketDataParseFailed, "missing field %q for %s %s", key, ticker, date)
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid %q for %s %s", key, ticker, date)
		}

		*dst = v
	}

	return bar, nil
}
