package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"finance-assistant/internal/api"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/types"
)

// ErrNoData marks a symbol with no retrievable market data. Network
// failures, unknown tickers and empty chart responses all collapse into
// it so callers never see an upstream fault.
var ErrNoData = errors.New("market data unavailable")

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider fetches OHLCV history and quote snapshots from the public
// Yahoo Finance chart API.
type YahooProvider struct {
	client  *api.Client
	resolve *Resolver
}

func NewYahooProvider(resolver *Resolver) *YahooProvider {
	opts := []api.ClientOption{
		api.WithBaseURL(yahooBaseURL),
		api.WithTimeout(30 * time.Second),
		api.WithLogging(true),
	}
	for k, v := range api.YahooFinanceHeaders() {
		opts = append(opts, api.WithHeader(k, v))
	}
	return &YahooProvider{client: api.NewClient(opts...), resolve: resolver}
}

// yahooChart mirrors the chart API response. Quote arrays may contain
// nulls for halted sessions, decoded here as pointers.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(symbol), interval, rng)

	req := api.NewRequest(http.MethodGet, path).WithContext(ctx)
	resp, err := p.client.DoWithRetry(req, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	var chart yahooChart
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	if chart.Chart.Error != nil {
		logger.Warn(ctx, "Yahoo chart error", "symbol", symbol, "code", chart.Chart.Error.Code)
		return nil, fmt.Errorf("%s: %s: %w", symbol, chart.Chart.Error.Code, ErrNoData)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s: empty chart: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

// History returns daily bars for the symbol over the given range
// ("1mo", "3mo", "6mo", "1y", "2y"), ascending by timestamp.
func (p *YahooProvider) History(ctx context.Context, symbol, rng string) ([]types.Bar, error) {
	resolved := p.resolve.Resolve(symbol)

	chart, err := p.fetchChart(ctx, resolved, "1d", rng)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: empty chart: %w", symbol, ErrNoData)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Null closes are gaps, not zero prices; drop the bar.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bars = append(bars, types.Bar{
			Ts:    ts,
			Open:  deref(at(quote.Open, i)),
			High:  deref(at(quote.High, i)),
			Low:   deref(at(quote.Low, i)),
			Close: *quote.Close[i],
			Vol:   deref(at(quote.Volume, i)),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no bars: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// Quote returns a real-time snapshot built from the chart metadata.
// The input may be a ticker or a common company name.
func (p *YahooProvider) Quote(ctx context.Context, symbolOrName string) (types.Quote, error) {
	resolved := p.resolve.Resolve(symbolOrName)

	chart, err := p.fetchChart(ctx, resolved, "1d", "1d")
	if err != nil {
		return types.Quote{}, err
	}

	meta := chart.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price == 0 {
		// Fall back to the last available close.
		bars, herr := p.History(ctx, resolved, "5d")
		if herr != nil {
			return types.Quote{}, fmt.Errorf("%s: %w", symbolOrName, ErrNoData)
		}
		price = bars[len(bars)-1].Close
	}

	q := types.Quote{
		Symbol:        meta.Symbol,
		Name:          meta.ShortName,
		Price:         round2(price),
		Currency:      defaultStr(meta.Currency, "USD"),
		Exchange:      meta.ExchangeName,
		PreviousClose: round2(meta.ChartPreviousClose),
		Timestamp:     time.Now(),
	}
	if meta.ChartPreviousClose != 0 {
		q.DayChange = round2(price - meta.ChartPreviousClose)
		q.DayChangePct = round2((price - meta.ChartPreviousClose) / meta.ChartPreviousClose * 100)
	}
	return q, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
