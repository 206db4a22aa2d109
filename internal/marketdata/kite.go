package marketdata

import (
	"context"
	"fmt"
	"time"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// KiteProvider serves daily history from the Zerodha Kite Connect API for
// NSE symbols that have a configured instrument token. Useful when Yahoo
// throttles or for Indian tickers with spotty Yahoo coverage.
type KiteProvider struct {
	kc       *kiteconnect.Client
	interval string
	tokens   map[string]int
}

func NewKiteProvider(apiKey, accessToken, interval string, tokens map[string]int) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if interval == "" {
		interval = "day"
	}
	return &KiteProvider{kc: kc, interval: interval, tokens: tokens}
}

func (p *KiteProvider) History(ctx context.Context, symbol, rng string) ([]types.Bar, error) {
	token, ok := p.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: no instrument token: %w", symbol, ErrNoData)
	}

	to := time.Now()
	from := to.AddDate(0, -rangeMonths(rng), 0)

	data, err := p.kc.GetHistoricalData(token, p.interval, from, to, false, false)
	if err != nil {
		logger.ErrorWithErr(ctx, "Kite historical data failed", err, "symbol", symbol, "token", token)
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: no bars: %w", symbol, ErrNoData)
	}

	bars := make([]types.Bar, 0, len(data))
	for _, d := range data {
		bars = append(bars, types.Bar{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	return bars, nil
}

// rangeMonths maps Yahoo-style range strings onto calendar months.
func rangeMonths(rng string) int {
	switch rng {
	case "1mo":
		return 1
	case "3mo":
		return 3
	case "1y":
		return 12
	case "2y":
		return 24
	default:
		return 6
	}
}
