package analytics

import (
	"context"
	"errors"
	"fmt"

	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/store"
	"finance-assistant/internal/ta"
	"finance-assistant/internal/types"
)

var (
	// ErrNoData marks a symbol whose price history is empty or unavailable.
	// Aggregations exclude such symbols instead of failing.
	ErrNoData = errors.New("no price data")

	// ErrNoSymbols is the batch-level failure: nothing could be analyzed.
	ErrNoSymbols = errors.New("no symbols could be analyzed")
)

// Analyzer builds technical summaries and portfolio reports from a price
// history provider. All computation is pure once the histories are in hand.
type Analyzer struct {
	cfg     *store.Config
	history interfaces.HistoryProvider
}

func New(cfg *store.Config, history interfaces.HistoryProvider) *Analyzer {
	return &Analyzer{cfg: cfg, history: history}
}

// SymbolSummary computes the full technical picture for one symbol.
// The benchmark series being unavailable degrades beta to 1.0; an empty
// symbol history returns ErrNoData.
func (a *Analyzer) SymbolSummary(ctx context.Context, symbol string) (types.SymbolSummary, error) {
	bars, err := a.history.History(ctx, symbol, a.cfg.MarketData.HistoryRange)
	if err != nil || len(bars) == 0 {
		return types.SymbolSummary{}, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	closes := extractCloses(bars)
	current := closes[len(closes)-1]
	ind := a.cfg.Indicators
	th := a.cfg.Thresholds

	s := types.SymbolSummary{
		Symbol:        symbol,
		CurrentPrice:  ta.Round2(current),
		PriceChange1D: pctChange(closes, 1),
		PriceChange1W: pctChange(closes, 5),
		PriceChange1M: pctChange(closes, 20),
	}

	// Indicators are computed and classified unrounded; rounding happens
	// only when a value lands in the summary struct.
	var rsi, smaShort, smaLong, bbUpper, bbLower *float64
	if v, ok := ta.RSI(closes, ind.RSIPeriod); ok {
		rsi = &v
	}
	if v, ok := ta.SMA(closes, ind.SMAShort); ok {
		smaShort = &v
	}
	if v, ok := ta.SMA(closes, ind.SMALong); ok {
		smaLong = &v
	}
	if _, up, low, ok := ta.Bollinger(closes, ind.BBWindow, ind.BBStdDev); ok {
		bbUpper, bbLower = &up, &low
	}
	if v, ok := ta.Volatility(closes, ind.VolWindow); ok {
		s.Volatility = &v
	}

	s.Beta = 1.0
	bench, err := a.history.History(ctx, a.cfg.MarketData.BenchmarkSymbol, a.cfg.MarketData.HistoryRange)
	if err != nil || len(bench) == 0 {
		logger.Warn(ctx, "Benchmark history unavailable, using beta 1.0",
			"benchmark", a.cfg.MarketData.BenchmarkSymbol, "symbol", symbol)
	} else {
		s.Beta = ta.Beta(closes, extractCloses(bench), ind.BetaWindow)
	}

	s.RSISignal = RSISignal(rsi, th.RSIOverbought, th.RSIOversold)
	s.TrendSignal = TrendSignal(smaShort, smaLong)
	s.BollingerSignal = BollingerSignal(current, bbUpper, bbLower, th.BandUpperRatio, th.BandLowerRatio)
	s.RiskLevel = RiskLevel(s.Volatility, s.Beta, th.VolHigh, th.VolMedium, th.BetaHigh, th.BetaMedium)

	s.RSI = roundOpt(rsi)
	s.SMA20 = roundOpt(smaShort)
	s.SMA50 = roundOpt(smaLong)
	s.BollingerUpper = roundOpt(bbUpper)
	s.BollingerLower = roundOpt(bbLower)

	return s, nil
}

// pctChange is the percentage change from the close n bars back to the
// latest close, or 0 when the history is too short.
func pctChange(closes []float64, n int) float64 {
	if len(closes) <= n {
		return 0
	}
	prev := closes[len(closes)-1-n]
	if prev == 0 {
		return 0
	}
	return ta.Round2((closes[len(closes)-1] - prev) / prev * 100)
}

func extractCloses(bars []types.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func roundOpt(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := ta.Round2(*v)
	return &r
}
