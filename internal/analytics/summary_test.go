package analytics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/store"
	"finance-assistant/internal/types"
)

func TestMain(m *testing.M) {
	logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
	os.Exit(m.Run())
}

// fakeHistory serves canned series and records which symbols were asked for.
type fakeHistory struct {
	mu     sync.Mutex
	series map[string][]types.Bar
	errs   map[string]error
	calls  int
}

func (f *fakeHistory) History(_ context.Context, symbol, _ string) ([]types.Bar, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	bars, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: no canned series", symbol)
	}
	return bars, nil
}

func barsFrom(closes []float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{Ts: int64(i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func constantCloses(v float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = v
	}
	return closes
}

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestSymbolSummaryNoData(t *testing.T) {
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{}})

	_, err := a.SymbolSummary(context.Background(), "AAPL")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestSymbolSummaryEmptySeries(t *testing.T) {
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"AAPL": {},
	}})

	_, err := a.SymbolSummary(context.Background(), "AAPL")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty series, got %v", err)
	}
}

func TestSymbolSummaryShortHistory(t *testing.T) {
	// Three bars: too short for every indicator window, but price changes
	// over one day must still come out.
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"AAPL": barsFrom([]float64{100, 100, 102}),
		"SPY":  barsFrom([]float64{400, 401, 402}),
	}})

	s, err := a.SymbolSummary(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("SymbolSummary: %v", err)
	}

	if s.CurrentPrice != 102 {
		t.Errorf("CurrentPrice = %v, want 102", s.CurrentPrice)
	}
	if s.PriceChange1D != 2.0 {
		t.Errorf("PriceChange1D = %v, want 2.0", s.PriceChange1D)
	}
	if s.PriceChange1W != 0 || s.PriceChange1M != 0 {
		t.Errorf("short-history changes = %v / %v, want 0 / 0", s.PriceChange1W, s.PriceChange1M)
	}
	if s.RSI != nil || s.SMA20 != nil || s.SMA50 != nil {
		t.Error("expected nil indicators on short history")
	}
	if s.RSISignal != SignalNeutral {
		t.Errorf("RSISignal = %q, want %q", s.RSISignal, SignalNeutral)
	}
	if s.TrendSignal != SignalNeutral {
		t.Errorf("TrendSignal = %q, want %q", s.TrendSignal, SignalNeutral)
	}
	if s.BollingerSignal != SignalUnknown {
		t.Errorf("BollingerSignal = %q, want %q", s.BollingerSignal, SignalUnknown)
	}
	if s.Volatility != nil {
		t.Errorf("Volatility = %v, want nil", *s.Volatility)
	}
	if s.Beta != 1.0 {
		t.Errorf("Beta = %v, want fallback 1.0", s.Beta)
	}
}

func TestSymbolSummaryBenchmarkMissing(t *testing.T) {
	closes := constantCloses(100, 60)
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"AAPL": barsFrom(closes),
	}})

	s, err := a.SymbolSummary(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("SymbolSummary: %v", err)
	}
	if s.Beta != 1.0 {
		t.Errorf("Beta = %v, want 1.0 when benchmark history is unavailable", s.Beta)
	}
}

func TestSymbolSummaryFullHistory(t *testing.T) {
	// A flat series makes every indicator land on a known value: the moving
	// averages and bands collapse onto the price and volatility is zero.
	closes := constantCloses(100, 60)
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"AAPL": barsFrom(closes),
		"SPY":  barsFrom(constantCloses(400, 60)),
	}})

	s, err := a.SymbolSummary(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("SymbolSummary: %v", err)
	}

	if s.SMA20 == nil || *s.SMA20 != 100 {
		t.Errorf("SMA20 = %v, want 100", s.SMA20)
	}
	if s.SMA50 == nil || *s.SMA50 != 100 {
		t.Errorf("SMA50 = %v, want 100", s.SMA50)
	}
	if s.TrendSignal != SignalNeutral {
		t.Errorf("TrendSignal = %q, want %q for equal averages", s.TrendSignal, SignalNeutral)
	}
	if s.Volatility == nil || *s.Volatility != 0 {
		t.Errorf("Volatility = %v, want 0", s.Volatility)
	}
	// Flat benchmark has zero variance, so beta defaults.
	if s.Beta != 1.0 {
		t.Errorf("Beta = %v, want 1.0", s.Beta)
	}
	if s.RiskLevel != RiskLow {
		t.Errorf("RiskLevel = %q, want %q", s.RiskLevel, RiskLow)
	}
	if s.PriceChange1D != 0 || s.PriceChange1W != 0 || s.PriceChange1M != 0 {
		t.Error("expected zero price changes for a flat series")
	}
}
