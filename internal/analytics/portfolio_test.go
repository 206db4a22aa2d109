package analytics

import (
	"context"
	"errors"
	"testing"

	"finance-assistant/internal/types"
)

// trendingCloses builds a series that ends with the short moving average
// above (up) or below (down) the long one.
func trendingCloses(n int, up bool) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		if up {
			closes[i] = 100 + float64(i)
		} else {
			closes[i] = 100 + float64(n-i)
		}
	}
	return closes
}

func TestPortfolioAnalyticsNoSymbols(t *testing.T) {
	a := New(testConfig(), &fakeHistory{})

	_, err := a.PortfolioAnalytics(context.Background(), nil)
	if !errors.Is(err, ErrNoSymbols) {
		t.Fatalf("expected ErrNoSymbols for empty input, got %v", err)
	}
}

func TestPortfolioAnalyticsAllFail(t *testing.T) {
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{}})

	_, err := a.PortfolioAnalytics(context.Background(), []string{"AAPL", "MSFT"})
	if !errors.Is(err, ErrNoSymbols) {
		t.Fatalf("expected ErrNoSymbols when every symbol fails, got %v", err)
	}
}

func TestPortfolioAnalyticsSkipsFailedSymbol(t *testing.T) {
	a := New(testConfig(), &fakeHistory{
		series: map[string][]types.Bar{
			"AAPL": barsFrom(trendingCloses(60, true)),
			"NVDA": barsFrom(trendingCloses(60, true)),
			"SPY":  barsFrom(constantCloses(400, 60)),
		},
		errs: map[string]error{"MSFT": errors.New("upstream down")},
	})

	report, err := a.PortfolioAnalytics(context.Background(), []string{"AAPL", "MSFT", "NVDA"})
	if err != nil {
		t.Fatalf("PortfolioAnalytics: %v", err)
	}

	if report.TotalPositions != 2 {
		t.Fatalf("TotalPositions = %d, want 2", report.TotalPositions)
	}
	// Input order survives even though the summaries run concurrently.
	if report.Positions[0].Symbol != "AAPL" || report.Positions[1].Symbol != "NVDA" {
		t.Errorf("positions out of order: %s, %s", report.Positions[0].Symbol, report.Positions[1].Symbol)
	}
}

func TestPortfolioAnalyticsSentiment(t *testing.T) {
	spy := barsFrom(constantCloses(400, 60))

	tests := []struct {
		name   string
		series map[string][]types.Bar
		want   string
	}{
		{
			name: "bullish majority",
			series: map[string][]types.Bar{
				"AAPL": barsFrom(trendingCloses(60, true)),
				"NVDA": barsFrom(trendingCloses(60, true)),
				"INTC": barsFrom(trendingCloses(60, false)),
				"SPY":  spy,
			},
			want: SignalBullish,
		},
		{
			name: "bearish majority",
			series: map[string][]types.Bar{
				"AAPL": barsFrom(trendingCloses(60, false)),
				"NVDA": barsFrom(trendingCloses(60, false)),
				"INTC": barsFrom(trendingCloses(60, true)),
				"SPY":  spy,
			},
			want: SignalBearish,
		},
		{
			name: "split is mixed",
			series: map[string][]types.Bar{
				"AAPL": barsFrom(trendingCloses(60, true)),
				"NVDA": barsFrom(trendingCloses(60, false)),
				"SPY":  spy,
			},
			want: SentimentMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(testConfig(), &fakeHistory{series: tt.series})

			symbols := []string{}
			for sym := range tt.series {
				if sym != "SPY" {
					symbols = append(symbols, sym)
				}
			}

			report, err := a.PortfolioAnalytics(context.Background(), symbols)
			if err != nil {
				t.Fatalf("PortfolioAnalytics: %v", err)
			}
			if report.Sentiment != tt.want {
				t.Errorf("Sentiment = %q, want %q", report.Sentiment, tt.want)
			}
			if report.BullishTrend+report.BearishTrend+report.NeutralTrend != report.TotalPositions {
				t.Error("trend counts do not add up to total positions")
			}
		})
	}
}

func TestRiskExposureRegionFilter(t *testing.T) {
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"AAPL": barsFrom(constantCloses(100, 60)),
		"MSFT": barsFrom(constantCloses(200, 60)),
		"TSM":  barsFrom(constantCloses(90, 60)),
		"SPY":  barsFrom(constantCloses(400, 60)),
	}})

	report, err := a.RiskExposure(context.Background(), []string{"AAPL", "MSFT", "TSM"}, "US")
	if err != nil {
		t.Fatalf("RiskExposure: %v", err)
	}

	if report.Region != "US" {
		t.Errorf("Region = %q, want %q", report.Region, "US")
	}
	if report.StocksAnalyzed != 2 {
		t.Fatalf("StocksAnalyzed = %d, want 2 after region filter", report.StocksAnalyzed)
	}
	for _, s := range report.Stocks {
		if s.Symbol == "TSM" {
			t.Error("TSM should have been filtered out of the US region")
		}
	}
}

func TestRiskExposureRegionFallbackToDefault(t *testing.T) {
	// Every symbol is foreign to the region, so the region default stands in.
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"TSM": barsFrom(constantCloses(90, 60)),
		"SPY": barsFrom(constantCloses(400, 60)),
	}})

	report, err := a.RiskExposure(context.Background(), []string{"VOD.L"}, "asia")
	if err != nil {
		t.Fatalf("RiskExposure: %v", err)
	}
	if report.StocksAnalyzed != 1 || report.Stocks[0].Symbol != "TSM" {
		t.Fatalf("expected the asia default TSM, got %+v", report.Stocks)
	}
}

func TestRiskExposureLowRiskRationale(t *testing.T) {
	a := New(testConfig(), &fakeHistory{series: map[string][]types.Bar{
		"AAPL": barsFrom(constantCloses(100, 60)),
		"SPY":  barsFrom(constantCloses(400, 60)),
	}})

	report, err := a.RiskExposure(context.Background(), []string{"AAPL"}, "")
	if err != nil {
		t.Fatalf("RiskExposure: %v", err)
	}

	if report.Region != "Global" {
		t.Errorf("Region = %q, want Global when no region given", report.Region)
	}
	if report.OverallRiskLevel != RiskLowMedium {
		t.Errorf("OverallRiskLevel = %q, want %q", report.OverallRiskLevel, RiskLowMedium)
	}
	if report.RiskSummary != "Portfolio has moderate risk exposure." {
		t.Errorf("unexpected rationale %q", report.RiskSummary)
	}
	if len(report.HighRiskPositions) != 0 {
		t.Errorf("HighRiskPositions = %v, want none", report.HighRiskPositions)
	}
	if report.AverageBeta != 1.0 {
		t.Errorf("AverageBeta = %v, want 1.0", report.AverageBeta)
	}
}
