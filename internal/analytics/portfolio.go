package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/store"
	"finance-assistant/internal/ta"
	"finance-assistant/internal/types"
)

// RiskExposure analyzes portfolio risk for a symbol list, optionally
// narrowed to a recognized region. A recognized region never yields an
// empty analysis: when the filter removes every symbol, the region's
// default symbol is analyzed instead.
func (a *Analyzer) RiskExposure(ctx context.Context, symbols []string, region string) (types.RiskReport, error) {
	reportRegion := "Global"
	if region != "" {
		reportRegion = region
		if key, r, ok := a.matchRegion(region); ok {
			symbols = filterToRegion(symbols, r)
			logger.Info(ctx, "Region filter applied", "region", key, "symbols", symbols)
		}
	}
	if len(symbols) == 0 {
		if r, ok := a.cfg.Regions["asia"]; ok {
			symbols = []string{r.Default}
		}
	}

	summaries := a.buildSummaries(ctx, symbols)
	if len(summaries) == 0 {
		return types.RiskReport{}, fmt.Errorf("risk exposure: %w", ErrNoSymbols)
	}

	var totalVol, totalBeta float64
	highRiskCount := 0
	highRisk := []string{}
	for _, s := range summaries {
		if s.Volatility != nil {
			totalVol += *s.Volatility
		}
		totalBeta += s.Beta
		if s.RiskLevel == RiskHigh {
			highRiskCount++
			highRisk = append(highRisk, s.Symbol)
		}
	}
	avgVol := totalVol / float64(len(summaries))
	avgBeta := totalBeta / float64(len(summaries))

	th := a.cfg.Thresholds
	var overall, rationale string
	switch {
	case highRiskCount > len(summaries)/2:
		overall = RiskHigh
		rationale = "Portfolio has significant exposure to volatile assets. Consider diversification."
	case avgVol > th.AvgVolElevated:
		overall = RiskMediumHigh
		rationale = "Above-average volatility. Monitor positions closely."
	case avgBeta > th.AvgBetaElevated:
		overall = RiskMedium
		rationale = "Portfolio is more sensitive to market movements than average."
	default:
		overall = RiskLowMedium
		rationale = "Portfolio has moderate risk exposure."
	}

	return types.RiskReport{
		Region:            reportRegion,
		StocksAnalyzed:    len(summaries),
		Stocks:            summaries,
		AverageVolatility: ta.Round2(avgVol),
		AverageBeta:       ta.Round2(avgBeta),
		OverallRiskLevel:  overall,
		RiskSummary:       rationale,
		HighRiskPositions: highRisk,
		GeneratedAt:       time.Now(),
	}, nil
}

// PortfolioAnalytics counts trend and momentum signals across a portfolio
// and classifies the overall sentiment.
func (a *Analyzer) PortfolioAnalytics(ctx context.Context, symbols []string) (types.PortfolioReport, error) {
	if len(symbols) == 0 {
		return types.PortfolioReport{}, fmt.Errorf("portfolio analytics: no symbols provided: %w", ErrNoSymbols)
	}

	summaries := a.buildSummaries(ctx, symbols)
	if len(summaries) == 0 {
		return types.PortfolioReport{}, fmt.Errorf("portfolio analytics: %w", ErrNoSymbols)
	}

	var bullish, bearish, overbought, oversold int
	for _, s := range summaries {
		switch s.TrendSignal {
		case SignalBullish:
			bullish++
		case SignalBearish:
			bearish++
		}
		switch s.RSISignal {
		case SignalOverbought:
			overbought++
		case SignalOversold:
			oversold++
		}
	}

	sentiment := SentimentMixed
	if bullish > bearish {
		sentiment = SignalBullish
	} else if bearish > bullish {
		sentiment = SignalBearish
	}

	return types.PortfolioReport{
		TotalPositions:  len(summaries),
		BullishTrend:    bullish,
		BearishTrend:    bearish,
		NeutralTrend:    len(summaries) - bullish - bearish,
		OverboughtCount: overbought,
		OversoldCount:   oversold,
		Positions:       summaries,
		Sentiment:       sentiment,
		GeneratedAt:     time.Now(),
	}, nil
}

// buildSummaries fans out across symbols and collects the summaries that
// succeeded, preserving the input order regardless of completion order.
// A failed symbol is skipped, never zero-filled.
func (a *Analyzer) buildSummaries(ctx context.Context, symbols []string) []types.SymbolSummary {
	results := make([]*types.SymbolSummary, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			s, err := a.SymbolSummary(ctx, sym)
			if err != nil {
				logger.Warn(ctx, "Excluding symbol from aggregate", "symbol", sym, "error", err)
				return
			}
			results[i] = &s
		}(i, sym)
	}
	wg.Wait()

	out := make([]types.SymbolSummary, 0, len(symbols))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// matchRegion resolves a free-text region ("Asia", "us tech", "America")
// against the configured region table.
func (a *Analyzer) matchRegion(region string) (string, store.Region, bool) {
	lower := strings.ToLower(region)
	keys := make([]string, 0, len(a.cfg.Regions))
	for key := range a.cfg.Regions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(lower, key) {
			return key, a.cfg.Regions[key], true
		}
	}
	// "America" is common phrasing for the US region.
	if strings.Contains(lower, "america") {
		if r, ok := a.cfg.Regions["us"]; ok {
			return "us", r, true
		}
	}
	return "", store.Region{}, false
}

// filterToRegion keeps only symbols that belong to the region, falling back
// to the region's default symbol when nothing survives.
func filterToRegion(symbols []string, r store.Region) []string {
	members := make(map[string]bool, len(r.Symbols))
	for _, s := range r.Symbols {
		members[strings.ToUpper(s)] = true
	}
	kept := []string{}
	for _, s := range symbols {
		if members[strings.ToUpper(s)] {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return []string{r.Default}
	}
	return kept
}
