package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"finance-assistant/internal/analytics"
	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/marketdata"
	"finance-assistant/internal/store"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	var (
		symbolsFlag = flag.String("symbols", "", "comma-separated symbols or company names")
		regionFlag  = flag.String("region", "", "region for risk mode (asia, us, europe)")
		modeFlag    = flag.String("mode", "summary", "summary | portfolio | risk")
		configFlag  = flag.String("config", "config.yaml", "config file path")
	)
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())

	cfg, err := store.LoadConfig(*configFlag)
	must(err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	resolver := marketdata.NewResolver(cfg.MarketData.SymbolAliases)
	var history interfaces.HistoryProvider = marketdata.NewYahooProvider(resolver)
	if cfg.MarketData.CacheSeconds > 0 {
		history = marketdata.NewCachedHistory(history, time.Duration(cfg.MarketData.CacheSeconds)*time.Second)
	}
	analyzer := analytics.New(cfg, history)

	var symbols []string
	for _, s := range strings.Split(*symbolsFlag, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, resolver.Resolve(s))
		}
	}

	var out any
	switch *modeFlag {
	case "summary":
		if len(symbols) != 1 {
			log.Fatal("summary mode needs exactly one -symbols value")
		}
		out, err = analyzer.SymbolSummary(ctx, symbols[0])
	case "portfolio":
		out, err = analyzer.PortfolioAnalytics(ctx, symbols)
	case "risk":
		out, err = analyzer.RiskExposure(ctx, symbols, *regionFlag)
	default:
		log.Fatalf("unknown mode %q", *modeFlag)
	}
	must(err)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	must(enc.Encode(out))
}
