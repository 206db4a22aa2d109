package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finance-assistant/internal/analytics"
	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/llm"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/marketdata"
	"finance-assistant/internal/news"
	"finance-assistant/internal/qalog"
	"finance-assistant/internal/retriever"
	"finance-assistant/internal/server"
	"finance-assistant/internal/store"
	"finance-assistant/internal/voice"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	must(logger.Init())

	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.QALog.Dir != "" {
		os.Setenv("QA_LOG_DIR", cfg.QALog.Dir)
	}
	_ = qalog.CompressOlder(cfg.QALog.RetentionDays)

	resolver := marketdata.NewResolver(cfg.MarketData.SymbolAliases)
	yahoo := marketdata.NewYahooProvider(resolver)

	var history interfaces.HistoryProvider = yahoo
	if cfg.MarketData.Provider == "KITE" {
		history = marketdata.NewKiteProvider(
			os.Getenv(cfg.MarketData.Kite.APIKeyEnv),
			os.Getenv(cfg.MarketData.Kite.AccessTokenEnv),
			cfg.MarketData.Kite.Interval,
			cfg.MarketData.Kite.InstrumentTokens,
		)
	}
	if cfg.MarketData.CacheSeconds > 0 {
		history = marketdata.NewCachedHistory(history, time.Duration(cfg.MarketData.CacheSeconds)*time.Second)
	}

	analyzer := analytics.New(cfg, history)

	embedder := retriever.NewOpenAIEmbedder(cfg.Retriever.EmbeddingModel)
	vstore := retriever.NewVectorStore()
	ingestor := retriever.NewIngestor(embedder, vstore, cfg.Retriever.ChunkSize, cfg.Retriever.ChunkOverlap)
	if err := ingestor.IngestFiles(ctx, cfg.Retriever.Files); err != nil {
		logger.Warn(ctx, "Document ingestion incomplete", "error", err)
	}
	for _, u := range cfg.Retriever.URLs {
		if err := ingestor.IngestURL(ctx, u); err != nil {
			logger.Warn(ctx, "URL ingestion failed", "url", u, "error", err)
		}
	}
	ret := retriever.New(embedder, vstore, cfg.Retriever.TopK)

	answerer := llm.NewAnswerer(cfg)

	var transcriber interfaces.Transcriber
	var synthesizer interfaces.Synthesizer
	if cfg.Voice.Enabled {
		agent := voice.NewAgent(cfg)
		transcriber = agent
		synthesizer = agent
	}

	newsSvc := news.NewService(&news.ServiceConfig{
		MaxHeadlines:   cfg.News.MaxHeadlines,
		CacheDuration:  time.Duration(cfg.News.CacheSeconds) * time.Second,
		ScraperTimeout: 10 * time.Second,
	})

	handler := server.NewHandler(cfg, yahoo, analyzer, ret, answerer, transcriber, synthesizer, newsSvc, resolver)
	router := server.SetupRoutes(handler, cfg.Server.AllowOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "Orchestrator started", "addr", cfg.Server.Addr, "market_data", cfg.MarketData.Provider, "llm", cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Server failed", err)
			cancel()
		}
	}()

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Server shutdown failed", err)
	}
	_ = logger.Shutdown(shutdownCtx)
}
