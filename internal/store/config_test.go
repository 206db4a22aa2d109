package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Server.Addr != ":8001" {
		t.Errorf("Server.Addr = %q, want :8001", cfg.Server.Addr)
	}
	if cfg.MarketData.Provider != "YAHOO" {
		t.Errorf("MarketData.Provider = %q, want YAHOO", cfg.MarketData.Provider)
	}
	if cfg.MarketData.HistoryRange != "6mo" {
		t.Errorf("HistoryRange = %q, want 6mo", cfg.MarketData.HistoryRange)
	}
	if cfg.MarketData.BenchmarkSymbol != "SPY" {
		t.Errorf("BenchmarkSymbol = %q, want SPY", cfg.MarketData.BenchmarkSymbol)
	}
	if cfg.Indicators.RSIPeriod != 14 || cfg.Indicators.SMAShort != 20 || cfg.Indicators.SMALong != 50 {
		t.Errorf("indicator defaults wrong: %+v", cfg.Indicators)
	}
	if cfg.Thresholds.RSIOverbought != 70 || cfg.Thresholds.RSIOversold != 30 {
		t.Errorf("RSI thresholds wrong: %+v", cfg.Thresholds)
	}
	if cfg.Retriever.ChunkSize != 500 || cfg.Retriever.ChunkOverlap != 50 || cfg.Retriever.TopK != 3 {
		t.Errorf("retriever defaults wrong: %+v", cfg.Retriever)
	}
	if cfg.Retriever.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.Retriever.EmbeddingModel)
	}
	if cfg.LLM.Provider != "OPENAI" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM defaults wrong: %+v", cfg.LLM)
	}
	if cfg.Voice.STTModel != "whisper-1" || cfg.Voice.TTSModel != "tts-1" || cfg.Voice.TTSVoice != "alloy" {
		t.Errorf("voice defaults wrong: %+v", cfg.Voice)
	}
	if _, ok := cfg.Regions["asia"]; !ok {
		t.Error("expected default asia region")
	}
	if cfg.Regions["us"].Default != "AAPL" {
		t.Errorf("us region default = %q, want AAPL", cfg.Regions["us"].Default)
	}
}

func TestValidateProvider(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	cfg.MarketData.Provider = "BLOOMBERG"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid market data provider to fail validation")
	}

	cfg.MarketData.Provider = "KITE"
	if err := cfg.Validate(); err != nil {
		t.Errorf("KITE should validate: %v", err)
	}

	cfg.LLM.Provider = "GEMINI"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid llm provider to fail validation")
	}
	for _, p := range []string{"OPENAI", "CLAUDE", "NOOP"} {
		cfg.LLM.Provider = p
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s should validate: %v", p, err)
		}
	}
}

func TestValidateIndicators(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	cfg.Indicators.RSIPeriod = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected negative rsi_period to fail validation")
	}

	cfg.ApplyDefaults()
	cfg.Indicators.RSIPeriod = 14
	cfg.Indicators.SMAShort = 50
	cfg.Indicators.SMALong = 20
	if err := cfg.Validate(); err == nil {
		t.Error("expected sma_short >= sma_long to fail validation")
	}
}

func TestValidateRegionDefault(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Regions["test"] = Region{Symbols: []string{"AAPL"}}

	if err := cfg.Validate(); err == nil {
		t.Error("expected empty region default to fail validation")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":8001" {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
market_data:
  provider: KITE
  history_range: 1y
llm:
  provider: NOOP
regions:
  us:
    symbols: [AAPL]
    default: AAPL
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.MarketData.Provider != "KITE" {
		t.Errorf("Provider = %q, want KITE", cfg.MarketData.Provider)
	}
	if cfg.MarketData.HistoryRange != "1y" {
		t.Errorf("HistoryRange = %q, want 1y", cfg.MarketData.HistoryRange)
	}
	if cfg.LLM.Provider != "NOOP" {
		t.Errorf("LLM.Provider = %q, want NOOP", cfg.LLM.Provider)
	}
	// Untouched sections still pick up defaults.
	if cfg.Indicators.RSIPeriod != 14 {
		t.Errorf("RSIPeriod = %d, want default 14", cfg.Indicators.RSIPeriod)
	}
	if _, ok := cfg.Regions["asia"]; ok {
		t.Error("explicit regions should replace the default table")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "llm:\n  provider: GEMINI\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation failure for unknown llm provider")
	}
}
