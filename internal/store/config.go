package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr         string `yaml:"addr"`
		AudioDir     string `yaml:"audio_dir"`
		AllowOrigins string `yaml:"allow_origins"`
	} `yaml:"server"`
	MarketData struct {
		Provider        string            `yaml:"provider"` // YAHOO or KITE
		HistoryRange    string            `yaml:"history_range"`
		BenchmarkSymbol string            `yaml:"benchmark_symbol"`
		CacheSeconds    int               `yaml:"cache_seconds"`
		Kite            struct {
			APIKeyEnv        string         `yaml:"api_key_env"`
			AccessTokenEnv   string         `yaml:"access_token_env"`
			Interval         string         `yaml:"interval"`
			InstrumentTokens map[string]int `yaml:"instrument_tokens"`
		} `yaml:"kite"`
		SymbolAliases map[string]string `yaml:"symbol_aliases"`
	} `yaml:"market_data"`
	Indicators struct {
		RSIPeriod  int     `yaml:"rsi_period"`
		SMAShort   int     `yaml:"sma_short"`
		SMALong    int     `yaml:"sma_long"`
		BBWindow   int     `yaml:"bb_window"`
		BBStdDev   float64 `yaml:"bb_stddev"`
		VolWindow  int     `yaml:"vol_window"`
		BetaWindow int     `yaml:"beta_window"`
	} `yaml:"indicators"`
	Thresholds struct {
		RSIOverbought   float64 `yaml:"rsi_overbought"`
		RSIOversold     float64 `yaml:"rsi_oversold"`
		BandUpperRatio  float64 `yaml:"band_upper_ratio"`
		BandLowerRatio  float64 `yaml:"band_lower_ratio"`
		VolHigh         float64 `yaml:"vol_high"`
		VolMedium       float64 `yaml:"vol_medium"`
		BetaHigh        float64 `yaml:"beta_high"`
		BetaMedium      float64 `yaml:"beta_medium"`
		AvgVolElevated  float64 `yaml:"avg_vol_elevated"`
		AvgBetaElevated float64 `yaml:"avg_beta_elevated"`
	} `yaml:"thresholds"`
	Regions map[string]Region `yaml:"regions"`
	Retriever struct {
		Files          []string `yaml:"files"`
		URLs           []string `yaml:"urls"`
		ChunkSize      int      `yaml:"chunk_size"`
		ChunkOverlap   int      `yaml:"chunk_overlap"`
		TopK           int      `yaml:"top_k"`
		EmbeddingModel string   `yaml:"embedding_model"`
	} `yaml:"retriever"`
	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or NOOP
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
	} `yaml:"llm"`
	Voice struct {
		Enabled  bool   `yaml:"enabled"`
		STTModel string `yaml:"stt_model"`
		TTSModel string `yaml:"tts_model"`
		TTSVoice string `yaml:"tts_voice"`
	} `yaml:"voice"`
	News struct {
		MaxHeadlines int `yaml:"max_headlines"`
		CacheSeconds int `yaml:"cache_seconds"`
	} `yaml:"news"`
	QALog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"qalog"`
}

func (c *Config) Validate() error {
	if c.MarketData.Provider != "YAHOO" && c.MarketData.Provider != "KITE" {
		return fmt.Errorf("invalid market_data.provider '%s': must be 'YAHOO' or 'KITE'", c.MarketData.Provider)
	}
	if c.LLM.Provider != "OPENAI" && c.LLM.Provider != "CLAUDE" && c.LLM.Provider != "NOOP" {
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI', 'CLAUDE' or 'NOOP'", c.LLM.Provider)
	}
	if c.Indicators.RSIPeriod <= 0 {
		return fmt.Errorf("indicators.rsi_period must be positive, got %d", c.Indicators.RSIPeriod)
	}
	if c.Indicators.SMAShort >= c.Indicators.SMALong {
		return fmt.Errorf("indicators.sma_short (%d) must be below sma_long (%d)",
			c.Indicators.SMAShort, c.Indicators.SMALong)
	}
	for name, r := range c.Regions {
		if r.Default == "" {
			return fmt.Errorf("regions.%s.default cannot be empty", name)
		}
	}
	return nil
}

// ApplyDefaults fills every zero field with the stock configuration the
// original deployment ran with. The threshold constants are empirical and
// carried as-is.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8001"
	}
	if c.Server.AudioDir == "" {
		c.Server.AudioDir = "audio"
	}
	if c.Server.AllowOrigins == "" {
		c.Server.AllowOrigins = "*"
	}
	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "YAHOO"
	}
	if c.MarketData.HistoryRange == "" {
		c.MarketData.HistoryRange = "6mo"
	}
	if c.MarketData.BenchmarkSymbol == "" {
		c.MarketData.BenchmarkSymbol = "SPY"
	}
	if c.MarketData.CacheSeconds == 0 {
		c.MarketData.CacheSeconds = 300
	}
	if c.MarketData.Kite.Interval == "" {
		c.MarketData.Kite.Interval = "day"
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.SMAShort == 0 {
		c.Indicators.SMAShort = 20
	}
	if c.Indicators.SMALong == 0 {
		c.Indicators.SMALong = 50
	}
	if c.Indicators.BBWindow == 0 {
		c.Indicators.BBWindow = 20
	}
	if c.Indicators.BBStdDev == 0 {
		c.Indicators.BBStdDev = 2.0
	}
	if c.Indicators.VolWindow == 0 {
		c.Indicators.VolWindow = 20
	}
	if c.Indicators.BetaWindow == 0 {
		c.Indicators.BetaWindow = 60
	}
	if c.Thresholds.RSIOverbought == 0 {
		c.Thresholds.RSIOverbought = 70
	}
	if c.Thresholds.RSIOversold == 0 {
		c.Thresholds.RSIOversold = 30
	}
	if c.Thresholds.BandUpperRatio == 0 {
		c.Thresholds.BandUpperRatio = 0.98
	}
	if c.Thresholds.BandLowerRatio == 0 {
		c.Thresholds.BandLowerRatio = 1.02
	}
	if c.Thresholds.VolHigh == 0 {
		c.Thresholds.VolHigh = 30
	}
	if c.Thresholds.VolMedium == 0 {
		c.Thresholds.VolMedium = 20
	}
	if c.Thresholds.BetaHigh == 0 {
		c.Thresholds.BetaHigh = 1.5
	}
	if c.Thresholds.BetaMedium == 0 {
		c.Thresholds.BetaMedium = 1.0
	}
	if c.Thresholds.AvgVolElevated == 0 {
		c.Thresholds.AvgVolElevated = 25
	}
	if c.Thresholds.AvgBetaElevated == 0 {
		c.Thresholds.AvgBetaElevated = 1.2
	}
	if c.Regions == nil {
		c.Regions = defaultRegions()
	}
	if c.Retriever.ChunkSize == 0 {
		c.Retriever.ChunkSize = 500
	}
	if c.Retriever.ChunkOverlap == 0 {
		c.Retriever.ChunkOverlap = 50
	}
	if c.Retriever.TopK == 0 {
		c.Retriever.TopK = 3
	}
	if c.Retriever.EmbeddingModel == "" {
		c.Retriever.EmbeddingModel = "text-embedding-3-small"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "OPENAI"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 512
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.System == "" {
		c.LLM.System = "You are a financial analyst. Answer using only the supplied context and market data."
	}
	if c.Voice.STTModel == "" {
		c.Voice.STTModel = "whisper-1"
	}
	if c.Voice.TTSModel == "" {
		c.Voice.TTSModel = "tts-1"
	}
	if c.Voice.TTSVoice == "" {
		c.Voice.TTSVoice = "alloy"
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.CacheSeconds == 0 {
		c.News.CacheSeconds = 900
	}
	if c.QALog.Dir == "" {
		c.QALog.Dir = "logs"
	}
	if c.QALog.RetentionDays == 0 {
		c.QALog.RetentionDays = 30
	}
}

// Region is one entry of the fixed region → symbol-set table. Default is
// the fallback symbol used when a filter leaves the region empty.
type Region struct {
	Symbols []string `yaml:"symbols"`
	Default string   `yaml:"default"`
}

func defaultRegions() map[string]Region {
	return map[string]Region{
		"asia": {
			Symbols: []string{"TSM", "2330.TW", "SSNLF", "005930.KS", "BABA", "BIDU", "9988.HK"},
			Default: "TSM",
		},
		"us": {
			Symbols: []string{"AAPL", "MSFT", "GOOGL", "META", "NVDA", "AMD", "INTC"},
			Default: "AAPL",
		},
		"europe": {
			Symbols: []string{"ASML", "SAP", "SHOP"},
			Default: "ASML",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err == nil {
		if uerr := yaml.Unmarshal(b, &c); uerr != nil {
			return nil, uerr
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	c.ApplyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
