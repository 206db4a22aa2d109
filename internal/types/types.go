package types

import "time"

// Bar is one OHLCV bar of a price series, ascending by Ts.
type Bar struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Quote is a point-in-time price snapshot for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Exchange      string    `json:"exchange,omitempty"`
	PreviousClose float64   `json:"previous_close,omitempty"`
	DayChange     float64   `json:"day_change"`
	DayChangePct  float64   `json:"day_change_percent"`
	MarketState   string    `json:"market_state,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// SymbolSummary is the full technical picture for one symbol.
// Indicator fields that need a full trailing window are pointers so an
// undefined value shows up as an omission, never as a zero or NaN.
type SymbolSummary struct {
	Symbol          string   `json:"symbol"`
	CurrentPrice    float64  `json:"current_price"`
	PriceChange1D   float64  `json:"price_change_1d"`
	PriceChange1W   float64  `json:"price_change_1w"`
	PriceChange1M   float64  `json:"price_change_1m"`
	RSI             *float64 `json:"rsi,omitempty"`
	RSISignal       string   `json:"rsi_signal"`
	SMA20           *float64 `json:"sma_20,omitempty"`
	SMA50           *float64 `json:"sma_50,omitempty"`
	TrendSignal     string   `json:"trend_signal"`
	BollingerUpper  *float64 `json:"bollinger_upper,omitempty"`
	BollingerLower  *float64 `json:"bollinger_lower,omitempty"`
	BollingerSignal string   `json:"bollinger_signal"`
	Volatility      *float64 `json:"volatility,omitempty"`
	Beta            float64  `json:"beta"`
	RiskLevel       string   `json:"risk_level"`
}

// RiskReport aggregates risk exposure across a set of symbols.
type RiskReport struct {
	Region            string          `json:"region"`
	StocksAnalyzed    int             `json:"stocks_analyzed"`
	Stocks            []SymbolSummary `json:"stocks"`
	AverageVolatility float64         `json:"average_volatility"`
	AverageBeta       float64         `json:"average_beta"`
	OverallRiskLevel  string          `json:"overall_risk_level"`
	RiskSummary       string          `json:"risk_summary"`
	HighRiskPositions []string        `json:"high_risk_positions"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// PortfolioReport aggregates trend and momentum sentiment across a portfolio.
type PortfolioReport struct {
	TotalPositions  int             `json:"total_positions"`
	BullishTrend    int             `json:"bullish_trend"`
	BearishTrend    int             `json:"bearish_trend"`
	NeutralTrend    int             `json:"neutral_trend"`
	OverboughtCount int             `json:"overbought_count"`
	OversoldCount   int             `json:"oversold_count"`
	Positions       []SymbolSummary `json:"individual_analyses"`
	Sentiment       string          `json:"portfolio_sentiment"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// NewsArticle is one scraped headline.
type NewsArticle struct {
	Ticker      string `json:"ticker"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// EarningsNews is the scraper agent's output for one ticker.
type EarningsNews struct {
	Ticker            string   `json:"ticker"`
	RelevantHeadlines []string `json:"relevant_earnings_news"`
	AllHeadlines      []string `json:"all_news"`
}

// Answer is the language agent's response to a text question.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AudioAnswer extends Answer with the synthesized speech file name.
type AudioAnswer struct {
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	AnswerAudioFile string `json:"answer_audio_file"`
}
