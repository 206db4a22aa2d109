package analytics

// Categorical signal labels derived from indicator values.
const (
	SignalOverbought = "Overbought"
	SignalOversold   = "Oversold"
	SignalNeutral    = "Neutral"

	SignalBullish = "Bullish"
	SignalBearish = "Bearish"

	SignalNearUpper   = "Near Upper"
	SignalNearLower   = "Near Lower"
	SignalWithinBands = "Within Bands"
	SignalUnknown     = "Unknown"

	RiskLow        = "Low"
	RiskMedium     = "Medium"
	RiskHigh       = "High"
	RiskLowMedium  = "Low-Medium"
	RiskMediumHigh = "Medium-High"

	SentimentMixed = "Mixed"
)

// RSISignal labels momentum from the latest RSI value. Threshold
// comparisons are strict; equality falls through to the milder label.
// An undefined RSI (short history) is Neutral.
func RSISignal(rsi *float64, overbought, oversold float64) string {
	if rsi == nil {
		return SignalNeutral
	}
	switch {
	case *rsi > overbought:
		return SignalOverbought
	case *rsi < oversold:
		return SignalOversold
	default:
		return SignalNeutral
	}
}

// TrendSignal compares the short and long simple moving averages.
// Either average being undefined yields Neutral.
func TrendSignal(smaShort, smaLong *float64) string {
	if smaShort == nil || smaLong == nil {
		return SignalNeutral
	}
	switch {
	case *smaShort > *smaLong:
		return SignalBullish
	case *smaShort < *smaLong:
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// BollingerSignal flags the current price approaching either band. The
// upper/lower ratios (0.98 and 1.02 in the stock configuration) widen the
// proximity zone slightly inside the bands.
func BollingerSignal(price float64, upper, lower *float64, upperRatio, lowerRatio float64) string {
	if upper == nil || lower == nil {
		return SignalUnknown
	}
	switch {
	case price > *upper*upperRatio:
		return SignalNearUpper
	case price < *lower*lowerRatio:
		return SignalNearLower
	default:
		return SignalWithinBands
	}
}

// RiskLevel classifies a symbol by annualized volatility and beta.
// Severity is monotonic in both inputs; an undefined volatility leaves the
// classification to beta alone.
func RiskLevel(volatility *float64, beta float64, volHigh, volMedium, betaHigh, betaMedium float64) string {
	vol := 0.0
	if volatility != nil {
		vol = *volatility
	}
	switch {
	case vol > volHigh || beta > betaHigh:
		return RiskHigh
	case vol > volMedium || beta > betaMedium:
		return RiskMedium
	default:
		return RiskLow
	}
}
