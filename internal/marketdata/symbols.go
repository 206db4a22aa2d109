package marketdata

import (
	"math"
	"strings"
)

// defaultAliases maps common company and index names to Yahoo-compatible
// tickers. NSE listings carry the .NS suffix, indices the ^ prefix.
var defaultAliases = map[string]string{
	// NSE stocks
	"infosys":                  "INFY.NS",
	"infy":                     "INFY.NS",
	"tcs":                      "TCS.NS",
	"tata consultancy":         "TCS.NS",
	"tata consultancy services": "TCS.NS",
	"reliance":                 "RELIANCE.NS",
	"reliance industries":      "RELIANCE.NS",
	"wipro":                    "WIPRO.NS",
	"hcl":                      "HCLTECH.NS",
	"hcl tech":                 "HCLTECH.NS",
	"hdfc bank":                "HDFCBANK.NS",
	"hdfc":                     "HDFCBANK.NS",
	"icici bank":               "ICICIBANK.NS",
	"icici":                    "ICICIBANK.NS",
	"sbi":                      "SBIN.NS",
	"state bank":               "SBIN.NS",
	"bharti airtel":            "BHARTIARTL.NS",
	"airtel":                   "BHARTIARTL.NS",
	"kotak":                    "KOTAKBANK.NS",
	"kotak mahindra":           "KOTAKBANK.NS",
	"axis bank":                "AXISBANK.NS",
	"axis":                     "AXISBANK.NS",
	"maruti":                   "MARUTI.NS",
	"maruti suzuki":            "MARUTI.NS",
	"tata motors":              "TATAMOTORS.NS",
	"tata steel":               "TATASTEEL.NS",
	"itc":                      "ITC.NS",
	"asian paints":             "ASIANPAINT.NS",
	"bajaj finance":            "BAJFINANCE.NS",
	"larsen":                   "LT.NS",
	"l&t":                      "LT.NS",
	"sun pharma":               "SUNPHARMA.NS",
	"hindalco":                 "HINDALCO.NS",
	"tech mahindra":            "TECHM.NS",
	"power grid":               "POWERGRID.NS",
	"ntpc":                     "NTPC.NS",
	"ongc":                     "ONGC.NS",
	"ultratech":                "ULTRACEMCO.NS",

	// Indian indices
	"nifty":      "^NSEI",
	"nifty50":    "^NSEI",
	"nifty 50":   "^NSEI",
	"sensex":     "^BSESN",
	"bse sensex": "^BSESN",
	"bank nifty": "^NSEBANK",
	"nifty bank": "^NSEBANK",

	// US stocks
	"apple":      "AAPL",
	"aapl":       "AAPL",
	"microsoft":  "MSFT",
	"msft":       "MSFT",
	"google":     "GOOGL",
	"alphabet":   "GOOGL",
	"googl":      "GOOGL",
	"amazon":     "AMZN",
	"amzn":       "AMZN",
	"tesla":      "TSLA",
	"tsla":       "TSLA",
	"nvidia":     "NVDA",
	"nvda":       "NVDA",
	"meta":       "META",
	"facebook":   "META",
	"netflix":    "NFLX",
	"nflx":       "NFLX",
	"intel":      "INTC",
	"intc":       "INTC",
	"amd":        "AMD",
	"tsmc":       "TSM",
	"tsm":        "TSM",
	"qualcomm":   "QCOM",
	"qcom":       "QCOM",
	"broadcom":   "AVGO",
	"avgo":       "AVGO",
	"adobe":      "ADBE",
	"salesforce": "CRM",
	"cisco":      "CSCO",
	"oracle":     "ORCL",
	"ibm":        "IBM",
	"paypal":     "PYPL",
	"uber":       "UBER",
	"zoom":       "ZM",
	"spotify":    "SPOT",

	// US indices
	"dow":              "^DJI",
	"dow jones":        "^DJI",
	"s&p":              "^GSPC",
	"s&p 500":          "^GSPC",
	"sp500":            "^GSPC",
	"nasdaq":           "^IXIC",
	"nasdaq composite": "^IXIC",
	"russell":          "^RUT",
	"russell 2000":     "^RUT",

	// Other global
	"samsung": "005930.KS",
}

// Resolver maps free-form names or tickers to Yahoo-compatible symbols.
type Resolver struct {
	aliases map[string]string
}

// NewResolver builds a resolver from the default alias table merged with
// any config-supplied extras. Extras win on collision.
func NewResolver(extra map[string]string) *Resolver {
	aliases := make(map[string]string, len(defaultAliases)+len(extra))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[strings.ToLower(k)] = v
	}
	return &Resolver{aliases: aliases}
}

// Resolve maps a name or ticker to a Yahoo symbol. Known aliases resolve
// through the table; anything already shaped like a ticker passes through
// uppercased.
func (r *Resolver) Resolve(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if sym, ok := r.aliases[q]; ok {
		return sym
	}
	return strings.ToUpper(strings.TrimSpace(query))
}

// Lookup is Resolve without the passthrough: it reports whether the query
// names something in the alias table.
func (r *Resolver) Lookup(query string) (string, bool) {
	sym, ok := r.aliases[strings.ToLower(strings.TrimSpace(query))]
	return sym, ok
}

// DetectSymbol scans a question for the first recognizable company name,
// index alias or uppercase ticker. Two-word aliases ("tata motors",
// "dow jones") are tried before single words.
func (r *Resolver) DetectSymbol(question string) (string, bool) {
	cleaned := strings.Map(func(c rune) rune {
		switch c {
		case '?', '!', ',', '.', ';', ':', '"', '\'':
			return ' '
		}
		return c
	}, question)
	words := strings.Fields(cleaned)

	for i := 0; i < len(words)-1; i++ {
		if sym, ok := r.Lookup(words[i] + " " + words[i+1]); ok {
			return sym, true
		}
	}
	for _, w := range words {
		if sym, ok := r.Lookup(w); ok {
			return sym, true
		}
	}
	for _, w := range words {
		if len(w) >= 2 && len(w) <= 5 && w == strings.ToUpper(w) && isAlpha(w) && !tickerStopwords[w] {
			return w, true
		}
	}
	return "", false
}

// All-caps finance jargon that looks like a ticker but isn't one.
var tickerStopwords = map[string]bool{
	"RSI": true, "SMA": true, "EMA": true, "ETF": true, "IPO": true,
	"EPS": true, "USD": true, "INR": true, "EUR": true, "API": true,
	"CEO": true, "CFO": true, "YOY": true, "QOQ": true, "OK": true,
}

func isAlpha(s string) bool {
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
