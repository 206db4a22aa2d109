package marketdata

import "testing"

func TestResolveAliases(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		query string
		want  string
	}{
		{"Infosys", "INFY.NS"},
		{"tata consultancy services", "TCS.NS"},
		{"reliance", "RELIANCE.NS"},
		{"nifty 50", "^NSEI"},
		{"Sensex", "^BSESN"},
		{"apple", "AAPL"},
		{"s&p 500", "^GSPC"},
		{"samsung", "005930.KS"},
		{"  Tesla  ", "TSLA"},
	}

	for _, tt := range tests {
		if got := r.Resolve(tt.query); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestResolvePassthrough(t *testing.T) {
	r := NewResolver(nil)

	// Unknown tickers pass through uppercased.
	if got := r.Resolve("brk.b"); got != "BRK.B" {
		t.Errorf("Resolve(brk.b) = %q, want BRK.B", got)
	}
	if got := r.Resolve("VOD.L"); got != "VOD.L" {
		t.Errorf("Resolve(VOD.L) = %q, want VOD.L", got)
	}
}

func TestResolverExtrasWin(t *testing.T) {
	r := NewResolver(map[string]string{
		"Apple":  "AAPL.MX",
		"mycorp": "MYC.NS",
	})

	if got := r.Resolve("apple"); got != "AAPL.MX" {
		t.Errorf("config alias should override the default, got %q", got)
	}
	if got := r.Resolve("mycorp"); got != "MYC.NS" {
		t.Errorf("Resolve(mycorp) = %q, want MYC.NS", got)
	}
}

func TestLookupNoPassthrough(t *testing.T) {
	r := NewResolver(nil)

	if _, ok := r.Lookup("XYZZY"); ok {
		t.Error("Lookup should not pass unknown queries through")
	}
	if sym, ok := r.Lookup("microsoft"); !ok || sym != "MSFT" {
		t.Errorf("Lookup(microsoft) = %q, %v", sym, ok)
	}
}

func TestDetectSymbol(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		question string
		want     string
		found    bool
	}{
		{"What is the price of Infosys today?", "INFY.NS", true},
		{"How are Tata Motors doing?", "TATAMOTORS.NS", true},
		{"Is the Dow Jones up?", "^DJI", true},
		{"Should I buy AAPL right now?", "AAPL", true},
		{"What does the RSI indicate?", "", false},
		{"Is the CEO of IBM stepping down?", "IBM", true},
		{"How do interest rates affect bonds?", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, found := r.DetectSymbol(tt.question)
		if found != tt.found || got != tt.want {
			t.Errorf("DetectSymbol(%q) = %q, %v; want %q, %v",
				tt.question, got, found, tt.want, tt.found)
		}
	}
}

func TestDetectSymbolPrefersTwoWordAlias(t *testing.T) {
	r := NewResolver(nil)

	// "bank nifty" must match as a pair before "nifty" alone would.
	got, found := r.DetectSymbol("where is bank nifty headed")
	if !found || got != "^NSEBANK" {
		t.Errorf("DetectSymbol = %q, %v; want ^NSEBANK, true", got, found)
	}
}
