package interfaces

import (
	"context"

	"finance-assistant/internal/types"
)

// HistoryProvider supplies an ordered OHLCV series for a symbol.
// An unknown symbol or upstream failure is reported as marketdata.ErrNoData,
// never as a panic or a partial series.
type HistoryProvider interface {
	History(ctx context.Context, symbol, rng string) ([]types.Bar, error)
}

// QuoteProvider supplies a real-time price snapshot for a symbol or
// a common company name ("Infosys", "nifty 50").
type QuoteProvider interface {
	Quote(ctx context.Context, symbolOrName string) (types.Quote, error)
}
