package interfaces

import "context"

// Answerer generates an answer to a financial question given retrieved
// document context and an optional live market data block.
type Answerer interface {
	Answer(ctx context.Context, question string, contextChunks []string, marketData string) (string, error)
}
