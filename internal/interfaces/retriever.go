package interfaces

import "context"

// Retriever returns the top-k document chunks most relevant to a query.
type Retriever interface {
	TopChunks(ctx context.Context, query string, k int) ([]string, error)
}
