package noop

import "context"

// NoopAnswerer is a fallback answerer used when no LLM is configured.
type NoopAnswerer struct{}

// NewNoopAnswerer returns an answerer that always declines.
func NewNoopAnswerer() *NoopAnswerer {
	return &NoopAnswerer{}
}

// Answer implements the Answerer interface without calling any model.
func (a *NoopAnswerer) Answer(ctx context.Context, question string, contextChunks []string, marketData string) (string, error) {
	return "No language model is configured, so I cannot answer that question.", nil
}
