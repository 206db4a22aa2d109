package llm

import (
	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/llm/claude"
	"finance-assistant/internal/llm/llmobs"
	"finance-assistant/internal/llm/noop"
	"finance-assistant/internal/llm/openai"
	"finance-assistant/internal/store"
)

// NewAnswerer builds the configured answerer wrapped with observability
// middleware. Unknown providers fall back to the noop answerer.
func NewAnswerer(cfg *store.Config) interfaces.Answerer {
	var a interfaces.Answerer
	switch cfg.LLM.Provider {
	case "OPENAI":
		a = openai.NewOpenAIAnswerer(cfg)
	case "CLAUDE":
		a = claude.NewClaudeAnswerer(cfg)
	default:
		a = noop.NewNoopAnswerer()
	}
	return llmobs.Wrap(a)
}
