package llmobs

import (
	"context"

	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/trace"
)

// observableAnswerer wraps an Answerer with observability (logging & tracing)
type observableAnswerer struct {
	answerer interfaces.Answerer
}

// Compile-time interface check
var _ interfaces.Answerer = (*observableAnswerer)(nil)

// Wrap wraps an answerer with observability middleware
func Wrap(answerer interfaces.Answerer) interfaces.Answerer {
	return &observableAnswerer{
		answerer: answerer,
	}
}

// Answer generates an answer with observability
func (oa *observableAnswerer) Answer(ctx context.Context, question string, contextChunks []string, marketData string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Answer")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting answer",
		"question_length", len(question),
		"context_chunks", len(contextChunks),
		"has_market_data", marketData != "",
	)

	answer, err := oa.answerer.Answer(ctx, question, contextChunks, marketData)
	if err != nil {
		// Use ErrorWithErrSkip(1) to report the actual caller
		logger.ErrorWithErrSkip(ctx, 1, "Failed to generate answer", err,
			"question_length", len(question),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Answer generated",
		"question_length", len(question),
		"answer_length", len(answer),
	)

	return answer, nil
}
