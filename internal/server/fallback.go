package server

import (
	"context"
	"sync"
	"time"

	"finance-assistant/internal/logger"
)

// Fallback error types.
const (
	ErrTypeNoContext    = "no_context"
	ErrTypeAPIError     = "api_error"
	ErrTypeLLMError     = "llm_error"
	ErrTypeVoiceError   = "voice_error"
	ErrTypeTimeout      = "timeout"
	ErrTypeInvalidInput = "invalid_input"
	ErrTypeNoData       = "no_data"
	ErrTypeGeneral      = "general"
)

// defaultResponses maps error types to user-facing messages.
var defaultResponses = map[string]string{
	ErrTypeNoContext: "I couldn't find specific information about that topic in my knowledge base. " +
		"Please try rephrasing your question or ask about a different topic.",
	ErrTypeAPIError: "I'm having trouble connecting to the data source right now. " +
		"Please try again in a few moments.",
	ErrTypeLLMError: "I encountered an issue while generating a response. " +
		"Please try again or simplify your question.",
	ErrTypeVoiceError: "I had trouble processing the audio. " +
		"Please make sure the recording is clear and try again.",
	ErrTypeTimeout: "The request took too long to process. " +
		"Please try a simpler query or try again later.",
	ErrTypeInvalidInput: "I couldn't understand your request. " +
		"Please provide a clear financial question.",
	ErrTypeNoData: "No market data is available for that symbol or time period. " +
		"Please check the ticker symbol and try again.",
	ErrTypeGeneral: "Something went wrong while processing your request. " +
		"Please try again later or contact support.",
}

// suggestions offered alongside fallback messages.
var suggestions = []string{
	"Try asking about specific stock tickers like AAPL, TSMC, or MSFT",
	"Ask about earnings reports, price trends, or market analysis",
	"You can ask questions like 'What is the RSI for Apple?' or 'Did TSMC beat earnings?'",
	"For voice queries, speak clearly and avoid background noise",
}

// agentErrorTypes maps a failed agent to the fallback error type shown
// to the user.
var agentErrorTypes = map[string]string{
	"market_data_agent": ErrTypeAPIError,
	"scraper_agent":     ErrTypeAPIError,
	"language_agent":    ErrTypeLLMError,
	"retriever_agent":   ErrTypeNoContext,
	"voice_agent":       ErrTypeVoiceError,
	"analytics_agent":   ErrTypeNoData,
}

// FallbackResponse is the JSON body returned when an agent fails.
type FallbackResponse struct {
	Success       bool     `json:"success"`
	ErrorType     string   `json:"error_type"`
	Message       string   `json:"message"`
	Timestamp     string   `json:"timestamp"`
	OriginalQuery string   `json:"original_query,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

// Fallback produces graceful default responses when agents fail and
// tracks error frequency for health reporting.
type Fallback struct {
	mu            sync.Mutex
	errorCount    int
	lastErrorTime time.Time
}

func NewFallback() *Fallback {
	return &Fallback{}
}

// Response builds the fallback body for an error type.
func (f *Fallback) Response(ctx context.Context, errType, query string, cause error) FallbackResponse {
	f.recordError(ctx, errType, query, cause)

	msg, ok := defaultResponses[errType]
	if !ok {
		errType = ErrTypeGeneral
		msg = defaultResponses[ErrTypeGeneral]
	}

	return FallbackResponse{
		Success:       false,
		ErrorType:     errType,
		Message:       msg,
		Timestamp:     time.Now().Format(time.RFC3339),
		OriginalQuery: query,
		Suggestions:   relevantSuggestions(errType),
	}
}

// AgentFailure builds the fallback body for a named agent's failure.
func (f *Fallback) AgentFailure(ctx context.Context, agent, query string, cause error) FallbackResponse {
	errType, ok := agentErrorTypes[agent]
	if !ok {
		errType = ErrTypeGeneral
	}
	return f.Response(ctx, errType, query, cause)
}

func (f *Fallback) recordError(ctx context.Context, errType, query string, cause error) {
	f.mu.Lock()
	f.errorCount++
	f.lastErrorTime = time.Now()
	f.mu.Unlock()

	args := []any{"error_type", errType}
	if query != "" {
		args = append(args, "query", truncate(query, 100))
	}
	if cause != nil {
		args = append(args, "cause", truncate(cause.Error(), 200))
	}
	logger.Warn(ctx, "Fallback triggered", args...)
}

func relevantSuggestions(errType string) []string {
	switch errType {
	case ErrTypeVoiceError:
		return []string{suggestions[3]}
	case ErrTypeNoContext, ErrTypeNoData:
		return suggestions[:3]
	default:
		return []string{suggestions[0], suggestions[1]}
	}
}

// IsRateLimited reports whether too many errors occurred inside the
// window. A quiet window resets the counter.
func (f *Fallback) IsRateLimited(maxErrors int, window time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lastErrorTime.IsZero() {
		return false
	}
	if time.Since(f.lastErrorTime) > window {
		f.errorCount = 0
		return false
	}
	return f.errorCount >= maxErrors
}

// HealthStatus summarizes the fallback handler's recent error activity.
type HealthStatus struct {
	ErrorCount    int    `json:"error_count"`
	LastErrorTime string `json:"last_error_time,omitempty"`
	IsHealthy     bool   `json:"is_healthy"`
	RateLimited   bool   `json:"rate_limited"`
}

func (f *Fallback) Health() HealthStatus {
	rateLimited := f.IsRateLimited(10, time.Minute)

	f.mu.Lock()
	defer f.mu.Unlock()

	status := HealthStatus{
		ErrorCount:  f.errorCount,
		IsHealthy:   f.errorCount < 5,
		RateLimited: rateLimited,
	}
	if !f.lastErrorTime.IsZero() {
		status.LastErrorTime = f.lastErrorTime.Format(time.RFC3339)
	}
	return status
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
