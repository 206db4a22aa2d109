package server

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"finance-assistant/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
	os.Exit(m.Run())
}

func TestFallbackResponse(t *testing.T) {
	f := NewFallback()
	ctx := context.Background()

	resp := f.Response(ctx, ErrTypeAPIError, "price of AAPL", errors.New("connection refused"))

	if resp.Success {
		t.Error("fallback response must not claim success")
	}
	if resp.ErrorType != ErrTypeAPIError {
		t.Errorf("ErrorType = %q, want %q", resp.ErrorType, ErrTypeAPIError)
	}
	if !strings.Contains(resp.Message, "trouble connecting to the data source") {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.OriginalQuery != "price of AAPL" {
		t.Errorf("OriginalQuery = %q", resp.OriginalQuery)
	}
	if resp.Timestamp == "" {
		t.Error("expected a timestamp")
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestFallbackUnknownTypeIsGeneral(t *testing.T) {
	f := NewFallback()

	resp := f.Response(context.Background(), "quantum_error", "", nil)
	if resp.ErrorType != ErrTypeGeneral {
		t.Errorf("ErrorType = %q, want %q", resp.ErrorType, ErrTypeGeneral)
	}
	if !strings.Contains(resp.Message, "Something went wrong") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestAgentFailureMapping(t *testing.T) {
	f := NewFallback()
	ctx := context.Background()

	tests := []struct {
		agent string
		want  string
	}{
		{"market_data_agent", ErrTypeAPIError},
		{"scraper_agent", ErrTypeAPIError},
		{"language_agent", ErrTypeLLMError},
		{"retriever_agent", ErrTypeNoContext},
		{"voice_agent", ErrTypeVoiceError},
		{"analytics_agent", ErrTypeNoData},
		{"mystery_agent", ErrTypeGeneral},
	}

	for _, tt := range tests {
		resp := f.AgentFailure(ctx, tt.agent, "q", nil)
		if resp.ErrorType != tt.want {
			t.Errorf("AgentFailure(%s).ErrorType = %q, want %q", tt.agent, resp.ErrorType, tt.want)
		}
	}
}

func TestRelevantSuggestions(t *testing.T) {
	voice := relevantSuggestions(ErrTypeVoiceError)
	if len(voice) != 1 || !strings.Contains(voice[0], "voice queries") {
		t.Errorf("voice suggestions = %v", voice)
	}

	noCtx := relevantSuggestions(ErrTypeNoContext)
	if len(noCtx) != 3 {
		t.Errorf("no_context should carry 3 suggestions, got %d", len(noCtx))
	}

	generic := relevantSuggestions(ErrTypeTimeout)
	if len(generic) != 2 {
		t.Errorf("generic errors should carry 2 suggestions, got %d", len(generic))
	}
}

func TestIsRateLimited(t *testing.T) {
	f := NewFallback()
	ctx := context.Background()

	if f.IsRateLimited(3, time.Minute) {
		t.Error("fresh fallback must not be rate limited")
	}

	for i := 0; i < 3; i++ {
		f.Response(ctx, ErrTypeGeneral, "", nil)
	}
	if !f.IsRateLimited(3, time.Minute) {
		t.Error("expected rate limiting after 3 errors")
	}

	// A quiet window clears the counter.
	f.mu.Lock()
	f.lastErrorTime = time.Now().Add(-2 * time.Minute)
	f.mu.Unlock()
	if f.IsRateLimited(3, time.Minute) {
		t.Error("expected reset after the window passed")
	}
	if f.IsRateLimited(1, time.Minute) {
		t.Error("counter should be zero after reset")
	}
}

func TestHealth(t *testing.T) {
	f := NewFallback()
	ctx := context.Background()

	h := f.Health()
	if !h.IsHealthy || h.ErrorCount != 0 || h.RateLimited || h.LastErrorTime != "" {
		t.Errorf("fresh health = %+v", h)
	}

	for i := 0; i < 5; i++ {
		f.Response(ctx, ErrTypeGeneral, "", nil)
	}

	h = f.Health()
	if h.IsHealthy {
		t.Error("expected unhealthy at 5 errors")
	}
	if h.ErrorCount != 5 {
		t.Errorf("ErrorCount = %d, want 5", h.ErrorCount)
	}
	if h.LastErrorTime == "" {
		t.Error("expected last error time to be set")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd" {
		t.Errorf("truncate long = %q", got)
	}
}
