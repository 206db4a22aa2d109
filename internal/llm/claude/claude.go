package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/store"
	"finance-assistant/internal/trace"
)

// ClaudeAnswerer answers questions via the Anthropic Messages API.
type ClaudeAnswerer struct {
	cfg      *store.Config
	endpoint string
}

func NewClaudeAnswerer(cfg *store.Config) *ClaudeAnswerer {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeAnswerer{cfg: cfg, endpoint: endpoint}
}

func (a *ClaudeAnswerer) Answer(ctx context.Context, question string, contextChunks []string, marketData string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		err := errors.New("CLAUDE_API_KEY missing")
		logger.ErrorWithErr(ctx, "Claude API key not configured", err)
		return "", err
	}

	var prompt strings.Builder
	prompt.WriteString("Use the following context to answer the question.\n\nContext:\n")
	prompt.WriteString(strings.Join(contextChunks, "\n"))
	if marketData != "" {
		prompt.WriteString("\n\nLive market data:\n")
		prompt.WriteString(marketData)
	}
	prompt.WriteString("\n\nQuestion: ")
	prompt.WriteString(question)

	reqBody := map[string]any{
		"model":  a.cfg.LLM.Model,
		"system": a.cfg.LLM.System,
		"messages": []map[string]string{
			{"role": "user", "content": prompt.String()},
		},
		"max_tokens":  a.cfg.LLM.MaxTokens,
		"temperature": a.cfg.LLM.Temperature,
	}
	bb, _ := json.Marshal(reqBody)

	logger.Debug(ctx, "Sending request to Claude", "model", a.cfg.LLM.Model, "endpoint", a.endpoint)
	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start)

	if err != nil {
		logger.ErrorWithErr(ctx, "Claude API request failed", err, "latency_ms", latency.Milliseconds())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
		logger.ErrorWithErr(ctx, "Claude API returned error status", err, "status_code", resp.StatusCode)
		return "", err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	answer := strings.TrimSpace(out.String())
	if answer == "" {
		return "", errors.New("empty claude response")
	}

	logger.Debug(ctx, "Claude answer received", "latency_ms", latency.Milliseconds(), "length", len(answer))
	return answer, nil
}
