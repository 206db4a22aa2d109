package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"finance-assistant/internal/store"
	"finance-assistant/internal/trace"
)

// OpenAIAnswerer answers questions through an OpenAI-compatible chat
// completions endpoint. BaseURL from config allows OpenRouter or any
// other compatible gateway.
type OpenAIAnswerer struct {
	cfg *store.Config
}

func NewOpenAIAnswerer(cfg *store.Config) *OpenAIAnswerer {
	return &OpenAIAnswerer{cfg: cfg}
}

func (a *OpenAIAnswerer) Answer(ctx context.Context, question string, contextChunks []string, marketData string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	prompt := buildPrompt(question, contextChunks, marketData)

	body := map[string]any{
		"model":       a.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "system", "content": a.cfg.LLM.System}, {"role": "user", "content": prompt}},
		"temperature": a.cfg.LLM.Temperature,
		"max_tokens":  a.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", a.cfg.LLM.BaseURL+"/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}

func buildPrompt(question string, contextChunks []string, marketData string) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst. Use the following context to answer the question.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(contextChunks, "\n"))
	b.WriteString("\n")
	if marketData != "" {
		b.WriteString("\nLive market data:\n")
		b.WriteString(marketData)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}
