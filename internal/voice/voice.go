// Package voice converts speech to text and answer text to speech via
// the OpenAI audio endpoints.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/store"
	"finance-assistant/internal/trace"
)

const apiBaseURL = "https://api.openai.com/v1"

// Agent implements interfaces.Transcriber and interfaces.Synthesizer.
type Agent struct {
	cfg    *store.Config
	client *http.Client
}

func NewAgent(cfg *store.Config) *Agent {
	return &Agent{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Transcribe sends audio to the Whisper transcription endpoint and
// returns the recognized text.
func (a *Agent) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "whisper-transcribe")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to buffer audio: %w", err)
	}
	if err := w.WriteField("model", a.cfg.Voice.STTModel); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", apiBaseURL+"/audio/transcriptions", &buf)
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Whisper request failed", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("whisper http %d: %s", resp.StatusCode, string(body))
	}

	var r struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	text := strings.TrimSpace(r.Text)
	if text == "" {
		return "", errors.New("empty transcription")
	}

	logger.Info(ctx, "Audio transcribed", "latency_ms", time.Since(start).Milliseconds(), "text_length", len(text))
	return text, nil
}

// Synthesize converts text into spoken mp3 audio.
func (a *Agent) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "tts-synthesize")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model":           a.cfg.Voice.TTSModel,
		"voice":           a.cfg.Voice.TTSVoice,
		"input":           text,
		"response_format": "mp3",
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", apiBaseURL+"/audio/speech", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		logger.ErrorWithErr(ctx, "TTS request failed", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts http %d: %s", resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("empty audio response")
	}

	logger.Info(ctx, "Speech synthesized", "latency_ms", time.Since(start).Milliseconds(), "bytes", len(audio))
	return audio, nil
}
