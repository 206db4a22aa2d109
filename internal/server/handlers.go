package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"finance-assistant/internal/analytics"
	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/marketdata"
	"finance-assistant/internal/news"
	"finance-assistant/internal/qalog"
	"finance-assistant/internal/store"
	"finance-assistant/internal/trace"
)

// maxAudioUpload caps /ask_audio uploads at 25 MB, the Whisper limit.
const maxAudioUpload = 25 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cfg         *store.Config
	quotes      interfaces.QuoteProvider
	analyzer    *analytics.Analyzer
	retriever   interfaces.Retriever
	answerer    interfaces.Answerer
	transcriber interfaces.Transcriber
	synthesizer interfaces.Synthesizer
	newsSvc     *news.Service
	resolver    *marketdata.Resolver
	fallback    *Fallback
}

// NewHandler creates a new Handler. Transcriber and synthesizer may be
// nil when voice support is disabled.
func NewHandler(
	cfg *store.Config,
	quotes interfaces.QuoteProvider,
	analyzer *analytics.Analyzer,
	retriever interfaces.Retriever,
	answerer interfaces.Answerer,
	transcriber interfaces.Transcriber,
	synthesizer interfaces.Synthesizer,
	newsSvc *news.Service,
	resolver *marketdata.Resolver,
) *Handler {
	return &Handler{
		cfg:         cfg,
		quotes:      quotes,
		analyzer:    analyzer,
		retriever:   retriever,
		answerer:    answerer,
		transcriber: transcriber,
		synthesizer: synthesizer,
		newsSvc:     newsSvc,
		resolver:    resolver,
		fallback:    NewFallback(),
	}
}

// Root handles GET / as a health check.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"service":  "Finance Assistant Orchestrator",
		"fallback": h.fallback.Health(),
	})
}

// AskLLM handles POST /ask_llm: answer a text question with RAG and
// optional live market data.
func (h *Handler) AskLLM(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "ask-llm")
	defer span.End()

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		respondJSON(w, http.StatusBadRequest, h.fallback.Response(ctx, ErrTypeInvalidInput, "", err))
		return
	}
	question := strings.TrimSpace(req.Question)

	logger.Info(ctx, "Processing question", "question", truncate(question, 100))

	answer, fb := h.answerQuestion(ctx, question)
	if fb != nil {
		respondJSON(w, http.StatusOK, fb)
		return
	}

	logger.QA(ctx, truncate(question, 100), len(answer))
	if err := qalog.Append(qalog.Entry{Question: question, Answer: answer}); err != nil {
		logger.Warn(ctx, "Failed to append QA log", "error", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"question": question,
		"answer":   answer,
	})
}

// answerQuestion runs the retrieval + market data + LLM pipeline.
// A non-nil FallbackResponse means the pipeline failed.
func (h *Handler) answerQuestion(ctx context.Context, question string) (string, *FallbackResponse) {
	chunks, err := h.retriever.TopChunks(ctx, question, h.cfg.Retriever.TopK)
	if err != nil {
		fb := h.fallback.AgentFailure(ctx, "retriever_agent", question, err)
		return "", &fb
	}

	marketData := h.marketDataBlock(ctx, question)

	answer, err := h.answerer.Answer(ctx, question, chunks, marketData)
	if err != nil {
		fb := h.fallback.AgentFailure(ctx, "language_agent", question, err)
		return "", &fb
	}
	return answer, nil
}

// marketDataBlock fetches a quote for any symbol mentioned in the
// question. Failures degrade to an empty block, never an error.
func (h *Handler) marketDataBlock(ctx context.Context, question string) string {
	symbol, ok := h.resolver.DetectSymbol(question)
	if !ok {
		return ""
	}

	quote, err := h.quotes.Quote(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Quote lookup for question failed", "symbol", symbol, "error", err)
		return ""
	}

	return fmt.Sprintf("%s (%s): %.2f %s, day change %+.2f (%+.2f%%)",
		quote.Symbol, quote.Exchange, quote.Price, quote.Currency, quote.DayChange, quote.DayChangePct)
}

// AskAudio handles POST /ask_audio: transcribe an uploaded recording,
// answer it, and synthesize the answer to an mp3.
func (h *Handler) AskAudio(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "ask-audio")
	defer span.End()

	if h.transcriber == nil || h.synthesizer == nil {
		respondJSON(w, http.StatusServiceUnavailable, h.fallback.Response(ctx, ErrTypeVoiceError, "", errors.New("voice support disabled")))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	file, header, err := r.FormFile("audio_file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, h.fallback.Response(ctx, ErrTypeInvalidInput, "", err))
		return
	}
	defer file.Close()

	question, err := h.transcriber.Transcribe(ctx, file, header.Filename)
	if err != nil {
		respondJSON(w, http.StatusOK, h.fallback.AgentFailure(ctx, "voice_agent", header.Filename, err))
		return
	}

	answer, fb := h.answerQuestion(ctx, question)
	if fb != nil {
		respondJSON(w, http.StatusOK, fb)
		return
	}

	audio, err := h.synthesizer.Synthesize(ctx, answer)
	if err != nil {
		respondJSON(w, http.StatusOK, h.fallback.AgentFailure(ctx, "voice_agent", question, err))
		return
	}

	filename := uuid.New().String() + ".mp3"
	path := filepath.Join(h.cfg.Server.AudioDir, filename)
	if err := os.MkdirAll(h.cfg.Server.AudioDir, 0o755); err == nil {
		err = os.WriteFile(path, audio, 0o644)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to store audio answer", err, "path", path)
		respondJSON(w, http.StatusOK, h.fallback.Response(ctx, ErrTypeGeneral, question, err))
		return
	}

	logger.QA(ctx, truncate(question, 100), len(answer), "voice", true)
	if err := qalog.Append(qalog.Entry{Question: question, Answer: answer, Voice: true, AudioFile: filename}); err != nil {
		logger.Warn(ctx, "Failed to append QA log", "error", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"question":          question,
		"answer":            answer,
		"answer_audio_file": filename,
	})
}

// GetAudio handles GET /audio/{filename}.
func (h *Handler) GetAudio(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	// Reject path traversal.
	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filename"})
		return
	}

	path := filepath.Join(h.cfg.Server.AudioDir, filename)
	if _, err := os.Stat(path); err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Audio not found."})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

// GetQuote handles GET /quote/{symbol}.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	quote, err := h.quotes.Quote(ctx, symbol)
	if err != nil {
		respondJSON(w, http.StatusNotFound, h.fallback.AgentFailure(ctx, "market_data_agent", symbol, err))
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// GetAnalytics handles GET /analytics/{symbol}.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	summary, err := h.analyzer.SymbolSummary(ctx, h.resolver.Resolve(symbol))
	if err != nil {
		respondJSON(w, http.StatusNotFound, h.fallback.AgentFailure(ctx, "analytics_agent", symbol, err))
		return
	}

	logger.Analysis(ctx, summary.Symbol, summary.TrendSignal, summary.RiskLevel)
	respondJSON(w, http.StatusOK, summary)
}

// PortfolioAnalytics handles POST /analytics/portfolio.
func (h *Handler) PortfolioAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, h.fallback.Response(ctx, ErrTypeInvalidInput, "", err))
		return
	}

	report, err := h.analyzer.PortfolioAnalytics(ctx, h.resolveAll(req.Symbols))
	if err != nil {
		respondJSON(w, http.StatusNotFound, h.fallback.AgentFailure(ctx, "analytics_agent", strings.Join(req.Symbols, ","), err))
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// RiskExposure handles POST /analytics/risk.
func (h *Handler) RiskExposure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Symbols []string `json:"symbols"`
		Region  string   `json:"region"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, h.fallback.Response(ctx, ErrTypeInvalidInput, "", err))
		return
	}

	report, err := h.analyzer.RiskExposure(ctx, h.resolveAll(req.Symbols), req.Region)
	if err != nil {
		respondJSON(w, http.StatusNotFound, h.fallback.AgentFailure(ctx, "analytics_agent", req.Region, err))
		return
	}

	logger.Risk(ctx, report.Region, report.OverallRiskLevel)
	respondJSON(w, http.StatusOK, report)
}

// GetNews handles GET /news/{ticker}.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	result, err := h.newsSvc.EarningsNews(ctx, ticker)
	if err != nil {
		respondJSON(w, http.StatusBadGateway, h.fallback.AgentFailure(ctx, "scraper_agent", ticker, err))
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) resolveAll(symbols []string) []string {
	resolved := make([]string, 0, len(symbols))
	for _, s := range symbols {
		resolved = append(resolved, h.resolver.Resolve(s))
	}
	return resolved
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
