package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler, allowOrigins string) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware(allowOrigins))

	// Health check
	r.HandleFunc("/", handler.Root).Methods("GET")

	// Q&A routes
	r.HandleFunc("/ask_llm", handler.AskLLM).Methods("POST")
	r.HandleFunc("/ask_audio", handler.AskAudio).Methods("POST")
	r.HandleFunc("/audio/{filename}", handler.GetAudio).Methods("GET")

	// Market data and analytics routes
	r.HandleFunc("/quote/{symbol}", handler.GetQuote).Methods("GET")
	r.HandleFunc("/analytics/portfolio", handler.PortfolioAnalytics).Methods("POST")
	r.HandleFunc("/analytics/risk", handler.RiskExposure).Methods("POST")
	r.HandleFunc("/analytics/{symbol}", handler.GetAnalytics).Methods("GET")

	// News routes
	r.HandleFunc("/news/{ticker}", handler.GetNews).Methods("GET")

	return r
}

// corsMiddleware allows the browser frontend to call the API.
func corsMiddleware(allowOrigins string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
