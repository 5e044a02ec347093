// Package gateway wires the retrieval, budgeting, and relay stages behind
// the HTTP surface.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/shadowtv/ragrelay/internal/chat"
	"github.com/shadowtv/ragrelay/internal/config"
	"github.com/shadowtv/ragrelay/internal/notify"
	"github.com/shadowtv/ragrelay/internal/openai"
	"github.com/shadowtv/ragrelay/internal/pinecone"
	"github.com/shadowtv/ragrelay/internal/rag"
	"github.com/shadowtv/ragrelay/internal/relay"
)

// Server is the public HTTP server.
type Server struct {
	httpServer *http.Server
}

// New constructs a Server from the given config and token counter.
func New(cfg *config.Config, counter chat.TokenCounter) *Server {
	llm := openai.NewClient(cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.RequestTimeout)
	index := pinecone.NewClient(cfg.PineconeIndexURL, cfg.PineconeAPIKey, cfg.RequestTimeout)
	notifier := notify.NewWebhook(cfg.WebhookURL, 10*time.Second)

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = chat.DefaultSystemPrompt
	}

	chatHandler := &ChatHandler{
		augmenter:    rag.New(llm, index, cfg.PineconeNamespace),
		llm:          llm,
		relay:        relay.New(notifier),
		counter:      counter,
		defaultKey:   cfg.OpenAIAPIKey,
		systemPrompt: prompt,
		timeout:      cfg.RequestTimeout,
	}

	router := mux.NewRouter()
	router.Handle("/api/chat", chatHandler).Methods(http.MethodPost)
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.ListenAddr,
			Handler:     handler,
			ReadTimeout: 30 * time.Second,
			// No WriteTimeout: the chat response is an open-ended stream.
			IdleTimeout: 60 * time.Second,
		},
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler (for use in tests with
// httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
