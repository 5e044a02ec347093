package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shadowtv/ragrelay/internal/chat"
	apierrors "github.com/shadowtv/ragrelay/internal/errors"
	"github.com/shadowtv/ragrelay/internal/httputil"
	"github.com/shadowtv/ragrelay/internal/openai"
	"github.com/shadowtv/ragrelay/internal/rag"
	"github.com/shadowtv/ragrelay/internal/relay"
)

// maxAnswerTokens caps the length of a completion answer.
const maxAnswerTokens = 1000

// ChatHandler runs the chat pipeline: augment, budget, stream. It is the
// single place where pipeline failures become a caller-visible response;
// every pre-stream failure maps to the same opaque 500.
type ChatHandler struct {
	augmenter    *rag.Augmenter
	llm          *openai.Client
	relay        *relay.Relay
	counter      chat.TokenCounter
	defaultKey   string
	systemPrompt string
	timeout      time.Duration
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("decode chat request", "error", err, "request_id", requestID(r.Context()))
		apierrors.WriteServerError(w)
		return
	}

	// Resolved once; used for the embedding and completion calls alike.
	apiKey := req.Key
	if apiKey == "" {
		apiKey = h.defaultKey
	}

	augCtx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	msgs, question, err := h.augmenter.Augment(augCtx, apiKey, req.Messages)
	if err != nil {
		slog.Error("augmentation failed", "error", err, "request_id", requestID(r.Context()))
		apierrors.WriteServerError(w)
		return
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = h.systemPrompt
	}
	window := chat.Window(h.counter, prompt, msgs, chat.BudgetFor(req.Model.Tier))

	upstream := make([]openai.Message, 0, len(window)+1)
	upstream = append(upstream, openai.Message{Role: chat.RoleSystem, Content: prompt})
	for _, m := range window {
		upstream = append(upstream, openai.Message{Role: m.Role, Content: m.Content})
	}

	events, err := h.llm.StreamCompletion(r.Context(), apiKey, &openai.CompletionRequest{
		Model:       req.Model.ID,
		Messages:    upstream,
		MaxTokens:   maxAnswerTokens,
		Temperature: 0,
	})
	if err != nil {
		slog.Error("open completion stream", "error", err, "request_id", requestID(r.Context()))
		apierrors.WriteServerError(w)
		return
	}

	httputil.SetStreamHeaders(w)
	w.WriteHeader(http.StatusOK)

	if _, err := h.relay.Run(r.Context(), newFlushWriter(w), events, question); err != nil {
		slog.Error("stream relay failed", "error", err, "request_id", requestID(r.Context()))
		// The success status is already on the wire; abort the connection so
		// the caller sees a broken stream rather than a clean end.
		panic(http.ErrAbortHandler)
	}
}
