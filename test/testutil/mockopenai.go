package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
)

// MockOpenAI is an httptest.Server that simulates the OpenAI embeddings and
// chat completions endpoints.
type MockOpenAI struct {
	Server *httptest.Server

	// Embedding returned by /v1/embeddings.
	Embedding []float32
	// EmbedStatus, when non-zero, is returned instead of the embedding.
	EmbedStatus int

	// Fragments streamed by /v1/chat/completions before the [DONE] sentinel.
	Fragments []string
	// CompletionStatus, when non-zero, is returned instead of the stream.
	CompletionStatus int
	// RawEvents, when set, is written verbatim as the stream body instead of
	// Fragments. Use it to inject malformed or post-sentinel events.
	RawEvents []string

	// Captured request details.
	LastEmbedInput        string
	LastEmbedAuth         string
	LastCompletionAuth    string
	LastCompletionRequest map[string]any
}

// NewMockOpenAI creates and starts a mock OpenAI server.
func NewMockOpenAI(embedding []float32, fragments []string) *MockOpenAI {
	m := &MockOpenAI{Embedding: embedding, Fragments: fragments}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/embeddings", m.handleEmbeddings)
	mux.HandleFunc("POST /v1/chat/completions", m.handleCompletions)
	m.Server = httptest.NewServer(mux)
	return m
}

// Close shuts down the mock server.
func (m *MockOpenAI) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockOpenAI) URL() string {
	return m.Server.URL
}

func (m *MockOpenAI) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	m.LastEmbedAuth = r.Header.Get("Authorization")

	var body struct {
		Model string `json:"model"`
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	m.LastEmbedInput = body.Input

	if m.EmbedStatus != 0 {
		http.Error(w, "embedding unavailable", m.EmbedStatus)
		return
	}

	resp := map[string]any{
		"data": []map[string]any{{"embedding": m.Embedding}},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (m *MockOpenAI) handleCompletions(w http.ResponseWriter, r *http.Request) {
	m.LastCompletionAuth = r.Header.Get("Authorization")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	m.LastCompletionRequest = body

	if m.CompletionStatus != 0 {
		http.Error(w, "completion unavailable", m.CompletionStatus)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, hasFlusher := w.(http.Flusher)

	if m.RawEvents != nil {
		for _, ev := range m.RawEvents {
			fmt.Fprintf(w, "data: %s\n\n", ev)
			if hasFlusher {
				flusher.Flush()
			}
		}
		return
	}

	for _, frag := range m.Fragments {
		chunk := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion.chunk",
			"choices": []map[string]any{
				{"index": 0, "delta": map[string]any{"content": frag}},
			},
		}
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		if hasFlusher {
			flusher.Flush()
		}
	}
	fmt.Fprintf(w, "data: [DONE]\n\n")
	if hasFlusher {
		flusher.Flush()
	}
}
