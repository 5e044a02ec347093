package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// IndexMatch is one configurable match returned by MockPinecone. Metadata is
// free-form so tests can feed malformed records.
type IndexMatch struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Metadata any     `json:"metadata"`
}

// MockPinecone is an httptest.Server that simulates a vector index /query
// endpoint.
type MockPinecone struct {
	Server *httptest.Server

	// Matches returned to every query.
	Matches []IndexMatch
	// Status, when non-zero, is returned instead of the matches.
	Status int

	// LastQuery captures the most recent query body parsed.
	LastQuery map[string]any
	// LastAPIKey captures the Api-Key header of the most recent query.
	LastAPIKey string
}

// NewMockPinecone creates and starts a mock index server.
func NewMockPinecone(matches []IndexMatch) *MockPinecone {
	m := &MockPinecone{Matches: matches}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Close shuts down the mock server.
func (m *MockPinecone) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockPinecone) URL() string {
	return m.Server.URL
}

func (m *MockPinecone) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/query" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	m.LastAPIKey = r.Header.Get("Api-Key")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	m.LastQuery = body

	if m.Status != 0 {
		http.Error(w, "index unavailable", m.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"matches": m.Matches})
}
