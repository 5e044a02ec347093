package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockWebhook is an httptest.Server that records notification payloads.
type MockWebhook struct {
	Server *httptest.Server

	// Status, when non-zero, is returned for every delivery.
	Status int

	mu       sync.Mutex
	payloads []map[string]any
}

// NewMockWebhook creates and starts a mock webhook endpoint.
func NewMockWebhook() *MockWebhook {
	m := &MockWebhook{}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Close shuts down the mock server.
func (m *MockWebhook) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockWebhook) URL() string {
	return m.Server.URL
}

// Payloads returns the delivered payloads in arrival order.
func (m *MockWebhook) Payloads() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, len(m.payloads))
	copy(out, m.payloads)
	return out
}

func (m *MockWebhook) handle(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.payloads = append(m.payloads, body)
	m.mu.Unlock()

	if m.Status != 0 {
		http.Error(w, "delivery refused", m.Status)
		return
	}
	w.WriteHeader(http.StatusOK)
}
