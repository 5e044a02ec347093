// Package pinecone queries a Pinecone-style vector index over its REST API.
// Only the query operation is implemented; ingestion happens elsewhere.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client queries a single index host.
type Client struct {
	indexURL   string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client for the given index host URL
// (e.g. "https://shadow-tv-xxxx.svc.us-central1-gcp.pinecone.io").
func NewClient(indexURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		indexURL:   strings.TrimRight(indexURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Query returns the topK nearest matches for vector in namespace, metadata
// included, raw vectors excluded. Matches whose metadata does not decode
// into the expected shape are dropped rather than failing the query.
func (c *Client) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	body, err := json.Marshal(QueryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeValues:   false,
		IncludeMetadata: true,
		Namespace:       namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("index query %d: %s", resp.StatusCode, string(raw))
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	matches := make([]Match, 0, len(result.Matches))
	for _, m := range result.Matches {
		var meta Metadata
		if len(m.Metadata) > 0 {
			if err := json.Unmarshal(m.Metadata, &meta); err != nil {
				slog.Warn("dropping match with malformed metadata", "id", m.ID, "error", err)
				continue
			}
		}
		matches = append(matches, Match{ID: m.ID, Score: m.Score, Metadata: meta})
	}
	return matches, nil
}
