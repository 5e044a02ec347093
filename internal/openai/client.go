// Package openai is a minimal client for the OpenAI embeddings and streaming
// chat completions endpoints. Credentials are passed per call; the resolved
// key for a request is computed once by the gateway and reused here.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client sends requests to an OpenAI-compatible API host.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	embeddingModel string
	// streamTransport is used by streaming requests (no timeout; the request
	// context carries cancellation).
	streamTransport http.RoundTripper
}

// NewClient constructs a Client for the given host (e.g.
// "https://api.openai.com"). timeout bounds the non-streaming calls.
func NewClient(baseURL string, embeddingModel string, timeout time.Duration) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		embeddingModel: embeddingModel,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		streamTransport: transport,
	}
}

// Embed returns the embedding vector for text. Any transport failure or
// non-2xx status is an error; the pipeline treats it as fatal.
func (c *Client) Embed(ctx context.Context, apiKey, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: c.embeddingModel, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings %d: %s", resp.StatusCode, string(raw))
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("embeddings response carries no data")
	}
	return result.Data[0].Embedding, nil
}

// StreamCompletion opens a streaming chat completions request and returns a
// channel of decoded StreamEvents. A non-2xx status is an error. The HTTP
// response body is closed when the channel drains.
func (c *Client) StreamCompletion(ctx context.Context, apiKey string, req *CompletionRequest) (<-chan StreamEvent, error) {
	wireReq := *req
	wireReq.Stream = true
	body, err := json.Marshal(&wireReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	// Use a client without timeout for streaming (context carries
	// cancellation), but reuse the transport so proxy settings hold.
	streamClient := &http.Client{Transport: c.streamTransport}
	resp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completions request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("completions %d: %s", resp.StatusCode, string(raw))
	}

	// Closing the body on exit also unblocks the inner reader's Scan.
	scanner := bufio.NewScanner(resp.Body)
	ch := make(chan StreamEvent, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()
		inner := ReadStream(ctx, scanner)
		for ev := range inner {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
