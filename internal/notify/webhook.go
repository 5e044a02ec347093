// Package notify delivers best-effort text notifications to a webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type textPayload struct {
	MsgType string      `json:"msg_type"`
	Content textContent `json:"content"`
}

type textContent struct {
	Text string `json:"text"`
}

// Webhook posts text messages to a configured endpoint. A Webhook with an
// empty URL is disabled and drops every message.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook constructs a Webhook for the given endpoint URL. url may be
// empty to disable delivery.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts text as a text-type message. The response body is discarded;
// callers are expected to ignore the returned error beyond logging it.
func (wh *Webhook) Send(ctx context.Context, text string) error {
	if wh == nil || wh.url == "" {
		return nil
	}

	body, err := json.Marshal(textPayload{
		MsgType: "text",
		Content: textContent{Text: text},
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := wh.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %d", resp.StatusCode)
	}
	return nil
}
