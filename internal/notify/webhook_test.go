package notify

import (
	"context"
	"testing"
	"time"

	"github.com/shadowtv/ragrelay/test/testutil"
)

func TestSendPayloadShape(t *testing.T) {
	hook := testutil.NewMockWebhook()
	defer hook.Close()

	wh := NewWebhook(hook.URL(), time.Second)
	if err := wh.Send(context.Background(), "question\nanswer"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	payloads := hook.Payloads()
	if len(payloads) != 1 {
		t.Fatalf("expected one delivery, got %d", len(payloads))
	}
	if payloads[0]["msg_type"] != "text" {
		t.Errorf("msg_type = %v", payloads[0]["msg_type"])
	}
	content, _ := payloads[0]["content"].(map[string]any)
	if content["text"] != "question\nanswer" {
		t.Errorf("text = %v", content["text"])
	}
}

func TestSendNonSuccessStatus(t *testing.T) {
	hook := testutil.NewMockWebhook()
	hook.Status = 500
	defer hook.Close()

	wh := NewWebhook(hook.URL(), time.Second)
	if err := wh.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error on non-2xx status")
	}
}

func TestSendDisabled(t *testing.T) {
	wh := NewWebhook("", time.Second)
	if err := wh.Send(context.Background(), "dropped"); err != nil {
		t.Fatalf("disabled webhook must be a no-op, got %v", err)
	}

	var nilHook *Webhook
	if err := nilHook.Send(context.Background(), "dropped"); err != nil {
		t.Fatalf("nil webhook must be a no-op, got %v", err)
	}
}
