package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shadowtv/ragrelay/internal/notify"
	"github.com/shadowtv/ragrelay/internal/openai"
	"github.com/shadowtv/ragrelay/test/testutil"
)

func feed(events ...openai.StreamEvent) <-chan openai.StreamEvent {
	ch := make(chan openai.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func fragment(s string) openai.StreamEvent { return openai.StreamEvent{Delta: s} }

func TestRunForwardsFragmentsInOrder(t *testing.T) {
	hook := testutil.NewMockWebhook()
	defer hook.Close()
	r := New(notify.NewWebhook(hook.URL(), time.Second))

	var out bytes.Buffer
	answer, err := r.Run(context.Background(), &out,
		feed(fragment("X"), fragment(" is"), fragment(" Y."), openai.StreamEvent{Done: true}),
		"What is X?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "X is Y." {
		t.Errorf("answer = %q", answer)
	}
	if out.String() != "X is Y." {
		t.Errorf("forwarded bytes = %q", out.String())
	}

	payloads := hook.Payloads()
	if len(payloads) != 1 {
		t.Fatalf("expected one notification, got %d", len(payloads))
	}
	if payloads[0]["msg_type"] != "text" {
		t.Errorf("msg_type = %v", payloads[0]["msg_type"])
	}
	content := payloads[0]["content"].(map[string]any)
	if content["text"] != "What is X?\nX is Y." {
		t.Errorf("notification text = %q", content["text"])
	}
}

func TestRunSessionsAreIndependent(t *testing.T) {
	hook := testutil.NewMockWebhook()
	defer hook.Close()
	r := New(notify.NewWebhook(hook.URL(), time.Second))

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		answer, err := r.Run(context.Background(), &out,
			feed(fragment("same"), fragment(" answer"), openai.StreamEvent{Done: true}),
			"q")
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if answer != "same answer" || out.String() != "same answer" {
			t.Errorf("run %d: answer %q bytes %q", i, answer, out.String())
		}
	}
	// No accumulation carries over: both notifications carry the same text.
	payloads := hook.Payloads()
	if len(payloads) != 2 {
		t.Fatalf("expected two notifications, got %d", len(payloads))
	}
	for i, p := range payloads {
		content := p["content"].(map[string]any)
		if content["text"] != "q\nsame answer" {
			t.Errorf("notification %d text = %q", i, content["text"])
		}
	}
}

func TestRunStopsAtSentinel(t *testing.T) {
	r := New(notify.NewWebhook("", time.Second))

	var out bytes.Buffer
	answer, err := r.Run(context.Background(), &out,
		feed(fragment("before"), openai.StreamEvent{Done: true}, fragment("after")),
		"q")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "before" || out.String() != "before" {
		t.Errorf("bytes after sentinel leaked: answer %q bytes %q", answer, out.String())
	}
}

func TestRunStreamErrorKeepsPartialOutput(t *testing.T) {
	hook := testutil.NewMockWebhook()
	defer hook.Close()
	r := New(notify.NewWebhook(hook.URL(), time.Second))

	streamErr := fmt.Errorf("malformed stream event")
	var out bytes.Buffer
	partial, err := r.Run(context.Background(), &out,
		feed(fragment("par"), fragment("tial"), openai.StreamEvent{Err: streamErr}),
		"q")
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected the stream error, got %v", err)
	}
	if out.String() != "partial" {
		t.Errorf("already-forwarded bytes must stay delivered, got %q", out.String())
	}
	if partial != "partial" {
		t.Errorf("partial answer = %q", partial)
	}
	if len(hook.Payloads()) != 0 {
		t.Error("no notification may be sent on a failed stream")
	}
}

func TestRunTruncatedStream(t *testing.T) {
	r := New(notify.NewWebhook("", time.Second))

	var out bytes.Buffer
	_, err := r.Run(context.Background(), &out, feed(fragment("half")), "q")
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestRunNotificationFailureIsIgnored(t *testing.T) {
	hook := testutil.NewMockWebhook()
	hook.Status = 500
	defer hook.Close()
	r := New(notify.NewWebhook(hook.URL(), time.Second))

	var out bytes.Buffer
	answer, err := r.Run(context.Background(), &out,
		feed(fragment("fine"), openai.StreamEvent{Done: true}), "q")
	if err != nil {
		t.Fatalf("notification failure must not surface: %v", err)
	}
	if answer != "fine" {
		t.Errorf("answer = %q", answer)
	}
}

func TestRunDisabledNotifier(t *testing.T) {
	r := New(notify.NewWebhook("", time.Second))

	var out bytes.Buffer
	if _, err := r.Run(context.Background(), &out,
		feed(fragment("ok"), openai.StreamEvent{Done: true}), "q"); err != nil {
		t.Fatalf("Run with disabled notifier: %v", err)
	}
}
