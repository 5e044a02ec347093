package openai

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, body string) []StreamEvent {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(body))
	var events []StreamEvent
	for ev := range ReadStream(context.Background(), scanner) {
		events = append(events, ev)
	}
	return events
}

func TestReadStreamFragments(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"X\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\" is\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\" Y.\"}}]}\n\n" +
		"data: [DONE]\n\n"

	events := readAll(t, body)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %v", len(events), events)
	}
	want := []string{"X", " is", " Y."}
	for i, frag := range want {
		if events[i].Delta != frag {
			t.Errorf("event %d delta = %q, want %q", i, events[i].Delta, frag)
		}
	}
	if !events[3].Done {
		t.Error("final event should be Done")
	}
}

func TestReadStreamIgnoresEventsAfterSentinel(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\n" +
		"data: [DONE]\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n\n"

	events := readAll(t, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(events), events)
	}
	if !events[1].Done {
		t.Error("second event should be Done")
	}
}

func TestReadStreamEmptyDelta(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n\n" +
		"data: [DONE]\n\n"

	events := readAll(t, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Delta != "" || events[0].Done || events[0].Err != nil {
		t.Errorf("expected empty content event, got %+v", events[0])
	}
}

func TestReadStreamMalformedPayload(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n" +
		"data: {{{not json\n\n" +
		"data: [DONE]\n\n"

	events := readAll(t, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(events), events)
	}
	if events[0].Delta != "ok" {
		t.Errorf("first event delta = %q, want %q", events[0].Delta, "ok")
	}
	if events[1].Err == nil {
		t.Fatal("expected an error event for the malformed payload")
	}
}

func TestReadStreamNoChoices(t *testing.T) {
	events := readAll(t, "data: {\"choices\":[]}\n\n")
	if len(events) != 1 || events[0].Err == nil {
		t.Fatalf("expected a single error event, got %v", events)
	}
}

func TestReadStreamSentinelWithoutTrailingBlankLine(t *testing.T) {
	// Some upstreams close right after the sentinel, omitting the blank
	// line that normally ends an event block.
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\n" +
		"data: [DONE]"

	events := readAll(t, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(events), events)
	}
	if events[0].Delta != "hi" {
		t.Errorf("first event delta = %q, want %q", events[0].Delta, "hi")
	}
	if !events[1].Done || events[1].Err != nil {
		t.Errorf("expected a clean Done event, got %+v", events[1])
	}
}

func TestReadStreamTruncated(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n"

	events := readAll(t, body)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(events), events)
	}
	if !errors.Is(events[1].Err, io.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF, got %v", events[1].Err)
	}
}
