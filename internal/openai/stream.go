package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// doneSentinel terminates a completion stream.
const doneSentinel = "[DONE]"

// ReadStream reads SSE lines from a scanner and sends StreamEvents to the
// returned channel. The channel is closed after the [DONE] sentinel, after
// the first malformed event, or when the underlying stream ends. Events
// arriving after the sentinel are never read. Cancelling ctx releases the
// reader even when the consumer has stopped draining the channel.
func ReadStream(ctx context.Context, scanner *bufio.Scanner) <-chan StreamEvent {
	ch := make(chan StreamEvent, 16)
	go func() {
		defer close(ch)
		send := func(ev StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var dataLine string
		for scanner.Scan() {
			line := scanner.Text()
			if rest, ok := strings.CutPrefix(line, "data:"); ok {
				dataLine = strings.TrimSpace(rest)
			} else if line == "" && dataLine != "" {
				// End of one SSE event block
				if dataLine == doneSentinel {
					send(StreamEvent{Done: true})
					return
				}
				var chunk StreamChunk
				if err := json.Unmarshal([]byte(dataLine), &chunk); err != nil {
					send(StreamEvent{Err: fmt.Errorf("malformed stream event: %w", err)})
					return
				}
				if len(chunk.Choices) == 0 {
					send(StreamEvent{Err: fmt.Errorf("stream event carries no choices")})
					return
				}
				if !send(StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
					return
				}
				dataLine = ""
			}
		}
		if err := scanner.Err(); err != nil {
			send(StreamEvent{Err: err})
			return
		}
		// The sentinel still counts when the stream ends right after it,
		// without the trailing blank line.
		if dataLine == doneSentinel {
			send(StreamEvent{Done: true})
			return
		}
		// Upstream closed without sending the sentinel.
		send(StreamEvent{Err: io.ErrUnexpectedEOF})
	}()
	return ch
}
