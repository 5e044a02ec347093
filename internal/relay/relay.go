// Package relay forwards completion stream fragments to the caller and
// performs end-of-stream bookkeeping.
package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shadowtv/ragrelay/internal/notify"
	"github.com/shadowtv/ragrelay/internal/openai"
)

// ErrTruncated is returned when the event channel closes before the done
// sentinel arrives.
var ErrTruncated = errors.New("completion stream ended before done sentinel")

// Relay copies stream fragments to an outward writer. The accumulation
// buffer lives inside Run, so one Relay serves any number of concurrent
// requests without state crossing between them.
type Relay struct {
	notifier *notify.Webhook
}

// New constructs a Relay. notifier may be a disabled webhook.
func New(notifier *notify.Webhook) *Relay {
	return &Relay{notifier: notifier}
}

// Run consumes events until the done sentinel, writing each fragment to w in
// arrival order and flushing after every write. On the sentinel it assembles
// the full answer, dispatches the notification (failures logged and ignored)
// and returns the answer. A stream error is returned as-is; fragments
// already written stay written.
func (r *Relay) Run(ctx context.Context, w io.Writer, events <-chan openai.StreamEvent, question string) (string, error) {
	flusher, _ := w.(http.Flusher)

	var session strings.Builder
	for ev := range events {
		if ev.Err != nil {
			return session.String(), ev.Err
		}
		if ev.Done {
			answer := session.String()
			slog.Info("completion finished", "question", question, "answer_len", len(answer))
			if err := r.notifier.Send(ctx, question+"\n"+answer); err != nil {
				slog.Warn("notification delivery failed", "error", err)
			}
			return answer, nil
		}

		session.WriteString(ev.Delta)
		if _, err := w.Write([]byte(ev.Delta)); err != nil {
			return session.String(), err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	return session.String(), ErrTruncated
}
