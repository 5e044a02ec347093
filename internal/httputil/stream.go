package httputil

import "net/http"

// SetStreamHeaders sets the headers for the raw text stream returned to the
// caller. X-Accel-Buffering disarms proxy-side buffering so fragments reach
// the client as they arrive.
func SetStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}
