package sse

import (
	"fmt"
	"net/http"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// Writer frames generation events onto an HTTP response. Every event is
// flushed as soon as it is written.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

// NewWriter wraps w. Flushing is skipped when w is not an http.Flusher.
func NewWriter(w http.ResponseWriter) *Writer {
	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// Begin commits the stream headers and status. It is idempotent.
func (sw *Writer) Begin() {
	if sw.started {
		return
	}
	sw.started = true
	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	sw.w.WriteHeader(http.StatusOK)
	sw.flush()
}

// WriteEvent writes one record. A returned error means the peer is gone.
func (sw *Writer) WriteEvent(ev generation.Event) error {
	sw.Begin()
	frame, err := Frame(ev)
	if err != nil {
		return err
	}
	if _, err := sw.w.Write(frame); err != nil {
		return fmt.Errorf("sse: write %s event: %w", ev.Kind, err)
	}
	sw.flush()
	return nil
}

func (sw *Writer) flush() {
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}
