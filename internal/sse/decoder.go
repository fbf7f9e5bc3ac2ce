package sse

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// Phase is the decoder state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGenerating
	PhaseDone
	PhaseFailed
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGenerating:
		return "generating"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Logger is the minimal logging surface used for decode anomalies.
type Logger interface {
	Printf(format string, args ...any)
}

const defaultStreamError = "stream error"

// Decoder rebuilds generation events from a record stream. It is driven by
// two inputs: Feed for every chunk that arrives and End once the transport
// has no more bytes. After a terminal event all further input is ignored.
type Decoder struct {
	lines    LineBuffer
	phase    Phase
	reply    strings.Builder
	terminal generation.Event
	logger   Logger
}

// NewDecoder returns an idle decoder. logger may be nil.
func NewDecoder(logger Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Feed consumes one chunk and returns the events completed by it.
func (d *Decoder) Feed(chunk []byte) []generation.Event {
	if d.Finished() {
		return nil
	}
	var out []generation.Event
	for _, line := range d.lines.Push(chunk) {
		out = d.handleLine(line, out)
		if d.Finished() {
			d.lines.Reset()
			break
		}
	}
	return out
}

// End flushes a residual record that arrived without a trailing newline.
func (d *Decoder) End() []generation.Event {
	if d.Finished() {
		return nil
	}
	rest := d.lines.Residual()
	d.lines.Reset()
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	return d.handleLine(rest, nil)
}

// Phase returns the current decoder state.
func (d *Decoder) Phase() Phase { return d.phase }

// Finished reports whether a terminal event was observed.
func (d *Decoder) Finished() bool {
	return d.phase == PhaseDone || d.phase == PhaseFailed
}

// Reply returns every fragment seen so far, concatenated in arrival order.
func (d *Decoder) Reply() string { return d.reply.String() }

// Terminal returns the terminal event once the stream has finished.
func (d *Decoder) Terminal() (generation.Event, bool) {
	return d.terminal, d.Finished()
}

func (d *Decoder) handleLine(line string, out []generation.Event) []generation.Event {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, Marker) {
		return out
	}
	body := strings.TrimSpace(strings.TrimPrefix(line, Marker))
	if body == "" {
		return out
	}
	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		d.logf("sse: skipping undecodable record %q: %v", preview(body, 120), err)
		return out
	}

	if p.Start && d.phase == PhaseIdle {
		d.phase = PhaseGenerating
		out = append(out, generation.StartEvent())
	}
	if p.Content != "" {
		d.phase = PhaseGenerating
		d.reply.WriteString(p.Content)
		out = append(out, generation.ContentEvent(p.Content))
	}
	if p.Done {
		var temp float64
		if p.Temperature != nil {
			temp = *p.Temperature
		}
		var created time.Time
		if p.CreatedAt != nil {
			created = *p.CreatedAt
		}
		ev := generation.DoneEvent(p.UsedModel, temp, created)
		d.finish(PhaseDone, ev)
		return append(out, ev)
	}
	if p.Error {
		msg := strings.TrimSpace(p.Message)
		if msg == "" {
			msg = defaultStreamError
		}
		ev := generation.ErrorEvent(msg)
		d.finish(PhaseFailed, ev)
		return append(out, ev)
	}
	return out
}

func (d *Decoder) finish(phase Phase, ev generation.Event) {
	d.phase = phase
	d.terminal = ev
}

func (d *Decoder) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

func preview(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
