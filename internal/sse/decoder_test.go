package sse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func kinds(events []generation.Event) string {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		parts = append(parts, string(ev.Kind))
	}
	return strings.Join(parts, ",")
}

func TestDecoderPhases(t *testing.T) {
	d := NewDecoder(nil)
	if d.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", d.Phase())
	}
	events := d.Feed([]byte("data: {\"start\":true}\n\ndata: {\"content\":\"Hel\"}\n\n"))
	if kinds(events) != "start,content" || d.Phase() != PhaseGenerating {
		t.Fatalf("unexpected events %s in phase %s", kinds(events), d.Phase())
	}
	events = d.Feed([]byte("data: {\"content\":\"lo\"}\n\ndata: {\"done\":true,\"usedModel\":\"gpt-4\",\"temperature\":0.7,\"createdAt\":\"2025-01-02T03:04:05Z\"}\n\n"))
	if kinds(events) != "content,done" {
		t.Fatalf("unexpected events %s", kinds(events))
	}
	if d.Phase() != PhaseDone || !d.Finished() {
		t.Fatalf("expected done, got %s", d.Phase())
	}
	if d.Reply() != "Hello" {
		t.Fatalf("unexpected reply %q", d.Reply())
	}
	term, ok := d.Terminal()
	if !ok || term.UsedModel != "gpt-4" || term.Temperature != 0.7 || term.CreatedAt.Year() != 2025 {
		t.Fatalf("unexpected terminal %#v", term)
	}
}

func TestDecoderIgnoresInputAfterTerminal(t *testing.T) {
	d := NewDecoder(nil)
	events := d.Feed([]byte("data: {\"done\":true}\n\ndata: {\"content\":\"late\"}\n\n"))
	if kinds(events) != "done" {
		t.Fatalf("unexpected events %s", kinds(events))
	}
	if more := d.Feed([]byte("data: {\"content\":\"later\"}\n\n")); len(more) != 0 {
		t.Fatalf("expected nothing after terminal, got %s", kinds(more))
	}
	if more := d.End(); len(more) != 0 {
		t.Fatalf("expected nothing from End after terminal")
	}
	if d.Reply() != "" {
		t.Fatalf("reply should not include late fragments, got %q", d.Reply())
	}
}

func TestDecoderSkipsInvalidJSON(t *testing.T) {
	logger := &recordingLogger{}
	d := NewDecoder(logger)
	events := d.Feed([]byte("data: {not json}\n\ndata: {\"done\":true}\n\n"))
	if kinds(events) != "done" {
		t.Fatalf("unexpected events %s", kinds(events))
	}
	if len(logger.lines) != 1 || !strings.Contains(logger.lines[0], "undecodable") {
		t.Fatalf("expected one anomaly log line, got %q", logger.lines)
	}
}

func TestDecoderSkipsNonDataLines(t *testing.T) {
	d := NewDecoder(nil)
	events := d.Feed([]byte(": keepalive\nevent: message\ndata:\ndata:   \ndata:{\"content\":\"x\"}\n"))
	if kinds(events) != "content" || d.Reply() != "x" {
		t.Fatalf("unexpected events %s reply %q", kinds(events), d.Reply())
	}
}

func TestDecoderSingleStart(t *testing.T) {
	d := NewDecoder(nil)
	events := d.Feed([]byte("data: {\"start\":true}\n\ndata: {\"start\":true}\n\n"))
	if kinds(events) != "start" {
		t.Fatalf("expected a single start, got %s", kinds(events))
	}
}

func TestDecoderErrorRecord(t *testing.T) {
	d := NewDecoder(nil)
	events := d.Feed([]byte("data: {\"content\":\"par\"}\n\ndata: {\"error\":true,\"message\":\"quota exceeded\"}\n\n"))
	if kinds(events) != "content,error" {
		t.Fatalf("unexpected events %s", kinds(events))
	}
	if d.Phase() != PhaseFailed {
		t.Fatalf("expected failed, got %s", d.Phase())
	}
	if events[1].Message != "quota exceeded" {
		t.Fatalf("unexpected message %q", events[1].Message)
	}

	d = NewDecoder(nil)
	events = d.Feed([]byte("data: {\"error\":true}\n"))
	if len(events) != 1 || events[0].Message != "stream error" {
		t.Fatalf("expected default message, got %#v", events)
	}
}

func TestDecoderEndParsesResidual(t *testing.T) {
	d := NewDecoder(nil)
	if events := d.Feed([]byte("data: {\"content\":\"a\"}\n\ndata: {\"done\":true}")); kinds(events) != "content" {
		t.Fatalf("unexpected events %s", kinds(events))
	}
	events := d.End()
	if kinds(events) != "done" || !d.Finished() {
		t.Fatalf("expected residual done, got %s", kinds(events))
	}
}
