package sse

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// chunkReader returns one predefined chunk per Read call.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func chunks(parts ...string) *chunkReader {
	r := &chunkReader{}
	for _, p := range parts {
		r.chunks = append(r.chunks, []byte(p))
	}
	return r
}

func TestConsumeAggregatesFragments(t *testing.T) {
	var seen []generation.Event
	res, err := Consume(context.Background(), chunks(
		"data: {\"start\":true}\n\n",
		"data: {\"content\":\"Hel\"}\n\n",
		"data: {\"content\":\"lo\"}\n\n",
		"data: {\"done\":true,\"usedModel\":\"gpt-3.5-turbo\",\"temperature\":0,\"createdAt\":\"2025-05-06T07:08:09Z\"}\n\n",
	), func(ev generation.Event) { seen = append(seen, ev) })
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if res.Reply != "Hello" || res.UsedModel != "gpt-3.5-turbo" || res.Temperature != 0 {
		t.Fatalf("unexpected result %#v", res)
	}
	if !res.CreatedAt.Equal(time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)) {
		t.Fatalf("unexpected createdAt %v", res.CreatedAt)
	}
	if kinds(seen) != "start,content,content,done" {
		t.Fatalf("unexpected event order %s", kinds(seen))
	}
}

func TestConsumeChunkBoundaryInsideLine(t *testing.T) {
	res, err := Consume(context.Background(), chunks(
		"data: {\"cont",
		"ent\":\"x\"}\n\n",
		"data: {\"done\":true}\n\n",
	), nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if res.Reply != "x" {
		t.Fatalf("expected x, got %q", res.Reply)
	}
}

func TestConsumeOneByteReader(t *testing.T) {
	stream := "data: {\"start\":true}\n\ndata: {\"content\":\"naïve 世界\"}\n\ndata: {\"done\":true}\n\n"
	res, err := Consume(context.Background(), iotest.OneByteReader(strings.NewReader(stream)), nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if res.Reply != "naïve 世界" {
		t.Fatalf("multi-byte text corrupted: %q", res.Reply)
	}
}

func TestConsumeSplitRune(t *testing.T) {
	rune3 := []byte("世")
	r := &chunkReader{chunks: [][]byte{
		append([]byte("data: {\"content\":\""), rune3[:2]...),
		append(append([]byte{}, rune3[2:]...), []byte("\"}\n\ndata: {\"done\":true}\n\n")...),
	}}
	res, err := Consume(context.Background(), r, nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if res.Reply != "世" {
		t.Fatalf("expected rejoined rune, got %q", res.Reply)
	}
}

func TestConsumeInvalidJSONThenDone(t *testing.T) {
	logger := &recordingLogger{}
	agg := &Aggregator{Logger: logger}
	res, err := agg.Consume(context.Background(), chunks("data: {oops\n\n", "data: {\"done\":true}\n\n"))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if res.Reply != "" || !agg.Complete() {
		t.Fatalf("expected empty complete result, got %#v complete=%v", res, agg.Complete())
	}
	if len(logger.lines) != 1 {
		t.Fatalf("expected the bad line to be logged once, got %q", logger.lines)
	}
}

func TestConsumeWithoutTerminal(t *testing.T) {
	logger := &recordingLogger{}
	agg := &Aggregator{Logger: logger}
	res, err := agg.Consume(context.Background(), chunks("data: {\"content\":\"partial\"}\n\n"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Reply != "partial" {
		t.Fatalf("expected partial text, got %q", res.Reply)
	}
	if agg.Complete() || agg.Terminated() {
		t.Fatalf("stream without a terminal record: complete=%v terminated=%v", agg.Complete(), agg.Terminated())
	}
	if len(logger.lines) != 1 || !strings.Contains(logger.lines[0], "without a terminal") {
		t.Fatalf("expected warning, got %q", logger.lines)
	}
}

func TestConsumeResidualWithoutNewline(t *testing.T) {
	agg := &Aggregator{}
	res, err := agg.Consume(context.Background(), chunks("data: {\"content\":\"a\"}\n\n", "data: {\"done\":true,\"usedModel\":\"gpt-4\"}"))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if res.Reply != "a" || res.UsedModel != "gpt-4" || !agg.Complete() || !agg.Terminated() {
		t.Fatalf("expected residual done to finish stream, got %#v", res)
	}
}

func TestConsumeErrorRecord(t *testing.T) {
	res, err := Consume(context.Background(), chunks(
		"data: {\"content\":\"Hel\"}\n\n",
		"data: {\"error\":true,\"message\":\"upstream exploded\"}\n\n",
		"data: {\"content\":\"ignored\"}\n\n",
	), nil)
	var se *StreamError
	if !errors.As(err, &se) || se.Message != "upstream exploded" {
		t.Fatalf("expected stream error, got %v", err)
	}
	if res.Reply != "Hel" {
		t.Fatalf("expected partial reply, got %q", res.Reply)
	}
}

func TestConsumeErrorRecordTerminatesWithoutCompleting(t *testing.T) {
	agg := &Aggregator{}
	_, err := agg.Consume(context.Background(), chunks("data: {\"start\":true}\n\ndata: {\"error\":true}\n\n"))
	var se *StreamError
	if !errors.As(err, &se) || se.Message != defaultStreamError {
		t.Fatalf("expected default stream error, got %v", err)
	}
	if agg.Complete() {
		t.Fatalf("error record must not count as complete")
	}
	if !agg.Terminated() {
		t.Fatalf("error record must count as terminal")
	}

	fresh := &Aggregator{}
	if fresh.Terminated() {
		t.Fatalf("unused aggregator must not report a terminal record")
	}
}

func TestConsumeReadError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("data: {\"content\":\"a\"}\n\n"), iotest.ErrReader(boom))
	res, err := Consume(context.Background(), r, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if res.Reply != "a" {
		t.Fatalf("expected partial reply, got %q", res.Reply)
	}
}

func TestConsumeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Consume(ctx, bytes.NewReader([]byte("data: {\"done\":true}\n\n")), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
