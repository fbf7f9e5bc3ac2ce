package sse

import (
	"bytes"
	"strings"
)

// LineBuffer splits an incrementally arriving byte stream into complete
// lines. A trailing line without its newline stays buffered until a later
// chunk completes it, so callers never see a partial record.
//
// Splitting happens on raw bytes: '\n' never occurs inside a multi-byte UTF-8
// sequence, so a rune cut across two chunks is rejoined before decoding.
type LineBuffer struct {
	buf []byte
}

// Push appends chunk and returns every line it completed, without the
// terminating newline.
func (b *LineBuffer) Push(chunk []byte) []string {
	b.buf = append(b.buf, chunk...)
	idx := bytes.LastIndexByte(b.buf, '\n')
	if idx < 0 {
		return nil
	}
	complete := b.buf[:idx]
	var lines []string
	for _, raw := range bytes.Split(complete, []byte{'\n'}) {
		lines = append(lines, decodeText(raw))
	}
	rest := len(b.buf) - idx - 1
	copy(b.buf, b.buf[idx+1:])
	b.buf = b.buf[:rest]
	return lines
}

// Residual returns the buffered partial line.
func (b *LineBuffer) Residual() string {
	return decodeText(b.buf)
}

// Reset drops the buffered partial line.
func (b *LineBuffer) Reset() { b.buf = b.buf[:0] }

func decodeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}
