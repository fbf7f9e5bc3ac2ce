package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultMaxSizeMB is used when a caller passes a non-positive size.
const DefaultMaxSizeMB = 300

// NewRotatingWriter returns a size-rotated log file at path. Rotated files
// are kept next to it as <name>-<timestamp>.<ext>; backups limits how many
// survive (0 keeps all).
// If path is "-", writes go to io.Discard to effectively disable file output.
func NewRotatingWriter(path string, maxSizeMB, backups int) (io.WriteCloser, error) {
	path = strings.TrimSpace(path)
	if path == "-" {
		return nopWriteCloser{w: io.Discard}, nil
	}
	if path == "" {
		return nil, fmt.Errorf("logging: empty log path")
	}
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if backups < 0 {
		backups = 0
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: backups,
		LocalTime:  false,
	}, nil
}

type nopWriteCloser struct{ w io.Writer }

func (n nopWriteCloser) Write(p []byte) (int, error) { return n.w.Write(p) }
func (n nopWriteCloser) Close() error                { return nil }
