package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Flags is the timestamp layout shared by every component logger.
const Flags = log.LstdFlags | log.Lmicroseconds

// Setup points the standard logger at stdout and, when file is set, at a
// rotating log file as well. The returned closer releases the file.
func Setup(prefix, file string, maxSizeMB, backups int) (io.Closer, error) {
	log.SetFlags(Flags)
	log.SetPrefix(prefix)
	file = strings.TrimSpace(file)
	if file == "" {
		log.SetOutput(os.Stdout)
		return nopWriteCloser{w: io.Discard}, nil
	}
	rot, err := NewRotatingWriter(file, maxSizeMB, backups)
	if err != nil {
		return nil, err
	}
	// Mirror to stdout as well for foreground runs
	log.SetOutput(io.MultiWriter(os.Stdout, rot))
	return rot, nil
}

// Component derives a logger sharing the standard logger's output.
func Component(prefix string) *log.Logger {
	return log.New(log.Writer(), prefix, Flags)
}

// DebugEnabled reports whether level enables debug output.
func DebugEnabled(level string) bool {
	return strings.EqualFold(strings.TrimSpace(level), "debug")
}
