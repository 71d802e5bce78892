package cli

import (
	"strings"
	"sync"
)

// LogWriter implements io.Writer and captures log output for frame display.
// It keeps the most recent lines.
type LogWriter struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
}

// NewLogWriter creates a new log writer with the given max lines.
func NewLogWriter(maxLines int) *LogWriter {
	return &LogWriter{
		lines:    make([]string, 0, maxLines),
		maxLines: max(maxLines, 1),
	}
}

// Write implements io.Writer.
// Handles multi-line input by splitting on newlines.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\n")

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		if len(w.lines) == w.maxLines {
			copy(w.lines, w.lines[1:])
			w.lines = w.lines[:len(w.lines)-1]
		}
		w.lines = append(w.lines, line)
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first.
func (w *LogWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}
