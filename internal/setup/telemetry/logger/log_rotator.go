package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator keeps a log file bounded to roughly maxLines lines. It retains
// the newest lines in a circular window and rewrites the file in place once
// twice the window size has passed through, so rewrites stay infrequent.
type LogRotator struct {
	mu       sync.Mutex
	writer   io.Writer
	filePath string

	window []string // circular window of retained lines
	next   int      // next write slot in the window
	held   int      // lines currently held, up to len(window)
	seen   int      // lines observed since the last rewrite
}

// NewLogRotator wraps writer with a line cap of maxLines. filePath must
// point at the file behind writer so rotation can rewrite it.
func NewLogRotator(writer io.Writer, maxLines int, filePath string) *LogRotator {
	return &LogRotator{
		writer:   writer,
		filePath: filePath,
		window:   make([]string, maxLines),
	}
}

// Write passes p through to the underlying file and tracks its lines,
// rewriting the file when the rotation threshold is reached.
func (w *LogRotator) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.writer.Write(p)
	if err != nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.record(line)

		if w.seen >= len(w.window)*2 {
			if err := w.rewrite(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}

			w.seen = w.held
		}
	}

	return n, nil
}

func (w *LogRotator) record(line string) {
	w.window[w.next] = line
	w.next = (w.next + 1) % len(w.window)

	if w.held < len(w.window) {
		w.held++
	}

	w.seen++
}

// retained returns the held lines oldest first.
func (w *LogRotator) retained() []string {
	if w.held == 0 {
		return nil
	}

	lines := make([]string, 0, w.held)
	start := (w.next - w.held + len(w.window)) % len(w.window)

	for i := range w.held {
		lines = append(lines, w.window[(start+i)%len(w.window)])
	}

	return lines
}

// rewrite replaces the log file with only the retained lines. The new
// content is staged in a temp file and renamed over the original.
func (w *LogRotator) rewrite() error {
	lines := w.retained()
	if len(lines) == 0 {
		return nil
	}

	temp, err := os.CreateTemp(filepath.Dir(w.filePath), "temp-log-")
	if err != nil {
		return err
	}

	tempPath := temp.Name()

	if _, err := temp.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	temp.Close()

	if closer, ok := w.writer.(io.Closer); ok {
		closer.Close()
	}

	// Windows cannot rename over an open file
	os.Remove(w.filePath)

	if err := os.Rename(tempPath, w.filePath); err != nil {
		return err
	}

	reopened, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.writer = reopened

	return nil
}
