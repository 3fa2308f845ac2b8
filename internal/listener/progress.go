package listener

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// ProgressLog writes the plain-text progress file kept in the host output
// directory. Messages are written exactly as given, so a test line can be
// started on start_test and finished on end_test. Error annotations can be
// echoed to the console for the operator.
type ProgressLog struct {
	file    io.WriteCloser
	console io.Writer
	path    string
}

// NewProgressLog creates a log that echoes console messages to console.
// Nothing is written to disk until Open.
func NewProgressLog(console io.Writer) *ProgressLog {
	if console == nil {
		console = io.Discard
	}
	return &ProgressLog{console: console}
}

// Open creates (truncating) the log file at path.
func (l *ProgressLog) Open(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create progress log: %w", err)
	}
	l.file, l.path = f, path
	return nil
}

// Path returns the file the log writes to, empty before Open.
func (l *ProgressLog) Path() string {
	return l.path
}

// Log appends to the file.
func (l *ProgressLog) Log(format string, args ...any) {
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
}

// Error appends to the file and prints the message on the console in red.
func (l *ProgressLog) Error(format string, args ...any) {
	l.Log(format, args...)
	color.New(color.FgRed).Fprintf(l.console, format, args...)
}

// Warn prints the message on the console only, in yellow.
func (l *ProgressLog) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(l.console, format, args...)
}

// Close closes the file. It is safe to call more than once.
func (l *ProgressLog) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
