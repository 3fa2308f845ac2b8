package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// EntryKind classifies a progress log line.
type EntryKind int

const (
	KindInfo EntryKind = iota
	KindCreated
	KindWarning
	KindError
	KindFatal
)

func (k EntryKind) String() string {
	switch k {
	case KindCreated:
		return "created"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	case KindFatal:
		return "fatal"
	default:
		return "info"
	}
}

// IsProblem reports whether the entry needs the operator's attention.
func (k EntryKind) IsProblem() bool {
	return k >= KindWarning
}

// LogEntry is one line of a progress log.
type LogEntry struct {
	Line int
	Text string
	Kind EntryKind
}

// LogStats counts the entries of a progress log by kind.
type LogStats struct {
	Lines    int
	Created  int
	Warnings int
	Errors   int
	Fatal    int
}

// warning markers written by the listener next to a scope or test line
var warningMarkers = []string{
	"failed to get case ID",
	"failed to get section id",
	"failed to update",
	"no TestRail",
	"not reported",
	"not registered",
	"skipped, parent section unresolved",
}

func classify(text string) EntryKind {
	switch {
	case strings.Contains(text, "LISTENER FATAL ERROR"), strings.HasPrefix(text, "Aborting test run"):
		return KindFatal
	case strings.Contains(text, "LISTENER ERROR"):
		return KindError
	}
	for _, m := range warningMarkers {
		if strings.Contains(text, m) {
			return KindWarning
		}
	}
	if strings.Contains(text, " - created (") {
		return KindCreated
	}
	return KindInfo
}

// ParseProgressLog reads a progress log. Blank lines are dropped.
func ParseProgressLog(r io.Reader) ([]LogEntry, error) {
	var entries []LogEntry
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimRight(sc.Text(), " \t")
		if strings.TrimSpace(text) == "" {
			continue
		}
		entries = append(entries, LogEntry{Line: n, Text: text, Kind: classify(text)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read progress log: %w", err)
	}
	return entries, nil
}

// LoadProgressLog reads the progress log at path.
func LoadProgressLog(path string) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open progress log: %w", err)
	}
	defer f.Close()
	return ParseProgressLog(f)
}

// Stats counts entries by kind.
func Stats(entries []LogEntry) LogStats {
	s := LogStats{Lines: len(entries)}
	for _, e := range entries {
		switch e.Kind {
		case KindCreated:
			s.Created++
		case KindWarning:
			s.Warnings++
		case KindError:
			s.Errors++
		case KindFatal:
			s.Fatal++
		}
	}
	return s
}
