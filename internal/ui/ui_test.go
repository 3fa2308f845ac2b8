package ui

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const sampleLog = `TestRail listener session 5f0c
Adding test results to TestRail from running suite: top

Suites:
top
 - Using TestRail Milestone [M] - created (11)
top.child - created (12)
top.child.A - PASS [2s]
top.child.B - FAIL [1s] (boom) - failed to get case ID
	LISTENER ERROR: add result for case error: [400: bad]
LISTENER FATAL ERROR: get plans error: 500: down
`

func TestParseProgressLog(t *testing.T) {
	entries, err := ParseProgressLog(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}

	tests := []struct {
		line int
		kind EntryKind
	}{
		{1, KindInfo},
		{6, KindCreated},
		{7, KindCreated},
		{8, KindInfo},
		{9, KindWarning},
		{10, KindError},
		{11, KindFatal},
	}
	byLine := make(map[int]LogEntry)
	for _, e := range entries {
		byLine[e.Line] = e
	}
	for _, tt := range tests {
		e, ok := byLine[tt.line]
		if !ok {
			t.Errorf("line %d missing", tt.line)
			continue
		}
		if e.Kind != tt.kind {
			t.Errorf("line %d (%q): expected %s, got %s", tt.line, e.Text, tt.kind, e.Kind)
		}
	}

	st := Stats(entries)
	want := LogStats{Lines: 10, Created: 2, Warnings: 1, Errors: 1, Fatal: 1}
	if st != want {
		t.Errorf("expected stats %+v, got %+v", want, st)
	}
}

func TestLoadProgressLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tr_listener.log")
	if err := os.WriteFile(path, []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadProgressLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("expected 10 entries, got %d", len(entries))
	}

	if _, err := LoadProgressLog(filepath.Join(t.TempDir(), "none.log")); err == nil {
		t.Error("expected an error for a missing log")
	}
}

func TestLogViewer_ContextText(t *testing.T) {
	entries, _ := ParseProgressLog(strings.NewReader(sampleLog))
	v := &LogViewer{Context: 1}

	text := v.contextText(entries, 0)
	if got := strings.Count(text, "\n"); got != 2 {
		t.Errorf("expected 2 lines at the start of the log, got %d", got)
	}
	text = v.contextText(entries, 5)
	if got := strings.Count(text, "\n"); got != 3 {
		t.Errorf("expected 3 lines, got %d", got)
	}
	if !strings.Contains(text, "[yellow]>[white]") {
		t.Error("selected line is not marked")
	}
	if err := NewLogViewer().View("empty.log", nil); err == nil {
		t.Error("expected an error for an empty log")
	}
}

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFormatter_PrintSummary(t *testing.T) {
	withoutColor(t)

	tests := []struct {
		name    string
		summary RunSummary
		want    string
	}{
		{
			name:    "clean run",
			summary: RunSummary{Session: "abc", Mode: "results", Events: 12, LogPath: "out/tr_listener.log"},
			want:    "✓ All events mirrored to TestRail",
		},
		{
			name:    "warnings",
			summary: RunSummary{Session: "abc", Mode: "results", Errors: 1, Log: LogStats{Warnings: 2}},
			want:    "! Finished with 1 error(s) and 2 warning(s)",
		},
		{
			name:    "fatal",
			summary: RunSummary{Session: "abc", Mode: "cases", Fatal: errors.New("fatal: get suites: down")},
			want:    "✗ Listener aborted: fatal: get suites: down",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewFormatterTo(&buf).PrintSummary(tt.summary)
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
			if !strings.Contains(out, "TestRail Listener Summary") {
				t.Error("missing title")
			}
		})
	}
}

func TestFormatter_PrintChecks(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	f := NewFormatterTo(&buf)

	if !f.PrintChecks([]Check{{Name: "project", Detail: "Demo (1)"}}) {
		t.Error("expected all checks to pass")
	}
	if f.PrintChecks([]Check{{Name: "project", Detail: "Demo (1)"}, {Name: "user", Err: errors.New("not found")}}) {
		t.Error("expected a failed check")
	}
	if !strings.Contains(buf.String(), "✗ user") {
		t.Errorf("failed check not printed:\n%s", buf.String())
	}
}

func TestProgressBar(t *testing.T) {
	withoutColor(t)
	bar := NewProgressBarTo(io.Discard, 3)
	bar.Update(1, 0)
	bar.Update(3, 1)
	bar.Finish()
}
