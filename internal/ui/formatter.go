package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// RunSummary is what the console shows after a session ends.
type RunSummary struct {
	Session  string
	Mode     string
	LogPath  string
	Events   int
	Errors   int
	Fatal    error
	ExitCode int
	Log      LogStats
}

// Check is one line of `trl check` output.
type Check struct {
	Name   string
	Detail string
	Err    error
}

// Formatter formats and displays console output
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a formatter writing to stdout
func NewFormatter() *Formatter {
	return NewFormatterTo(os.Stdout)
}

// NewFormatterTo creates a formatter writing to w
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) row(label string, c *color.Color, format string, args ...any) {
	fmt.Fprintf(f.w, "│ %-31s │ ", label)
	c.Fprintf(f.w, "%-27s", fmt.Sprintf(format, args...))
	fmt.Fprintln(f.w, " │")
}

func (f *Formatter) title(text string) {
	cyan := color.New(color.FgCyan)
	pad := 63 - len(text)
	left := pad / 2
	cyan.Fprintln(f.w, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintf(f.w, "║%s%s%s║\n", strings.Repeat(" ", left), text, strings.Repeat(" ", pad-left))
	cyan.Fprintln(f.w, "╚═══════════════════════════════════════════════════════════════╝")
}

const (
	tableTop = "┌─────────────────────────────────┬─────────────────────────────┐"
	tableSep = "├─────────────────────────────────┼─────────────────────────────┤"
	tableEnd = "└─────────────────────────────────┴─────────────────────────────┘"
)

// PrintSummary prints the session statistics table
func (f *Formatter) PrintSummary(s RunSummary) {
	white := color.New(color.FgWhite)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	fmt.Fprintln(f.w)
	f.title("TestRail Listener Summary")
	fmt.Fprintln(f.w, tableTop)
	f.row("Session", white, "%s", shorten(s.Session, 27))
	fmt.Fprintln(f.w, tableSep)
	f.row("Mode", white, "%s", s.Mode)
	fmt.Fprintln(f.w, tableSep)
	f.row("Events", white, "%d", s.Events)
	fmt.Fprintln(f.w, tableSep)
	f.row("Created in TestRail", green, "%d", s.Log.Created)
	fmt.Fprintln(f.w, tableSep)
	f.row("Warnings", yellow, "%d", s.Log.Warnings)
	fmt.Fprintln(f.w, tableSep)
	f.row("Errors", red, "%d", s.Errors+s.Log.Errors)
	fmt.Fprintln(f.w, tableSep)
	f.row("Host exit code", white, "%d", s.ExitCode)
	fmt.Fprintln(f.w, tableEnd)

	if s.LogPath != "" {
		fmt.Fprintf(f.w, "Progress log: %s\n", s.LogPath)
	}
	fmt.Fprintln(f.w)
	switch {
	case s.Fatal != nil:
		red.Fprintf(f.w, "✗ Listener aborted: %v\n", s.Fatal)
	case s.Errors+s.Log.Errors > 0 || s.Log.Warnings > 0:
		yellow.Fprintf(f.w, "! Finished with %d error(s) and %d warning(s)\n", s.Errors+s.Log.Errors, s.Log.Warnings)
	default:
		green.Fprintln(f.w, "✓ All events mirrored to TestRail")
	}
}

// PrintChecks prints the outcome of each check and reports whether all passed
func (f *Formatter) PrintChecks(checks []Check) bool {
	ok := true
	for _, c := range checks {
		if c.Err != nil {
			ok = false
			color.New(color.FgRed).Fprintf(f.w, "✗ %-20s %v\n", c.Name, c.Err)
			continue
		}
		color.New(color.FgGreen).Fprintf(f.w, "✓ %-20s %s\n", c.Name, c.Detail)
	}
	return ok
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
