package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Viewer displays a progress log.
type Viewer interface {
	View(path string, entries []LogEntry) error
}

// LogViewer browses a progress log in an interactive TUI, with problem lines
// highlighted and a filter to show only those.
type LogViewer struct {
	// Context is the number of lines shown around the selected one.
	Context int
}

// NewLogViewer creates a viewer.
func NewLogViewer() *LogViewer {
	return &LogViewer{Context: 8}
}

var kindColors = map[EntryKind]string{
	KindInfo:    "white",
	KindCreated: "green",
	KindWarning: "yellow",
	KindError:   "red",
	KindFatal:   "fuchsia",
}

// listText renders an entry for the list on the left.
func listText(e LogEntry) string {
	return fmt.Sprintf("[gray]%4d[white] [%s]%s[white]", e.Line, kindColors[e.Kind], tview.Escape(e.Text))
}

// contextText renders the lines around entries[index], marking it.
func (v *LogViewer) contextText(entries []LogEntry, index int) string {
	lo, hi := index-v.Context, index+v.Context+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(entries) {
		hi = len(entries)
	}
	var b strings.Builder
	for i := lo; i < hi; i++ {
		marker := "  "
		if i == index {
			marker = "[yellow]>[white] "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, listText(entries[i]))
	}
	return b.String()
}

func headerText(path string, st LogStats, problemsOnly bool) string {
	filter := "all lines"
	if problemsOnly {
		filter = "problems only"
	}
	return fmt.Sprintf(" %s | %d lines, [green]%d created[white], [yellow]%d warnings[white], [red]%d errors[white], [fuchsia]%d fatal[white] | %s | [yellow]E[white] toggle filter, → context, ← back, Ctrl+C exit ",
		path, st.Lines, st.Created, st.Warnings, st.Errors, st.Fatal, filter)
}

// View runs the TUI until the operator exits.
func (v *LogViewer) View(path string, entries []LogEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("progress log %s is empty", path)
	}
	st := Stats(entries)
	problemsOnly := st.Warnings+st.Errors+st.Fatal > 0
	var shown []int // indexes into entries

	app := tview.NewApplication()
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	contextView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	updateContext := func() {
		i := list.GetCurrentItem()
		if i >= 0 && i < len(shown) {
			contextView.SetText(v.contextText(entries, shown[i]))
		} else {
			contextView.SetText("")
		}
	}
	fill := func() {
		list.Clear()
		shown = shown[:0]
		for i, e := range entries {
			if problemsOnly && !e.Kind.IsProblem() {
				continue
			}
			shown = append(shown, i)
			list.AddItem(listText(e), "", 0, nil)
		}
		headerView.SetText(headerText(path, st, problemsOnly))
		updateContext()
	}

	list.SetChangedFunc(func(int, string, string, rune) { updateContext() })
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(contextView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'e' || event.Rune() == 'E' {
				problemsOnly = !problemsOnly
				fill()
				return nil
			}
		}
		return event
	})
	contextView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	fill()

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(contextView, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
