package listener

import (
	"errors"
	"strings"
)

// ErrEmptyStack is returned when the stack is read or popped before any
// scope was pushed.
var ErrEmptyStack = errors.New("listener: container stack is empty")

type stackEntry struct {
	name string
	id   *int64
}

// Stack records, for each open scope, its local name and the TestRail
// container it maps to. The bottom entry is the suite; the rest are sections.
// A nil id marks a scope whose container could not be resolved.
type Stack struct {
	entries []stackEntry
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push opens a scope.
func (s *Stack) Push(name string, id *int64) {
	s.entries = append(s.entries, stackEntry{name: name, id: id})
}

// Pop closes the most recently opened scope.
func (s *Stack) Pop() error {
	if len(s.entries) == 0 {
		return ErrEmptyStack
	}
	s.entries = s.entries[:len(s.entries)-1]
	return nil
}

// CurrentID returns the container id of the innermost open scope.
func (s *Stack) CurrentID() (*int64, error) {
	if len(s.entries) == 0 {
		return nil, ErrEmptyStack
	}
	return s.entries[len(s.entries)-1].id, nil
}

// CurrentPath joins the names of the open scopes with dots, outermost first.
func (s *Stack) CurrentPath() string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return strings.Join(names, ".")
}

// Depth returns the number of open scopes.
func (s *Stack) Depth() int {
	return len(s.entries)
}
