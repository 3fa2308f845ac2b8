package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"trl/internal/domain"
)

// Type is a host lifecycle callback.
type Type string

const (
	StartSuite Type = "start_suite"
	EndSuite   Type = "end_suite"
	StartTest  Type = "start_test"
	EndTest    Type = "end_test"
	Close      Type = "close"
)

// Prefix marks event lines inside the host's stdout. Lines without it are
// regular host output.
const Prefix = "##trl "

// Event is one callback as sent by the host bridge. Attrs is decoded lazily,
// according to Type.
type Event struct {
	Type  Type            `json:"event"`
	Name  string          `json:"name,omitempty"`
	Attrs json.RawMessage `json:"attrs,omitempty"`
}

// New builds an event, encoding attrs.
func New(t Type, name string, attrs any) (Event, error) {
	e := Event{Type: t, Name: name}
	if attrs == nil {
		return e, nil
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s attrs: %w", t, err)
	}
	e.Attrs = raw
	return e, nil
}

// Decode parses a single JSON event.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	switch e.Type {
	case StartSuite, EndSuite, StartTest, EndTest:
		if e.Name == "" {
			return Event{}, fmt.Errorf("decode event: %s without a name", e.Type)
		}
	case Close:
	case "":
		return Event{}, fmt.Errorf("decode event: missing event type")
	default:
		return Event{}, fmt.Errorf("decode event: unknown event type %q", e.Type)
	}
	return e, nil
}

// ParseLine extracts an event from a line of host output. ok is false for
// lines that do not carry the event prefix.
func ParseLine(line string) (e Event, ok bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	rest, found := strings.CutPrefix(line, Prefix)
	if !found {
		return Event{}, false, nil
	}
	e, err = Decode([]byte(rest))
	return e, true, err
}

// Line renders the event the way the host bridge prints it on stdout.
func (e Event) Line() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return Prefix + string(data), nil
}

func (e Event) decodeAttrs(v any) error {
	if len(e.Attrs) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Attrs, v); err != nil {
		return fmt.Errorf("decode %s attrs of %q: %w", e.Type, e.Name, err)
	}
	return nil
}

// SuiteAttrs decodes the attributes of a suite event.
func (e Event) SuiteAttrs() (domain.SuiteAttrs, error) {
	var a domain.SuiteAttrs
	err := e.decodeAttrs(&a)
	return a, err
}

// TestAttrs decodes the attributes of start_test.
func (e Event) TestAttrs() (domain.TestAttrs, error) {
	var a domain.TestAttrs
	err := e.decodeAttrs(&a)
	return a, err
}

// TestEndAttrs decodes the attributes of end_test.
func (e Event) TestEndAttrs() (domain.TestEndAttrs, error) {
	var a domain.TestEndAttrs
	err := e.decodeAttrs(&a)
	return a, err
}
