package events

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLine bounds a single event; suite events carry every host variable.
const maxLine = 4 * 1024 * 1024

// Reader reads JSON-line events. Blank lines are skipped; a line that does
// not decode is reported with its line number and reading may continue.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Next returns the next event, or io.EOF at the end of input.
func (r *Reader) Next() (Event, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" {
			continue
		}
		// recordings may be captured straight from host stdout
		text = strings.TrimPrefix(text, strings.TrimSpace(Prefix))
		e, err := Decode([]byte(strings.TrimSpace(text)))
		if err != nil {
			return Event{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return e, nil
	}
	if err := r.sc.Err(); err != nil {
		return Event{}, fmt.Errorf("read events: %w", err)
	}
	return Event{}, io.EOF
}

// Load reads a recorded event file in full.
func Load(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	var list []Event
	r := NewReader(f)
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
}

// Recorder appends events to a file so that a run can be replayed later.
type Recorder struct {
	f   *os.File
	enc *json.Encoder
}

// NewRecorder creates (truncating) the recording at path.
func NewRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return &Recorder{f: f, enc: json.NewEncoder(f)}, nil
}

// Record writes e as one line.
func (r *Recorder) Record(e Event) error {
	if err := r.enc.Encode(e); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Close closes the recording.
func (r *Recorder) Close() error {
	return r.f.Close()
}
