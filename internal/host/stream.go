package host

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"trl/internal/events"
	"trl/internal/listener"
	"trl/internal/logging"
)

// Summary describes a consumed event stream.
type Summary struct {
	Events int   // events dispatched
	Errors int   // non-fatal dispatch errors
	Fatal  error // the fatal error that stopped dispatching, if any
	Closed bool  // whether the host sent close
}

// Stream feeds host events to a listener. On a fatal listener error it
// terminates the host once and stops dispatching; the rest of the input is
// still drained so the host never blocks on a full pipe.
type Stream struct {
	Listener   events.Listener
	Terminator Terminator
	// Passthrough receives host output lines that are not events. When nil,
	// the input is expected to hold events only.
	Passthrough io.Writer
	// Recorder, when set, receives every dispatched event.
	Recorder *events.Recorder
	// OnEvent is called after each dispatched event.
	OnEvent func(e events.Event, err error)
}

// Consume reads r to the end. The listener is closed when the input ends
// without a close event.
func (s *Stream) Consume(ctx context.Context, r io.Reader) (Summary, error) {
	if s.Terminator == nil {
		s.Terminator = noTerminator{}
	}
	var sum Summary

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		e, ok, err := s.parse(line)
		if !ok {
			if s.Passthrough != nil {
				fmt.Fprintln(s.Passthrough, line)
			}
			continue
		}
		if err != nil {
			sum.Errors++
			logging.Warn("Host", "skipping malformed event: %v", err)
			continue
		}
		if sum.Fatal != nil || sum.Closed {
			continue
		}
		s.dispatch(ctx, e, &sum)
	}
	if err := sc.Err(); err != nil {
		return sum, fmt.Errorf("read host events: %w", err)
	}

	if !sum.Closed && sum.Fatal == nil {
		if err := s.Listener.Close(ctx); err != nil {
			logging.Warn("Host", "close listener: %v", err)
		}
	}
	return sum, nil
}

func (s *Stream) parse(line string) (events.Event, bool, error) {
	if s.Passthrough != nil {
		return events.ParseLine(line)
	}
	if line == "" {
		return events.Event{}, false, nil
	}
	e, err := events.Decode([]byte(line))
	return e, true, err
}

func (s *Stream) dispatch(ctx context.Context, e events.Event, sum *Summary) {
	if s.Recorder != nil {
		if err := s.Recorder.Record(e); err != nil {
			logging.Warn("Host", "%v", err)
		}
	}

	err := events.Dispatch(ctx, s.Listener, e)
	sum.Events++
	if e.Type == events.Close {
		sum.Closed = true
	}
	if s.OnEvent != nil {
		s.OnEvent(e, err)
	}

	switch {
	case err == nil:
	case listener.IsFatal(err):
		sum.Fatal = err
		logging.Error("Host", err, "fatal listener error on %s %q", e.Type, e.Name)
		if terr := s.Terminator.Terminate(); terr != nil {
			logging.Error("Host", terr, "terminate host")
		}
		if cerr := s.Listener.Close(ctx); cerr != nil {
			logging.Warn("Host", "close listener: %v", cerr)
		}
	default:
		sum.Errors++
		logging.Warn("Host", "%s %q: %v", e.Type, e.Name, err)
	}
}
