package host

import (
	"errors"
	"fmt"
	"os"
	"time"

	"trl/internal/logging"
)

// Terminator stops the host process after a fatal listener error.
type Terminator interface {
	Terminate() error
}

// TerminatorFunc adapts a function to Terminator.
type TerminatorFunc func() error

func (f TerminatorFunc) Terminate() error {
	return f()
}

// Interrupter sends two interrupts to a process back to back: the first
// starts the host's graceful shutdown, the second cuts it short so no more
// test code runs. Grace optionally pauses between the two.
type Interrupter struct {
	Process *os.Process
	Grace   time.Duration

	signal func(os.Signal) error
}

// NewInterrupter finds the process with the given pid.
func NewInterrupter(pid int) (*Interrupter, error) {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("find host process %d: %w", pid, err)
	}
	return &Interrupter{Process: p}, nil
}

func (i *Interrupter) Terminate() error {
	logging.Warn("Host", "interrupting host process %d", i.Process.Pid)
	if err := i.send(os.Interrupt); err != nil {
		return fmt.Errorf("interrupt host process: %w", err)
	}
	if i.Grace > 0 {
		time.Sleep(i.Grace)
	}
	// the process may already be gone after the first interrupt
	if err := i.send(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("interrupt host process again: %w", err)
	}
	return nil
}

func (i *Interrupter) send(sig os.Signal) error {
	if i.signal != nil {
		return i.signal(sig)
	}
	return i.Process.Signal(sig)
}

// noTerminator is used when no host process is known.
type noTerminator struct{}

func (noTerminator) Terminate() error { return nil }
