package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"trl/internal/events"
	"trl/internal/logging"
)

// ErrHostFailed is reported when the host command exits non-zero.
var ErrHostFailed = errors.New("host command failed")

// cancelWait is how long a cancelled host may take to exit before it is killed.
const cancelWait = 10 * time.Second

// Result is the outcome of a host run.
type Result struct {
	Summary
	ExitCode int
}

// Runner starts the host test command and streams the events it prints on
// stdout to a listener.
type Runner struct {
	args   []string
	dir    string
	env    []string
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a runner for the command line args.
func NewRunner(args []string) *Runner {
	return &Runner{args: args, stdout: os.Stdout, stderr: os.Stderr}
}

// WithDir sets the host's working directory.
func (r *Runner) WithDir(dir string) *Runner {
	r.dir = dir
	return r
}

// WithEnv adds KEY=VALUE pairs to the host environment.
func (r *Runner) WithEnv(env ...string) *Runner {
	r.env = append(r.env, env...)
	return r
}

// WithOutput redirects the host's regular output.
func (r *Runner) WithOutput(stdout, stderr io.Writer) *Runner {
	r.stdout, r.stderr = stdout, stderr
	return r
}

// Run executes the host command and dispatches its events to l until the
// command exits. A fatal listener error interrupts the host.
func (r *Runner) Run(ctx context.Context, l events.Listener, rec *events.Recorder) (Result, error) {
	if len(r.args) == 0 {
		return Result{}, fmt.Errorf("no host command given")
	}

	cmd := exec.CommandContext(ctx, r.args[0], r.args[1:]...)
	cmd.Env = append(os.Environ(), r.env...)
	cmd.Dir = r.dir
	cmd.Stderr = r.stderr
	// cancellation interrupts the host like an operator would
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = cancelWait
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("host stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start host command: %w", err)
	}
	logging.Info("Host", "started %v (pid %d)", r.args, cmd.Process.Pid)

	stream := &Stream{
		Listener:    l,
		Terminator:  &Interrupter{Process: cmd.Process},
		Passthrough: r.stdout,
		Recorder:    rec,
	}
	sum, streamErr := stream.Consume(ctx, stdout)
	res := Result{Summary: sum}

	waitErr := cmd.Wait()
	if streamErr != nil {
		return res, streamErr
	}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		logging.Info("Host", "host exited with code %d", res.ExitCode)
	default:
		return res, fmt.Errorf("wait for host command: %w", waitErr)
	}
	return res, nil
}
