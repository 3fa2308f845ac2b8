package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"trl/internal/cli"
	"trl/internal/config"
	"trl/internal/events"
	"trl/internal/host"
)

// RunCommand handles the run command
type RunCommand struct {
	config   *config.Config
	flags    *cli.Flags
	sessions *sessionFactory
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, flags *cli.Flags, sessions *sessionFactory) *RunCommand {
	return &RunCommand{config: cfg, flags: flags, sessions: sessions}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, err := rc.sessions.open(ctx)
	if err != nil {
		return err
	}

	rec, err := openRecorder(rc.flags.Record)
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Close()
	}

	runner := host.NewRunner(args).
		WithDir(rc.flags.Dir).
		WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	res, err := runner.Run(ctx, session, rec)
	if err != nil {
		return err
	}

	if err := rc.sessions.finish(session, res.Summary, res.ExitCode, rc.flags.NoSummary); err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d", host.ErrHostFailed, res.ExitCode)
	}
	return nil
}

func openRecorder(path string) (*events.Recorder, error) {
	if path == "" {
		return nil, nil
	}
	return events.NewRecorder(path)
}
