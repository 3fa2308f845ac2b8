package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"trl/internal/cli"
	"trl/internal/config"
	"trl/internal/host"
)

// ListenCommand handles the listen command
type ListenCommand struct {
	config   *config.Config
	flags    *cli.Flags
	sessions *sessionFactory
}

// NewListenCommand creates a new ListenCommand
func NewListenCommand(cfg *config.Config, flags *cli.Flags, sessions *sessionFactory) *ListenCommand {
	return &ListenCommand{config: cfg, flags: flags, sessions: sessions}
}

// Execute runs the command
func (lc *ListenCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var input io.Reader = cmd.InOrStdin()
	if lc.flags.Events != "" && lc.flags.Events != "-" {
		f, err := os.Open(lc.flags.Events)
		if err != nil {
			return fmt.Errorf("open events: %w", err)
		}
		defer f.Close()
		input = f
	}

	stream := &host.Stream{}
	if lc.flags.HostPID > 0 {
		term, err := host.NewInterrupter(lc.flags.HostPID)
		if err != nil {
			return err
		}
		stream.Terminator = term
	}
	rec, err := openRecorder(lc.flags.Record)
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Close()
		stream.Recorder = rec
	}

	session, err := lc.sessions.open(ctx)
	if err != nil {
		return err
	}
	stream.Listener = session

	sum, err := stream.Consume(ctx, input)
	if err != nil {
		return err
	}
	return lc.sessions.finish(session, sum, 0, lc.flags.NoSummary)
}
