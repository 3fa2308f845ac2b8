package commands

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"trl/internal/cli"
	"trl/internal/config"
	"trl/internal/events"
	"trl/internal/host"
	"trl/internal/ui"
)

// ReplayCommand handles the replay command
type ReplayCommand struct {
	config   *config.Config
	flags    *cli.Flags
	sessions *sessionFactory
}

// NewReplayCommand creates a new ReplayCommand
func NewReplayCommand(cfg *config.Config, flags *cli.Flags, sessions *sessionFactory) *ReplayCommand {
	return &ReplayCommand{config: cfg, flags: flags, sessions: sessions}
}

// Execute runs the command
func (rc *ReplayCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	list, err := events.Load(args[0])
	if err != nil {
		return err
	}

	// feed the loaded events through the same stream as a live run
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range list {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}

	session, err := rc.sessions.open(ctx)
	if err != nil {
		return err
	}

	bar := ui.NewProgressBar(len(list))
	dispatched, failed := 0, 0
	stream := &host.Stream{
		Listener: session,
		OnEvent: func(_ events.Event, err error) {
			dispatched++
			if err != nil {
				failed++
			}
			bar.Update(dispatched, failed)
		},
	}
	sum, err := stream.Consume(ctx, &buf)
	bar.Finish()
	if err != nil {
		return err
	}
	return rc.sessions.finish(session, sum, 0, rc.flags.NoSummary)
}
