package commands

import (
	"github.com/spf13/cobra"

	"trl/internal/config"
	"trl/internal/ui"
)

// LogCommand handles the log command
type LogCommand struct {
	config *config.Config
	viewer ui.Viewer
}

// NewLogCommand creates a new LogCommand
func NewLogCommand(cfg *config.Config, viewer ui.Viewer) *LogCommand {
	return &LogCommand{config: cfg, viewer: viewer}
}

// Execute runs the command
func (lc *LogCommand) Execute(cmd *cobra.Command, args []string) error {
	path := lc.config.GetLogPath("")
	if len(args) == 1 {
		path = args[0]
	}
	entries, err := ui.LoadProgressLog(path)
	if err != nil {
		return err
	}
	return lc.viewer.View(path, entries)
}
