package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trl/internal/config"
	"trl/internal/ui"
)

// ErrCheckFailed is returned when at least one check fails.
var ErrCheckFailed = errors.New("check failed")

// CheckCommand handles the check command
type CheckCommand struct {
	config    *config.Config
	sessions  *sessionFactory
	formatter *ui.Formatter
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(cfg *config.Config, sessions *sessionFactory, formatter *ui.Formatter) *CheckCommand {
	return &CheckCommand{config: cfg, sessions: sessions, formatter: formatter}
}

// Execute runs the command
func (cc *CheckCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := cc.config

	checks := []ui.Check{{Name: "configuration", Detail: fmt.Sprintf("%s mode, project %d", cfg.Mode, cfg.ProjectID)}}
	if err := cfg.Validate(); err != nil {
		checks[0].Err = err
		cc.formatter.PrintChecks(checks)
		return ErrCheckFailed
	}

	client := cc.sessions.client()
	check := ui.Check{Name: "server", Detail: client.BaseURL()}
	project, err := client.GetProject(ctx, cfg.ProjectID)
	if err != nil {
		check.Err = err
		checks = append(checks, check)
		cc.formatter.PrintChecks(checks)
		return ErrCheckFailed
	}
	checks = append(checks, check, ui.Check{Name: "project", Detail: fmt.Sprintf("%s (%d)", project.Name, project.ID)})
	if project.IsCompleted {
		checks[len(checks)-1].Err = fmt.Errorf("project %q is completed", project.Name)
	}

	check = ui.Check{Name: "automated case type"}
	if id, err := client.AutomatedCaseTypeID(ctx); err != nil {
		check.Err = err
	} else {
		check.Detail = fmt.Sprintf("id %d", id)
	}
	checks = append(checks, check)

	check = ui.Check{Name: "session user"}
	if id, err := client.UserID(ctx, cfg.User); err != nil {
		check.Err = err
	} else {
		check.Detail = fmt.Sprintf("%s (%d)", cfg.User, id)
	}
	checks = append(checks, check)

	if !cc.formatter.PrintChecks(checks) {
		return ErrCheckFailed
	}
	return nil
}
