package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"trl/internal/cli"
	"trl/internal/cli/commands"
	"trl/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "trl",
		Short:         "Mirror test runner events into TestRail",
		Long:          `A listener bridge between a test runner and TestRail. It maps the runner's nested suites onto TestRail suites and sections, registers test cases, and reports results into a plan run named after the host context.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, &flags)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
