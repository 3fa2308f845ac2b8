package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trl/internal/cli"
	"trl/internal/config"
	"trl/internal/events"
	"trl/internal/host"
	"trl/internal/listener"
	"trl/internal/logging"
	"trl/internal/testrail"
	"trl/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run    *RunCommand
	Listen *ListenCommand
	Replay *ReplayCommand
	Check  *CheckCommand
	Log    *LogCommand
}

// NewCommands creates all commands with dependencies. cfg is filled in by
// the root command once flags are parsed.
func NewCommands(cfg *config.Config, flags *cli.Flags) *Commands {
	formatter := ui.NewFormatter()
	sessions := &sessionFactory{config: cfg, formatter: formatter}

	return &Commands{
		Run:    NewRunCommand(cfg, flags, sessions),
		Listen: NewListenCommand(cfg, flags, sessions),
		Replay: NewReplayCommand(cfg, flags, sessions),
		Check:  NewCheckCommand(cfg, sessions, formatter),
		Log:    NewLogCommand(cfg, ui.NewLogViewer()),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	flags.AddGlobal(rootCmd.PersistentFlags())
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(flags.LogLevel)
		if err != nil {
			return err
		}
		logging.InitForCLI(level, os.Stderr)

		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [flags] -- <host command...>",
		Short: "Run a test command and mirror its events into TestRail",
		Long:  "Start the host test runner, read the ##trl event lines it prints on stdout and mirror suites, cases and results into TestRail. Other output is passed through.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Run.Execute,
	}
	flags.AddListener(runCmd.Flags())
	runCmd.Flags().StringVar(&flags.Record, "record", "", "Record the event stream to this file for a later replay")
	runCmd.Flags().StringVar(&flags.Dir, "dir", "", "Working directory of the host command")
	rootCmd.AddCommand(runCmd)

	// Listen command
	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "Mirror a JSON-lines event stream into TestRail",
		Long:  "Read host events (one JSON object per line) from stdin or a file, such as a fifo written by the host bridge.",
		Args:  cobra.NoArgs,
		RunE:  c.Listen.Execute,
	}
	flags.AddListener(listenCmd.Flags())
	listenCmd.Flags().StringVarP(&flags.Events, "events", "e", "", "Events file or fifo (default stdin)")
	listenCmd.Flags().IntVar(&flags.HostPID, "host-pid", 0, "Host process to interrupt on a fatal listener error")
	listenCmd.Flags().StringVar(&flags.Record, "record", "", "Record the event stream to this file for a later replay")
	rootCmd.AddCommand(listenCmd)

	// Replay command
	replayCmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Mirror a recorded event file into TestRail",
		Long:  "Dispatch the events of a recording made with --record, showing progress.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Replay.Execute,
	}
	flags.AddListener(replayCmd.Flags())
	rootCmd.AddCommand(replayCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and TestRail access",
		Long:  "Check the configuration, the project, the Automated case type and the session user without changing anything.",
		Args:  cobra.NoArgs,
		RunE:  c.Check.Execute,
	}
	rootCmd.AddCommand(checkCmd)

	// Log command
	logCmd := &cobra.Command{
		Use:   "log [FILE]",
		Short: "View a progress log interactively",
		Long:  "Browse a listener progress log with warnings and errors highlighted (default " + config.DefaultLogName + " in the output directory).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Log.Execute,
	}
	logCmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", "", "Directory holding the progress log")
	rootCmd.AddCommand(logCmd)
}

var _ events.Listener = (*listener.Session)(nil)

// sessionFactory builds TestRail clients and listener sessions from the
// loaded configuration.
type sessionFactory struct {
	config    *config.Config
	formatter *ui.Formatter
}

func (f *sessionFactory) client() *testrail.Client {
	return testrail.NewClient(f.config.Server, f.config.Protocol, f.config.User, f.config.Password,
		testrail.WithTimeout(f.config.Timeout))
}

func (f *sessionFactory) open(ctx context.Context) (*listener.Session, error) {
	s, err := listener.New(ctx, f.config, f.client(), nil, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("start listener session: %w", err)
	}
	return s, nil
}

// finish prints the summary and turns the outcome into the command's error.
func (f *sessionFactory) finish(s *listener.Session, sum host.Summary, exitCode int, quiet bool) error {
	if !quiet {
		rs := ui.RunSummary{
			Session:  s.ID(),
			Mode:     f.config.Mode,
			LogPath:  s.LogPath(),
			Events:   sum.Events,
			Errors:   sum.Errors,
			Fatal:    sum.Fatal,
			ExitCode: exitCode,
		}
		if rs.LogPath != "" {
			if entries, err := ui.LoadProgressLog(rs.LogPath); err == nil {
				rs.Log = ui.Stats(entries)
			}
		}
		f.formatter.PrintSummary(rs)
	}
	if sum.Fatal != nil {
		return sum.Fatal
	}
	return nil
}
