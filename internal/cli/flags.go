package cli

import (
	"time"

	"github.com/spf13/pflag"

	"trl/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile     string
	EnvFile        string
	Server         string
	Protocol       string
	ProjectID      int64
	User           string
	Password       string
	Mode           string
	MissingSection string
	OutputDir      string
	NoCreateSuite  bool
	Timeout        time.Duration
	LogLevel       string

	// Command specific
	Events    string
	HostPID   int
	Record    string
	Dir       string
	NoSummary bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:     f.ConfigFile,
		EnvFile:        f.EnvFile,
		Server:         f.Server,
		Protocol:       f.Protocol,
		ProjectID:      f.ProjectID,
		User:           f.User,
		Password:       f.Password,
		Mode:           f.Mode,
		MissingSection: f.MissingSection,
		OutputDir:      f.OutputDir,
		NoCreateSuite:  f.NoCreateSuite,
		Timeout:        f.Timeout,
	}
}

// AddGlobal registers the flags every command accepts
func (f *Flags) AddGlobal(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "YAML config file (default "+config.DefaultConfigFile+" when present)")
	fs.StringVar(&f.EnvFile, "env-file", "", "Env file with TESTRAIL_* variables (default "+config.DefaultEnvFile+" when present)")
	fs.StringVar(&f.Server, "server", "", "TestRail server host, e.g. testrail.example.com (TESTRAIL_SERVER)")
	fs.StringVar(&f.Protocol, "protocol", "", "http or https (TESTRAIL_PROTOCOL)")
	fs.Int64Var(&f.ProjectID, "project-id", 0, "TestRail project id (TESTRAIL_PROJECT_ID)")
	fs.StringVarP(&f.User, "user", "u", "", "TestRail user (TESTRAIL_USER)")
	fs.StringVar(&f.Password, "password", "", "TestRail password or API key (TESTRAIL_PW)")
	fs.DurationVar(&f.Timeout, "timeout", 0, "Timeout of a single TestRail request")
	fs.StringVar(&f.LogLevel, "log-level", "warn", "Diagnostics level: debug, info, warn or error")
}

// AddListener registers the flags of commands that run a listener session
func (f *Flags) AddListener(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Mode, "mode", "m", "", "Listener mode: cases (register test cases) or results (post results)")
	fs.StringVar(&f.MissingSection, "missing-section", "", "What to do when a section does not exist: create, skip or fatal")
	fs.StringVarP(&f.OutputDir, "output-dir", "o", "", "Directory for the progress log when the host does not name one")
	fs.BoolVar(&f.NoCreateSuite, "no-create-suite", false, "Fail instead of creating a missing TestRail suite")
	fs.BoolVar(&f.NoSummary, "no-summary", false, "Do not print the summary table when the session ends")
}
