package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Listener strategies.
const (
	// ModeCases registers cases (dry run of the host); no results are posted
	ModeCases = "cases"
	// ModeResults attaches cases to a run and posts results
	ModeResults = "results"
)

// Policies for a nested scope whose section does not exist remotely.
const (
	MissingSectionCreate = "create"
	MissingSectionSkip   = "skip"
	MissingSectionFatal  = "fatal"
)

// Config holds all configuration for the listener
type Config struct {
	// TestRail server
	Server    string `yaml:"server"`
	Protocol  string `yaml:"protocol"`
	ProjectID int64  `yaml:"project_id"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`

	// Listener behavior
	Mode           string         `yaml:"mode"`
	CreateSuite    bool           `yaml:"create_suite"`
	MissingSection string         `yaml:"missing_section"`
	StatusMap      map[string]int `yaml:"status_map"`
	Naming         Naming         `yaml:"naming"`

	// Output settings
	OutputDir string `yaml:"output_dir"`
	LogName   string `yaml:"log_name"`

	Timeout time.Duration `yaml:"timeout"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Naming holds the templates that derive milestone, plan and run names
type Naming struct {
	Milestone string `yaml:"milestone"`
	Plan      string `yaml:"plan"`
	Run       string `yaml:"run"`
}

// Flags holds command-line overrides
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
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		Protocol:       DefaultProtocol,
		Mode:           DefaultMode,
		CreateSuite:    true,
		MissingSection: DefaultMissingSection,
		OutputDir:      DefaultOutputDir,
		LogName:        DefaultLogName,
		Timeout:        DefaultTimeout,
		Naming: Naming{
			Milestone: DefaultMilestoneTemplate,
			Plan:      DefaultPlanTemplate,
			Run:       DefaultRunTemplate,
		},
	}
	// Copy default status map
	cfg.StatusMap = make(map[string]int, len(DefaultStatusMap))
	for k, v := range DefaultStatusMap {
		cfg.StatusMap[k] = v
	}
	return cfg
}

// Load builds a config from defaults, the YAML file, the env file, the
// process environment and finally the flags, each layer overriding the last.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags

	configFile, explicit := flags.ConfigFile, true
	if configFile == "" {
		configFile, explicit = DefaultConfigFile, false
	}
	if err := cfg.loadFile(configFile, explicit); err != nil {
		return nil, err
	}

	envFile, explicit := flags.EnvFile, true
	if envFile == "" {
		envFile, explicit = DefaultEnvFile, false
	}
	fileEnv, err := readEnvFile(envFile, explicit)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.applyFlags(flags)
	return cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return ConfigurationError{Field: "config", Source: path, Message: err.Error()}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return ConfigurationError{Field: "config", Source: path, Message: fmt.Sprintf("parse: %v", err)}
	}
	return nil
}

func readEnvFile(path string, explicit bool) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return map[string]string{}, nil
		}
		return nil, ConfigurationError{Field: "env-file", Source: path, Message: err.Error()}
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("TESTRAIL_SERVER", &c.Server)
	str("TESTRAIL_PROTOCOL", &c.Protocol)
	str("TESTRAIL_USER", &c.User)
	str("TESTRAIL_PW", &c.Password)
	str("TRL_MODE", &c.Mode)
	str("TRL_MISSING_SECTION", &c.MissingSection)
	str("TRL_OUTPUT_DIR", &c.OutputDir)

	if v, ok := lookup("TESTRAIL_PROJECT_ID"); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ConfigurationError{Field: "project_id", Source: "TESTRAIL_PROJECT_ID", Message: fmt.Sprintf("not a number: %q", v)}
		}
		c.ProjectID = id
	}
	if v, ok := lookup("TRL_CREATE_SUITE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ConfigurationError{Field: "create_suite", Source: "TRL_CREATE_SUITE", Message: fmt.Sprintf("not a boolean: %q", v)}
		}
		c.CreateSuite = b
	}
	return nil
}

func (c *Config) applyFlags(f Flags) {
	if f.Server != "" {
		c.Server = f.Server
	}
	if f.Protocol != "" {
		c.Protocol = f.Protocol
	}
	if f.ProjectID > 0 {
		c.ProjectID = f.ProjectID
	}
	if f.User != "" {
		c.User = f.User
	}
	if f.Password != "" {
		c.Password = f.Password
	}
	if f.Mode != "" {
		c.Mode = f.Mode
	}
	if f.MissingSection != "" {
		c.MissingSection = f.MissingSection
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.NoCreateSuite {
		c.CreateSuite = false
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
}

// Validate checks that everything a session needs is present.
func (c *Config) Validate() error {
	switch {
	case c.Server == "":
		return ConfigurationError{Field: "server", Message: "TestRail server is not set (TESTRAIL_SERVER)"}
	case c.ProjectID <= 0:
		return ConfigurationError{Field: "project_id", Message: "TestRail project id is not set (TESTRAIL_PROJECT_ID)"}
	case c.User == "":
		return ConfigurationError{Field: "user", Message: "TestRail user is not set (TESTRAIL_USER)"}
	}

	switch strings.ToLower(c.Protocol) {
	case "http", "https":
	default:
		return ConfigurationError{Field: "protocol", Message: fmt.Sprintf("unsupported protocol %q, want http or https", c.Protocol)}
	}
	switch c.Mode {
	case ModeCases, ModeResults:
	default:
		return ConfigurationError{Field: "mode", Message: fmt.Sprintf("unknown mode %q, want %s or %s", c.Mode, ModeCases, ModeResults)}
	}
	switch c.MissingSection {
	case MissingSectionCreate, MissingSectionSkip, MissingSectionFatal:
	default:
		return ConfigurationError{Field: "missing_section", Message: fmt.Sprintf("unknown policy %q", c.MissingSection)}
	}
	if c.Mode == ModeResults {
		if c.Naming.Milestone == "" || c.Naming.Plan == "" || c.Naming.Run == "" {
			return ConfigurationError{Field: "naming", Message: "milestone, plan and run templates are required in results mode"}
		}
	}
	return nil
}

// GetLogPath returns the progress log path inside dir, falling back to the
// configured output directory when dir is empty.
func (c *Config) GetLogPath(dir string) string {
	if dir == "" {
		dir = c.OutputDir
	}
	return filepath.Join(dir, c.LogName)
}
