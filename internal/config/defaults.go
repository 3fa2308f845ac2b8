package config

import "time"

const (
	// DefaultProtocol is the transport used to reach TestRail
	DefaultProtocol = "http"
	// DefaultMode is the listener strategy
	DefaultMode = ModeResults
	// DefaultMissingSection is the policy applied when a section is not found
	DefaultMissingSection = MissingSectionCreate
	// DefaultOutputDir is where the progress log is written when the host does not say
	DefaultOutputDir = "."
	// DefaultLogName is the progress log file name
	DefaultLogName = "tr_listener.log"
	// DefaultTimeout bounds every TestRail request
	DefaultTimeout = 60 * time.Second
	// DefaultConfigFile is read when present and no --config is given
	DefaultConfigFile = "trl.yaml"
	// DefaultEnvFile is read when present and no --env-file is given
	DefaultEnvFile = ".env"
)

// Default names of the TestRail entities a run is stored in. Templates are
// rendered with the host context (.Suite, .Vars) and the sprig function set.
const (
	DefaultMilestoneTemplate = `{{ .Suite }}`
	DefaultPlanTemplate      = `{{ .Suite }} - {{ now | date "2006-01-02" }}`
	DefaultRunTemplate       = `{{ .Suite }}{{ with .Vars.RUNTITLE }} ({{ . }}){{ end }}`
)

// DefaultStatusMap maps host test statuses to TestRail status ids.
var DefaultStatusMap = map[string]int{
	"PASS": 1,
	"FAIL": 5,
}
