package domain

// SuiteAttrs are the attributes the host sends with start_suite and end_suite
type SuiteAttrs struct {
	ID        string   `json:"id"`                  // Scope id: "s1" for the top suite, "s1-s1" for its first child
	LongName  string   `json:"longname,omitempty"`  // Dotted full name of the suite
	Source    string   `json:"source,omitempty"`    // File or directory the suite came from
	Tests     []string `json:"tests,omitempty"`     // Names of the tests directly in this suite
	Suites    []string `json:"suites,omitempty"`    // Names of the direct child suites
	Variables Vars     `json:"variables,omitempty"` // Host variables visible when the event fired
}

// TestAttrs are the attributes the host sends with start_test
type TestAttrs struct {
	ID       string   `json:"id"`
	LongName string   `json:"longname,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// TestEndAttrs are the attributes the host sends with end_test
type TestEndAttrs struct {
	ID          string `json:"id"`
	Status      string `json:"status"`      // Host status, e.g. PASS or FAIL
	Message     string `json:"message"`     // Failure message, empty on success
	ElapsedTime int64  `json:"elapsedtime"` // Duration in milliseconds
}

// HostContext is the host state the naming policy reads when the run
// entities are bootstrapped
type HostContext struct {
	Suite string            // Top-level suite name
	Vars  map[string]string // Host variables at the moment of bootstrap
}
