package testrail

// Project is a TestRail project.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SuiteMode   int    `json:"suite_mode"`
	IsCompleted bool   `json:"is_completed"`
}

// Milestone groups plans and runs.
type Milestone struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProjectID   int64  `json:"project_id"`
	Description string `json:"description,omitempty"`
	IsCompleted bool   `json:"is_completed"`
}

// Plan holds entries, each grouping one or more runs of a suite.
type Plan struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	ProjectID   int64       `json:"project_id"`
	MilestoneID *int64      `json:"milestone_id"`
	IsCompleted bool        `json:"is_completed"`
	Entries     []PlanEntry `json:"entries,omitempty"`
}

// PlanEntry is a plan's group of runs. Its identifier is a GUID string.
type PlanEntry struct {
	ID      string `json:"id"`
	SuiteID int64  `json:"suite_id"`
	Name    string `json:"name"`
	Runs    []Run  `json:"runs"`
}

// Run holds tests (case instances) and their results.
type Run struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SuiteID     int64  `json:"suite_id"`
	PlanID      *int64 `json:"plan_id"`
	EntryID     string `json:"entry_id,omitempty"`
	IncludeAll  bool   `json:"include_all"`
	IsCompleted bool   `json:"is_completed"`
}

// Test is a case attached to a run.
type Test struct {
	ID       int64  `json:"id"`
	CaseID   int64  `json:"case_id"`
	RunID    int64  `json:"run_id"`
	Title    string `json:"title"`
	StatusID int    `json:"status_id"`
}

// Result is one recorded outcome of a test.
type Result struct {
	ID       int64   `json:"id"`
	TestID   int64   `json:"test_id"`
	StatusID int     `json:"status_id"`
	Comment  *string `json:"comment"`
	Elapsed  *string `json:"elapsed"`
}

// Suite is the top-level case container of a project.
type Suite struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProjectID   int64  `json:"project_id"`
	Description string `json:"description,omitempty"`
	IsCompleted bool   `json:"is_completed"`
}

// Section is a nested case container inside a suite. ParentID is nil for
// sections directly under the suite.
type Section struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SuiteID  int64  `json:"suite_id"`
	ParentID *int64 `json:"parent_id"`
	Depth    int    `json:"depth"`
}

// Case is a persisted test identity.
type Case struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	SectionID int64  `json:"section_id"`
	SuiteID   int64  `json:"suite_id"`
	TypeID    int64  `json:"type_id"`
}

// CaseType is an entry of the case type catalog.
type CaseType struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// User is a TestRail account.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Result status identifiers of a default TestRail install.
const (
	StatusPassed   = 1
	StatusBlocked  = 2
	StatusUntested = 3
	StatusRetest   = 4
	StatusFailed   = 5
)
