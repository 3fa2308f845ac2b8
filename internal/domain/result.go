package domain

// RunNames are the TestRail entity names a run's results are stored under
type RunNames struct {
	Milestone string
	Plan      string
	Run       string
}

// RunContext identifies where results of this session go. RunID stays nil
// until the first suite with tests creates the plan entry.
type RunContext struct {
	MilestoneID int64
	PlanID      int64
	EntryID     string
	RunID       *int64
}

// Bootstrapped reports whether milestone and plan are resolved
func (rc RunContext) Bootstrapped() bool {
	return rc.PlanID != 0
}
