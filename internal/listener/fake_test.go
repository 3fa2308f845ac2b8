package listener

import (
	"context"
	"fmt"

	"trl/internal/testrail"
)

// fakeAPI is an in-memory TestRail holding just enough state for the
// listener. Every call is recorded by name; fail makes a named call error.
type fakeAPI struct {
	suites     []testrail.Suite
	sections   []testrail.Section
	cases      []testrail.Case
	milestones []testrail.Milestone
	plans      []testrail.Plan
	runTests   map[int64][]testrail.Test
	entries    map[string]*testrail.PlanEntry

	typeID int64
	userID int64
	nextID int64

	calls   []string
	fail    map[string]error
	added   []testrail.AddPlanEntryRequest
	updates []testrail.UpdatePlanEntryRequest
	results []postedResult
}

type postedResult struct {
	runID  int64
	caseID int64
	req    testrail.AddResultRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		runTests: make(map[int64][]testrail.Test),
		entries:  make(map[string]*testrail.PlanEntry),
		fail:     make(map[string]error),
		typeID:   3,
		userID:   4,
		nextID:   1000,
	}
}

func (f *fakeAPI) call(name string) error {
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeAPI) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) GetSuites(_ context.Context, _ int64) ([]testrail.Suite, error) {
	if err := f.call("GetSuites"); err != nil {
		return nil, err
	}
	return f.suites, nil
}

func (f *fakeAPI) AddSuite(_ context.Context, _ int64, req testrail.AddSuiteRequest) (*testrail.Suite, error) {
	if err := f.call("AddSuite"); err != nil {
		return nil, err
	}
	s := testrail.Suite{ID: f.id(), Name: req.Name}
	f.suites = append(f.suites, s)
	return &s, nil
}

func (f *fakeAPI) GetSections(_ context.Context, _, suiteID int64) ([]testrail.Section, error) {
	if err := f.call("GetSections"); err != nil {
		return nil, err
	}
	var out []testrail.Section
	for _, s := range f.sections {
		if s.SuiteID == suiteID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAPI) AddSection(_ context.Context, _ int64, req testrail.AddSectionRequest) (*testrail.Section, error) {
	if err := f.call("AddSection"); err != nil {
		return nil, err
	}
	s := testrail.Section{ID: f.id(), Name: req.Name, SuiteID: req.SuiteID, ParentID: req.ParentID}
	f.sections = append(f.sections, s)
	return &s, nil
}

func (f *fakeAPI) GetCases(_ context.Context, _, suiteID int64, sectionID *int64) ([]testrail.Case, error) {
	if err := f.call("GetCases"); err != nil {
		return nil, err
	}
	var out []testrail.Case
	for _, c := range f.cases {
		if sectionID == nil || c.SectionID == *sectionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAPI) AddCase(_ context.Context, sectionID int64, req testrail.AddCaseRequest) (*testrail.Case, error) {
	if err := f.call("AddCase"); err != nil {
		return nil, err
	}
	c := testrail.Case{ID: f.id(), Title: req.Title, SectionID: sectionID}
	if req.TypeID != nil {
		c.TypeID = *req.TypeID
	}
	f.cases = append(f.cases, c)
	return &c, nil
}

func (f *fakeAPI) GetMilestones(_ context.Context, _ int64) ([]testrail.Milestone, error) {
	if err := f.call("GetMilestones"); err != nil {
		return nil, err
	}
	return f.milestones, nil
}

func (f *fakeAPI) AddMilestone(_ context.Context, _ int64, req testrail.AddMilestoneRequest) (*testrail.Milestone, error) {
	if err := f.call("AddMilestone"); err != nil {
		return nil, err
	}
	m := testrail.Milestone{ID: f.id(), Name: req.Name}
	f.milestones = append(f.milestones, m)
	return &m, nil
}

func (f *fakeAPI) GetPlans(_ context.Context, _ int64, milestoneID *int64) ([]testrail.Plan, error) {
	if err := f.call("GetPlans"); err != nil {
		return nil, err
	}
	var out []testrail.Plan
	for _, p := range f.plans {
		if milestoneID == nil || (p.MilestoneID != nil && *p.MilestoneID == *milestoneID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) AddPlan(_ context.Context, _ int64, req testrail.AddPlanRequest) (*testrail.Plan, error) {
	if err := f.call("AddPlan"); err != nil {
		return nil, err
	}
	p := testrail.Plan{ID: f.id(), Name: req.Name, MilestoneID: req.MilestoneID}
	f.plans = append(f.plans, p)
	return &p, nil
}

func (f *fakeAPI) setRunCases(runID int64, caseIDs []int64) {
	tests := make([]testrail.Test, len(caseIDs))
	for i, id := range caseIDs {
		tests[i] = testrail.Test{ID: f.id(), CaseID: id, RunID: runID}
	}
	f.runTests[runID] = tests
}

func (f *fakeAPI) AddPlanEntry(_ context.Context, _ int64, req testrail.AddPlanEntryRequest) (*testrail.PlanEntry, error) {
	if err := f.call("AddPlanEntry"); err != nil {
		return nil, err
	}
	f.added = append(f.added, req)
	run := testrail.Run{ID: f.id(), Name: req.Name, SuiteID: req.SuiteID}
	e := &testrail.PlanEntry{ID: fmt.Sprintf("entry-%d", f.id()), SuiteID: req.SuiteID, Name: req.Name, Runs: []testrail.Run{run}}
	f.entries[e.ID] = e
	f.setRunCases(run.ID, req.CaseIDs)
	return e, nil
}

func (f *fakeAPI) UpdatePlanEntry(_ context.Context, _ int64, entryID string, req testrail.UpdatePlanEntryRequest) (*testrail.PlanEntry, error) {
	if err := f.call("UpdatePlanEntry"); err != nil {
		return nil, err
	}
	f.updates = append(f.updates, req)
	e, ok := f.entries[entryID]
	if !ok {
		return nil, &testrail.APIError{Code: 400, Message: "unknown entry"}
	}
	f.setRunCases(e.Runs[0].ID, req.CaseIDs)
	return e, nil
}

func (f *fakeAPI) GetTests(_ context.Context, runID int64) ([]testrail.Test, error) {
	if err := f.call("GetTests"); err != nil {
		return nil, err
	}
	return f.runTests[runID], nil
}

func (f *fakeAPI) AddResultForCase(_ context.Context, runID, caseID int64, req testrail.AddResultRequest) (*testrail.Result, error) {
	if err := f.call("AddResultForCase"); err != nil {
		return nil, err
	}
	f.results = append(f.results, postedResult{runID: runID, caseID: caseID, req: req})
	return &testrail.Result{ID: f.id(), StatusID: req.StatusID}, nil
}

func (f *fakeAPI) AutomatedCaseTypeID(_ context.Context) (int64, error) {
	if err := f.call("AutomatedCaseTypeID"); err != nil {
		return 0, err
	}
	return f.typeID, nil
}

func (f *fakeAPI) UserID(_ context.Context, _ string) (int64, error) {
	if err := f.call("UserID"); err != nil {
		return 0, err
	}
	return f.userID, nil
}

var _ API = (*fakeAPI)(nil)
