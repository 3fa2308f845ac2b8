package testrail

import (
	"context"
	"fmt"
)

// Projects

// GetProjects returns every project visible to the user.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	return getList[Project](ctx, c, "get_projects", "projects")
}

// GetProject returns a single project.
func (c *Client) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	var p Project
	if err := c.SendGet(ctx, fmt.Sprintf("get_project/%d", projectID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Milestones

// GetMilestones returns the milestones of a project.
func (c *Client) GetMilestones(ctx context.Context, projectID int64) ([]Milestone, error) {
	return getList[Milestone](ctx, c, fmt.Sprintf("get_milestones/%d", projectID), "milestones")
}

// GetMilestone returns a single milestone.
func (c *Client) GetMilestone(ctx context.Context, milestoneID int64) (*Milestone, error) {
	var m Milestone
	if err := c.SendGet(ctx, fmt.Sprintf("get_milestone/%d", milestoneID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMilestone creates a milestone in a project.
func (c *Client) AddMilestone(ctx context.Context, projectID int64, req AddMilestoneRequest) (*Milestone, error) {
	var m Milestone
	if err := c.SendPost(ctx, fmt.Sprintf("add_milestone/%d", projectID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CloseMilestone marks a milestone completed.
func (c *Client) CloseMilestone(ctx context.Context, milestoneID int64) (*Milestone, error) {
	var m Milestone
	body := map[string]bool{"is_completed": true}
	if err := c.SendPost(ctx, fmt.Sprintf("update_milestone/%d", milestoneID), body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMilestone deletes a milestone.
func (c *Client) DeleteMilestone(ctx context.Context, milestoneID int64) error {
	return c.SendPost(ctx, fmt.Sprintf("delete_milestone/%d", milestoneID), nil, nil)
}

// Plans

// GetPlans lists the plans of a project, restricted to one milestone when
// milestoneID is not nil.
func (c *Client) GetPlans(ctx context.Context, projectID int64, milestoneID *int64) ([]Plan, error) {
	uri := fmt.Sprintf("get_plans/%d", projectID)
	if milestoneID != nil {
		uri = fmt.Sprintf("%s&milestone_id=%d", uri, *milestoneID)
	}
	return getList[Plan](ctx, c, uri, "plans")
}

// GetPlan returns a test plan with its entries.
func (c *Client) GetPlan(ctx context.Context, planID int64) (*Plan, error) {
	var p Plan
	if err := c.SendGet(ctx, fmt.Sprintf("get_plan/%d", planID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddPlan creates a test plan in a project.
func (c *Client) AddPlan(ctx context.Context, projectID int64, req AddPlanRequest) (*Plan, error) {
	var p Plan
	if err := c.SendPost(ctx, fmt.Sprintf("add_plan/%d", projectID), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlan changes the name, description or milestone of a plan.
func (c *Client) UpdatePlan(ctx context.Context, planID int64, req UpdatePlanRequest) (*Plan, error) {
	var p Plan
	if err := c.SendPost(ctx, fmt.Sprintf("update_plan/%d", planID), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddPlanEntry adds an entry (and its run) to a plan. The returned entry
// carries the created runs.
func (c *Client) AddPlanEntry(ctx context.Context, planID int64, req AddPlanEntryRequest) (*PlanEntry, error) {
	if err := checkIncludeAll(req.IncludeAll, req.CaseIDs); err != nil {
		return nil, err
	}
	var e PlanEntry
	if err := c.SendPost(ctx, fmt.Sprintf("add_plan_entry/%d", planID), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdatePlanEntry replaces the case selection of a plan entry.
func (c *Client) UpdatePlanEntry(ctx context.Context, planID int64, entryID string, req UpdatePlanEntryRequest) (*PlanEntry, error) {
	if err := checkIncludeAll(req.IncludeAll, req.CaseIDs); err != nil {
		return nil, err
	}
	var e PlanEntry
	if err := c.SendPost(ctx, fmt.Sprintf("update_plan_entry/%d/%s", planID, entryID), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func checkIncludeAll(includeAll *bool, caseIDs []int64) error {
	if includeAll != nil && *includeAll && len(caseIDs) > 0 {
		return &APIError{Code: NotFoundCode, Message: "Test run requested to include all but has custom case IDs"}
	}
	return nil
}

// ClosePlan closes a plan and its runs.
func (c *Client) ClosePlan(ctx context.Context, planID int64) (*Plan, error) {
	var p Plan
	if err := c.SendPost(ctx, fmt.Sprintf("close_plan/%d", planID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlan deletes a plan.
func (c *Client) DeletePlan(ctx context.Context, planID int64) error {
	return c.SendPost(ctx, fmt.Sprintf("delete_plan/%d", planID), nil, nil)
}

// Runs and tests

// GetRun returns a single run.
func (c *Client) GetRun(ctx context.Context, runID int64) (*Run, error) {
	var r Run
	if err := c.SendGet(ctx, fmt.Sprintf("get_run/%d", runID), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CloseRun closes a run.
func (c *Client) CloseRun(ctx context.Context, runID int64) (*Run, error) {
	var r Run
	if err := c.SendPost(ctx, fmt.Sprintf("close_run/%d", runID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRun deletes a run.
func (c *Client) DeleteRun(ctx context.Context, runID int64) error {
	return c.SendPost(ctx, fmt.Sprintf("delete_run/%d", runID), nil, nil)
}

// GetTests returns the tests of a run.
func (c *Client) GetTests(ctx context.Context, runID int64) ([]Test, error) {
	return getList[Test](ctx, c, fmt.Sprintf("get_tests/%d", runID), "tests")
}

// GetTest returns a single test.
func (c *Client) GetTest(ctx context.Context, testID int64) (*Test, error) {
	var t Test
	if err := c.SendGet(ctx, fmt.Sprintf("get_test/%d", testID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Results

// AddResult adds a result to a test.
func (c *Client) AddResult(ctx context.Context, testID int64, req AddResultRequest) (*Result, error) {
	var r Result
	if err := c.SendPost(ctx, fmt.Sprintf("add_result/%d", testID), req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// AddResultForCase adds a result to the test of a case in a run.
func (c *Client) AddResultForCase(ctx context.Context, runID, caseID int64, req AddResultRequest) (*Result, error) {
	var r Result
	if err := c.SendPost(ctx, fmt.Sprintf("add_result_for_case/%d/%d", runID, caseID), req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Suites and sections

// GetSuites returns the suites of a project.
func (c *Client) GetSuites(ctx context.Context, projectID int64) ([]Suite, error) {
	return getList[Suite](ctx, c, fmt.Sprintf("get_suites/%d", projectID), "suites")
}

// GetSuite returns a single suite.
func (c *Client) GetSuite(ctx context.Context, suiteID int64) (*Suite, error) {
	var s Suite
	if err := c.SendGet(ctx, fmt.Sprintf("get_suite/%d", suiteID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddSuite creates a suite in a project.
func (c *Client) AddSuite(ctx context.Context, projectID int64, req AddSuiteRequest) (*Suite, error) {
	var s Suite
	if err := c.SendPost(ctx, fmt.Sprintf("add_suite/%d", projectID), req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSections returns the sections of a suite.
func (c *Client) GetSections(ctx context.Context, projectID, suiteID int64) ([]Section, error) {
	return getList[Section](ctx, c, fmt.Sprintf("get_sections/%d&suite_id=%d", projectID, suiteID), "sections")
}

// GetSection returns a single section.
func (c *Client) GetSection(ctx context.Context, sectionID int64) (*Section, error) {
	var s Section
	if err := c.SendGet(ctx, fmt.Sprintf("get_section/%d", sectionID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddSection creates a section in a suite, nested when ParentID is set.
func (c *Client) AddSection(ctx context.Context, projectID int64, req AddSectionRequest) (*Section, error) {
	var s Section
	if err := c.SendPost(ctx, fmt.Sprintf("add_section/%d", projectID), req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Cases

// GetCaseTypes returns the case types defined on the server.
func (c *Client) GetCaseTypes(ctx context.Context) ([]CaseType, error) {
	var types []CaseType
	if err := c.SendGet(ctx, "get_case_types", &types); err != nil {
		return nil, err
	}
	return types, nil
}

// AutomatedCaseTypeID returns the id of the case type named "Automated".
func (c *Client) AutomatedCaseTypeID(ctx context.Context) (int64, error) {
	types, err := c.GetCaseTypes(ctx)
	if err != nil {
		return 0, err
	}
	for _, t := range types {
		if t.Name == "Automated" {
			return t.ID, nil
		}
	}
	return 0, notFound("'Automated' testcase type not found")
}

// GetCases lists the cases of a suite, restricted to one section when
// sectionID is not nil.
func (c *Client) GetCases(ctx context.Context, projectID, suiteID int64, sectionID *int64) ([]Case, error) {
	uri := fmt.Sprintf("get_cases/%d&suite_id=%d", projectID, suiteID)
	if sectionID != nil {
		uri = fmt.Sprintf("%s&section_id=%d", uri, *sectionID)
	}
	return getList[Case](ctx, c, uri, "cases")
}

// AddCase creates a case in a section.
func (c *Client) AddCase(ctx context.Context, sectionID int64, req AddCaseRequest) (*Case, error) {
	var cs Case
	if err := c.SendPost(ctx, fmt.Sprintf("add_case/%d", sectionID), req, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// Users

// GetUsers returns the users of the server.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	return getList[User](ctx, c, "get_users", "users")
}

// UserID returns the id of the user whose name or email equals user.
func (c *Client) UserID(ctx context.Context, user string) (int64, error) {
	users, err := c.GetUsers(ctx)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if u.Name == user || u.Email == user {
			return u.ID, nil
		}
	}
	return 0, notFound("[%s] not found", user)
}
