package listener

import (
	"context"

	"trl/internal/testrail"
)

// API is the part of the TestRail client the listener needs.
// *testrail.Client satisfies it.
type API interface {
	GetSuites(ctx context.Context, projectID int64) ([]testrail.Suite, error)
	AddSuite(ctx context.Context, projectID int64, req testrail.AddSuiteRequest) (*testrail.Suite, error)
	GetSections(ctx context.Context, projectID, suiteID int64) ([]testrail.Section, error)
	AddSection(ctx context.Context, projectID int64, req testrail.AddSectionRequest) (*testrail.Section, error)
	GetCases(ctx context.Context, projectID, suiteID int64, sectionID *int64) ([]testrail.Case, error)
	AddCase(ctx context.Context, sectionID int64, req testrail.AddCaseRequest) (*testrail.Case, error)

	GetMilestones(ctx context.Context, projectID int64) ([]testrail.Milestone, error)
	AddMilestone(ctx context.Context, projectID int64, req testrail.AddMilestoneRequest) (*testrail.Milestone, error)
	GetPlans(ctx context.Context, projectID int64, milestoneID *int64) ([]testrail.Plan, error)
	AddPlan(ctx context.Context, projectID int64, req testrail.AddPlanRequest) (*testrail.Plan, error)
	AddPlanEntry(ctx context.Context, planID int64, req testrail.AddPlanEntryRequest) (*testrail.PlanEntry, error)
	UpdatePlanEntry(ctx context.Context, planID int64, entryID string, req testrail.UpdatePlanEntryRequest) (*testrail.PlanEntry, error)
	GetTests(ctx context.Context, runID int64) ([]testrail.Test, error)
	AddResultForCase(ctx context.Context, runID, caseID int64, req testrail.AddResultRequest) (*testrail.Result, error)

	AutomatedCaseTypeID(ctx context.Context) (int64, error)
	UserID(ctx context.Context, user string) (int64, error)
}

var _ API = (*testrail.Client)(nil)
