package testrail

// Request payloads. Optional fields are pointers (or nil slices) and are left
// out of the JSON body when unset.

// Ptr returns a pointer to v, for filling optional request fields.
func Ptr[T any](v T) *T {
	return &v
}

// AddMilestoneRequest is the body of add_milestone.
type AddMilestoneRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// AddPlanRequest is the body of add_plan.
type AddPlanRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MilestoneID *int64  `json:"milestone_id,omitempty"`
}

// UpdatePlanRequest is the body of update_plan.
type UpdatePlanRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	MilestoneID *int64  `json:"milestone_id,omitempty"`
}

// AddPlanEntryRequest is the body of add_plan_entry.
type AddPlanEntryRequest struct {
	SuiteID      int64   `json:"suite_id"`
	Name         string  `json:"name"`
	CaseIDs      []int64 `json:"case_ids,omitempty"`
	IncludeAll   *bool   `json:"include_all,omitempty"`
	Description  *string `json:"description,omitempty"`
	AssignedToID *int64  `json:"assignedto_id,omitempty"`
}

// UpdatePlanEntryRequest replaces the listed fields of an entry. CaseIDs
// replaces the whole case set of the entry's runs.
type UpdatePlanEntryRequest struct {
	Name         *string `json:"name,omitempty"`
	CaseIDs      []int64 `json:"case_ids,omitempty"`
	IncludeAll   *bool   `json:"include_all,omitempty"`
	Description  *string `json:"description,omitempty"`
	AssignedToID *int64  `json:"assignedto_id,omitempty"`
}

// AddResultRequest is the body of add_result and add_result_for_case.
type AddResultRequest struct {
	StatusID int     `json:"status_id"`
	Elapsed  *string `json:"elapsed,omitempty"`
	Comment  *string `json:"comment,omitempty"`
	Version  *string `json:"version,omitempty"`
	Defects  *string `json:"defects,omitempty"`
}

// AddSuiteRequest is the body of add_suite.
type AddSuiteRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// AddSectionRequest is the body of add_section.
type AddSectionRequest struct {
	SuiteID     int64   `json:"suite_id"`
	Name        string  `json:"name"`
	ParentID    *int64  `json:"parent_id,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddCaseRequest is the body of add_case.
type AddCaseRequest struct {
	Title  string `json:"title"`
	TypeID *int64 `json:"type_id,omitempty"`
}
