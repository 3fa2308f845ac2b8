package listener

import (
	"context"
	"errors"
	"fmt"

	"trl/internal/domain"
	"trl/internal/testrail"
)

// attachCases adds the cases of a section (nil for the top scope) to the
// session's run. The first batch creates the plan entry (and with it the
// run); later batches update the entry with the union of the run's current
// cases and the new ones.
func (s *Session) attachCases(ctx context.Context, section *int64, tests []string) error {
	ids, err := s.engine.LoadCases(ctx, section, tests)
	if err != nil {
		return fmt.Errorf("get test cases: %w", err)
	}

	rc := &s.run
	if rc.RunID == nil {
		entry, err := s.api.AddPlanEntry(ctx, rc.PlanID, testrail.AddPlanEntryRequest{
			SuiteID:      s.engine.RootID(),
			Name:         s.names.Run,
			CaseIDs:      ids,
			IncludeAll:   testrail.Ptr(false),
			AssignedToID: testrail.Ptr(s.userID),
		})
		if err != nil {
			return fmt.Errorf("add plan entry: %w", err)
		}
		// without configurations an entry holds exactly one run
		if len(entry.Runs) == 0 {
			return fmt.Errorf("add plan entry: %w", errors.New("response holds no run"))
		}
		rc.EntryID = entry.ID
		rc.RunID = testrail.Ptr(entry.Runs[0].ID)
		s.log.Log(" - Using TestRail Run [%s] - created (%d)\n", s.names.Run, *rc.RunID)
		return nil
	}

	existing, err := s.api.GetTests(ctx, *rc.RunID)
	if err != nil {
		return fmt.Errorf("get tests: %w", err)
	}
	current := make([]int64, len(existing))
	for i, t := range existing {
		current[i] = t.CaseID
	}
	merged := UnionCaseIDs(current, ids)
	if _, err := s.api.UpdatePlanEntry(ctx, rc.PlanID, rc.EntryID, testrail.UpdatePlanEntryRequest{CaseIDs: merged}); err != nil {
		return fmt.Errorf("update plan entry: %w", err)
	}
	return nil
}

// UnionCaseIDs returns every id of existing followed by the ids of added not
// already present. Order is kept and duplicates are dropped.
func UnionCaseIDs(existing, added []int64) []int64 {
	seen := make(map[int64]bool, len(existing)+len(added))
	out := make([]int64, 0, len(existing)+len(added))
	for _, list := range [][]int64{existing, added} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// RunContext returns the run identifiers resolved so far.
func (s *Session) RunContext() domain.RunContext {
	return s.run
}
