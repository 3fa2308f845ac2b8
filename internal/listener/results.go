package listener

import (
	"context"
	"fmt"

	"trl/internal/domain"
	"trl/internal/testrail"
)

// StatusMap maps host statuses (PASS, FAIL, ...) to TestRail status ids.
type StatusMap map[string]int

// Code returns the TestRail status id for status. An unknown status is an
// error, never a default.
func (m StatusMap) Code(status string) (int, error) {
	code, ok := m[status]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnmappedStatus, status)
	}
	return code, nil
}

// FormatElapsed renders a duration in milliseconds as TestRail's elapsed
// field: whole seconds, truncated, and never less than "1s".
func FormatElapsed(ms int64) string {
	secs := ms / 1000
	if secs <= 0 {
		return "1s"
	}
	return fmt.Sprintf("%ds", secs)
}

// reportResult posts the outcome of a finished test to the run. Every failure
// is logged and swallowed so that sibling tests are still reported.
func (s *Session) reportResult(ctx context.Context, name string, attrs domain.TestEndAttrs) {
	duration := FormatElapsed(attrs.ElapsedTime)
	outcome := outcomeLine(attrs.Status, duration, attrs.Message)

	code, err := s.statuses.Code(attrs.Status)
	if err != nil {
		s.log.Log("%s - not reported\n", outcome)
		s.log.Error("\tLISTENER ERROR: %v\n", err)
		return
	}

	section, ok := s.engine.CurrentSection()
	if !ok {
		s.log.Log("%s - failed to get case ID\n", outcome)
		return
	}
	caseID, ok := s.engine.CaseID(section, name)
	if !ok {
		s.log.Log("%s - failed to get case ID\n", outcome)
		s.log.Warn("LISTENER WARNING: no TestRail case for [%s.%s]\n", s.engine.Stack().CurrentPath(), name)
		return
	}
	if s.run.RunID == nil {
		s.log.Log("%s - no TestRail run\n", outcome)
		return
	}

	req := testrail.AddResultRequest{StatusID: code, Elapsed: testrail.Ptr(duration)}
	if attrs.Message != "" {
		req.Comment = testrail.Ptr(attrs.Message)
	}
	if _, err := s.api.AddResultForCase(ctx, *s.run.RunID, caseID, req); err != nil {
		s.log.Log("failed to update - %s\n", outcome)
		s.log.Error("\tLISTENER ERROR: add result for case error: [%s]\n", testrail.Describe(err))
		return
	}
	s.log.Log("%s\n", outcome)
}

func outcomeLine(status, duration, message string) string {
	if message == "" {
		return fmt.Sprintf("%s [%s]", status, duration)
	}
	return fmt.Sprintf("%s [%s] (%s)", status, duration, message)
}
