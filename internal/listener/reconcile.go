package listener

import (
	"context"
	"errors"
	"fmt"

	"trl/internal/config"
	"trl/internal/testrail"
)

// Resolution is the outcome of mapping a local scope to a TestRail container.
type Resolution struct {
	ID      *int64 // nil when the scope could not be mapped
	Created bool
	// Skipped is set when the scope's tests must be ignored.
	Skipped bool
}

// Engine maps the nested local hierarchy onto TestRail's suite/section tree.
// The top scope maps to a suite; every nested scope maps to a section whose
// identity is (name, parent). Only what is missing is created.
type Engine struct {
	api            API
	projectID      int64
	createSuite    bool
	missingSection string
	log            *ProgressLog

	stack  *Stack
	rootID int64

	// suite and section ids are separate id spaces, so cases matched
	// suite-wide for the top scope are kept apart from per-section ones
	rootCases map[string]int64
	// section id -> case title -> case id
	cases map[int64]map[string]int64
}

// NewEngine creates an engine for the configured project.
func NewEngine(api API, cfg *config.Config, log *ProgressLog) *Engine {
	return &Engine{
		api:            api,
		projectID:      cfg.ProjectID,
		createSuite:    cfg.CreateSuite,
		missingSection: cfg.MissingSection,
		log:            log,
		stack:          NewStack(),
		rootCases:      make(map[string]int64),
		cases:          make(map[int64]map[string]int64),
	}
}

// Stack exposes the container path of the open scopes.
func (e *Engine) Stack() *Stack {
	return e.stack
}

// RootID returns the suite id resolved for the top scope.
func (e *Engine) RootID() int64 {
	return e.rootID
}

// ResolveSuite finds the suite named after the top scope, creating it when
// allowed. Every failure is fatal.
func (e *Engine) ResolveSuite(ctx context.Context, name string) (Resolution, error) {
	suites, err := e.api.GetSuites(ctx, e.projectID)
	if err != nil {
		e.log.Error("LISTENER FATAL ERROR: get test suites error: %s\n", testrail.Describe(err))
		return Resolution{}, fatal("get suites", err)
	}
	for _, s := range suites {
		if s.Name == name {
			e.rootID = s.ID
			return Resolution{ID: testrail.Ptr(s.ID)}, nil
		}
	}

	if !e.createSuite {
		e.log.Error("LISTENER FATAL ERROR: Failed to find ID for TestRail test suite [%s]\n", name)
		return Resolution{}, fatal("find suite", fmt.Errorf("suite %q does not exist and creation is disabled", name))
	}
	suite, err := e.api.AddSuite(ctx, e.projectID, testrail.AddSuiteRequest{Name: name})
	if err != nil {
		e.log.Error("LISTENER FATAL ERROR: add test suite error: %s\n", testrail.Describe(err))
		return Resolution{}, fatal("add suite", err)
	}
	e.rootID = suite.ID
	return Resolution{ID: testrail.Ptr(suite.ID), Created: true}, nil
}

// ResolveSection finds the section for a nested scope under the innermost
// open scope. Lookup and create failures are reported as plain errors: the
// caller logs them and continues with an unresolved scope. Only the fatal
// missing-section policy produces a FatalError.
func (e *Engine) ResolveSection(ctx context.Context, name string) (Resolution, error) {
	parent, err := e.stack.CurrentID()
	if err != nil {
		return Resolution{}, err
	}
	if parent == nil {
		// the enclosing scope is unmapped, so is everything below it
		return Resolution{Skipped: true}, nil
	}
	// sections directly under the suite have no parent section
	if e.stack.Depth() == 1 {
		parent = nil
	}

	sections, err := e.api.GetSections(ctx, e.projectID, e.rootID)
	if err != nil {
		return Resolution{Skipped: true}, fmt.Errorf("get sections: %w", err)
	}
	for _, s := range sections {
		if s.Name == name && sameID(s.ParentID, parent) {
			return Resolution{ID: testrail.Ptr(s.ID)}, nil
		}
	}

	switch e.missingSection {
	case config.MissingSectionSkip:
		return Resolution{Skipped: true}, errSectionNotFound
	case config.MissingSectionFatal:
		e.log.Error("LISTENER FATAL ERROR: Failed to find TestRail section [%s]\n", name)
		return Resolution{}, fatal("find section", fmt.Errorf("section %q does not exist", name))
	}

	section, err := e.api.AddSection(ctx, e.projectID, testrail.AddSectionRequest{
		SuiteID:  e.rootID,
		Name:     name,
		ParentID: parent,
	})
	if err != nil {
		return Resolution{Skipped: true}, fmt.Errorf("add section: %w", err)
	}
	return Resolution{ID: testrail.Ptr(section.ID), Created: true}, nil
}

var errSectionNotFound = errors.New("section not found")

// CurrentSection returns the section of the innermost open scope. The
// section is nil while only the top scope is open; ok is false when the
// innermost scope is unmapped.
func (e *Engine) CurrentSection() (section *int64, ok bool) {
	id, err := e.stack.CurrentID()
	if err != nil || id == nil {
		return nil, false
	}
	if e.stack.Depth() == 1 {
		return nil, true
	}
	return id, true
}

// LoadCases fetches the cases of a section and records the ones whose title
// matches a local test. A nil section stands for the top scope, whose tests
// match cases anywhere in the suite. It returns the matched case ids in test
// order.
func (e *Engine) LoadCases(ctx context.Context, section *int64, tests []string) ([]int64, error) {
	remote, err := e.api.GetCases(ctx, e.projectID, e.rootID, section)
	if err != nil {
		return nil, err
	}

	byTitle := e.caseMap(section)
	var ids []int64
	for _, title := range tests {
		for _, c := range remote {
			if c.Title == title {
				byTitle[title] = c.ID
				ids = append(ids, c.ID)
				break
			}
		}
	}
	return ids, nil
}

func (e *Engine) caseMap(section *int64) map[string]int64 {
	if section == nil {
		return e.rootCases
	}
	byTitle, ok := e.cases[*section]
	if !ok {
		byTitle = make(map[string]int64)
		e.cases[*section] = byTitle
	}
	return byTitle
}

// CaseID returns the case recorded for a title within a section, nil for
// the top scope.
func (e *Engine) CaseID(section *int64, title string) (int64, bool) {
	var byTitle map[string]int64
	if section == nil {
		byTitle = e.rootCases
	} else {
		byTitle = e.cases[*section]
	}
	id, ok := byTitle[title]
	return id, ok
}

// Cases returns the title to case id mapping recorded for a section, nil for
// the top scope.
func (e *Engine) Cases(section *int64) map[string]int64 {
	if section == nil {
		return e.rootCases
	}
	return e.cases[*section]
}

// EnsureCase creates a case titled title in the section unless one exists.
func (e *Engine) EnsureCase(ctx context.Context, sectionID int64, title string, typeID int64) (id int64, created bool, err error) {
	remote, err := e.api.GetCases(ctx, e.projectID, e.rootID, testrail.Ptr(sectionID))
	if err != nil {
		return 0, false, fmt.Errorf("get test cases: %w", err)
	}
	for _, c := range remote {
		if c.Title == title {
			return c.ID, false, nil
		}
	}

	c, err := e.api.AddCase(ctx, sectionID, testrail.AddCaseRequest{Title: title, TypeID: testrail.Ptr(typeID)})
	if err != nil {
		return 0, false, fmt.Errorf("add test case: %w", err)
	}
	return c.ID, true, nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
