package listener

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"trl/internal/config"
	"trl/internal/domain"
	"trl/internal/logging"
)

// strategy is what differs between registering cases and reporting results.
type strategy interface {
	header(suite string, created string) string
	// contextReady runs once, when host variables are populated.
	contextReady(ctx context.Context, s *Session, hc domain.HostContext) error
	// enterScope runs after a scope was mapped to a container: section, or
	// the suite itself when section is nil.
	enterScope(ctx context.Context, s *Session, section *int64, attrs domain.SuiteAttrs) error
	startTest(ctx context.Context, s *Session, name string)
	endTest(ctx context.Context, s *Session, name string, attrs domain.TestEndAttrs)
}

// Session receives the host's lifecycle callbacks for one test run and
// mirrors them into TestRail. Callbacks must be delivered sequentially.
//
// Only fatal errors are returned from callbacks (see IsFatal); everything
// else is written to the progress log and the run continues. After a fatal
// error every callback returns that error again.
type Session struct {
	id       string
	cfg      *config.Config
	api      API
	log      *ProgressLog
	engine   *Engine
	boot     *Bootstrapper
	strategy strategy
	statuses StatusMap

	typeID int64
	userID int64

	rootName     string
	rootVars     map[string]string
	contextReady bool
	names        domain.RunNames
	run          domain.RunContext

	err error
}

// New creates a session for cfg.Mode. It resolves the remote identities the
// mode needs up front (Automated case type, session user); config and remote
// failures here are returned and the session must not be used.
func New(ctx context.Context, cfg *config.Config, api API, namer Namer, console io.Writer) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := NewProgressLog(console)
	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		api:      api,
		log:      log,
		engine:   NewEngine(api, cfg, log),
		statuses: StatusMap(cfg.StatusMap),
	}

	switch cfg.Mode {
	case config.ModeCases:
		typeID, err := api.AutomatedCaseTypeID(ctx)
		if err != nil {
			return nil, fatal("resolve Automated case type", err)
		}
		s.typeID = typeID
		s.strategy = casesStrategy{}
	case config.ModeResults:
		if namer == nil {
			tn, err := NewTemplateNamer(cfg.Naming)
			if err != nil {
				return nil, err
			}
			namer = tn
		}
		userID, err := api.UserID(ctx, cfg.User)
		if err != nil {
			return nil, fatal("resolve session user", err)
		}
		s.userID = userID
		s.boot = NewBootstrapper(api, cfg.ProjectID, namer, log)
		s.strategy = resultsStrategy{}
	}

	logging.Info("Session", "session %s created in %s mode for project %d", s.id, cfg.Mode, cfg.ProjectID)
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Engine exposes the reconciliation state, mostly for inspection.
func (s *Session) Engine() *Engine {
	return s.engine
}

// LogPath returns the progress log file, empty before the first suite.
func (s *Session) LogPath() string {
	return s.log.Path()
}

// StartSuite maps a scope to a TestRail container and pushes it.
func (s *Session) StartSuite(ctx context.Context, name string, attrs domain.SuiteAttrs) error {
	if s.err != nil {
		return s.err
	}
	var err error
	if s.engine.Stack().Depth() == 0 {
		err = s.startRoot(ctx, name, attrs)
	} else {
		err = s.startNested(ctx, name, attrs)
	}
	if IsFatal(err) {
		s.err = err
		s.log.Log("Aborting test run: %v\n", err)
	}
	return err
}

func (s *Session) startRoot(ctx context.Context, name string, attrs domain.SuiteAttrs) error {
	// the host only knows its output directory once the run started
	path := s.cfg.GetLogPath(attrs.Variables["outputdir"])
	if err := s.log.Open(path); err != nil {
		s.log.Warn("LISTENER WARNING: %v\n", err)
	}
	s.log.Log("TestRail listener session %s\n", s.id)

	res, err := s.engine.ResolveSuite(ctx, name)
	if err != nil {
		return err
	}
	created := ""
	if res.Created {
		created = fmt.Sprintf(" - created (%d)", *res.ID)
	}
	s.log.Log("%s", s.strategy.header(name, created))
	s.engine.Stack().Push(name, res.ID)
	s.rootName, s.rootVars = name, attrs.Variables

	return s.strategy.enterScope(ctx, s, nil, attrs)
}

func (s *Session) startNested(ctx context.Context, name string, attrs domain.SuiteAttrs) error {
	stack := s.engine.Stack()
	// first child of the top suite (id s1-s1): the host's top-level setup has run
	if !s.contextReady && stack.Depth() == 1 {
		if err := s.ready(ctx, attrs); err != nil {
			return err
		}
	}

	res, err := s.engine.ResolveSection(ctx, name)
	msg := fmt.Sprintf("%s.%s", stack.CurrentPath(), name)
	switch {
	case IsFatal(err):
		return err
	case errors.Is(err, errSectionNotFound):
		s.log.Log("%s - failed to get section id\n", msg)
		s.log.Error("\tLISTENER ERROR: Failed to find TestRail section [%s]\n", name)
	case err != nil:
		s.log.Log("%s - failed to get section id\n", msg)
		s.log.Error("\tLISTENER ERROR: %v\n", err)
	case res.Skipped:
		s.log.Log("%s - skipped, parent section unresolved\n", msg)
	case res.Created:
		s.log.Log("%s - created (%d)\n", msg, *res.ID)
	default:
		s.log.Log("%s\n", msg)
	}
	stack.Push(name, res.ID)

	if res.Skipped || res.ID == nil {
		return nil
	}
	return s.strategy.enterScope(ctx, s, res.ID, attrs)
}

// ready hands the host context to the strategy exactly once.
func (s *Session) ready(ctx context.Context, attrs domain.SuiteAttrs) error {
	s.contextReady = true
	return s.strategy.contextReady(ctx, s, hostContext(s.rootName, s.rootVars, attrs.Variables))
}

// StartTest logs the test and, when registering cases, makes sure it exists.
func (s *Session) StartTest(ctx context.Context, name string, _ domain.TestAttrs) error {
	if s.err != nil {
		return s.err
	}
	s.strategy.startTest(ctx, s, name)
	return nil
}

// EndTest reports the test's outcome when reporting results.
func (s *Session) EndTest(ctx context.Context, name string, attrs domain.TestEndAttrs) error {
	if s.err != nil {
		return s.err
	}
	s.strategy.endTest(ctx, s, name, attrs)
	return nil
}

// EndSuite pops the scope.
func (s *Session) EndSuite(_ context.Context, name string, _ domain.SuiteAttrs) error {
	if s.err != nil {
		return s.err
	}
	if err := s.engine.Stack().Pop(); err != nil {
		return fmt.Errorf("end suite %q: %w", name, err)
	}
	s.log.Log("%s\n", s.engine.Stack().CurrentPath())
	return nil
}

// Close closes the progress log.
func (s *Session) Close(_ context.Context) error {
	logging.Debug("Session", "session %s closed, run %+v", s.id, s.run)
	return s.log.Close()
}

type casesStrategy struct{}

func (casesStrategy) header(suite, created string) string {
	return fmt.Sprintf("Adding test cases to TestRail from dry run of suite: %s\n\nSuites:\n%s%s\n", suite, suite, created)
}

func (casesStrategy) contextReady(context.Context, *Session, domain.HostContext) error {
	return nil
}

func (casesStrategy) enterScope(context.Context, *Session, *int64, domain.SuiteAttrs) error {
	return nil
}

func (casesStrategy) startTest(ctx context.Context, s *Session, name string) {
	stack := s.engine.Stack()
	path := fmt.Sprintf("%s.%s", stack.CurrentPath(), name)

	section, ok := s.engine.CurrentSection()
	if !ok {
		s.log.Log("%s - no TestRail section\n", path)
		return
	}
	// tests of the top suite itself live in a suite without a section
	if section == nil {
		s.log.Log("%s - not registered, tests must be inside a sub-suite\n", path)
		return
	}

	id, created, err := s.engine.EnsureCase(ctx, *section, name, s.typeID)
	switch {
	case err != nil:
		s.log.Log("%s\n", path)
		s.log.Error("\tLISTENER ERROR: %v\n", err)
	case created:
		s.log.Log("%s - created (%d)\n", path, id)
	default:
		s.log.Log("%s\n", path)
	}
}

func (casesStrategy) endTest(context.Context, *Session, string, domain.TestEndAttrs) {}

type resultsStrategy struct{}

func (resultsStrategy) header(suite, created string) string {
	return fmt.Sprintf("Adding test results to TestRail from running suite: %s%s\n", suite, created)
}

func (resultsStrategy) contextReady(ctx context.Context, s *Session, hc domain.HostContext) error {
	names, rc, err := s.boot.Bootstrap(ctx, hc)
	if err != nil {
		return err
	}
	s.names, s.run = names, rc
	logging.Debug("Session", "bootstrapped %s", describeNames(names))
	s.log.Log("\nSuites:\n%s\n", s.engine.Stack().CurrentPath())
	return nil
}

func (resultsStrategy) enterScope(ctx context.Context, s *Session, section *int64, attrs domain.SuiteAttrs) error {
	if len(attrs.Tests) == 0 {
		return nil
	}
	// tests ahead of the first child scope: bootstrap now
	if !s.contextReady {
		if err := s.ready(ctx, attrs); err != nil {
			return err
		}
	}
	if err := s.attachCases(ctx, section, attrs.Tests); err != nil {
		s.log.Error("\tLISTENER ERROR: %v\n", err)
	}
	return nil
}

func (resultsStrategy) startTest(_ context.Context, s *Session, name string) {
	s.log.Log("%s.%s - ", s.engine.Stack().CurrentPath(), name)
}

func (resultsStrategy) endTest(ctx context.Context, s *Session, name string, attrs domain.TestEndAttrs) {
	s.reportResult(ctx, name, attrs)
}
