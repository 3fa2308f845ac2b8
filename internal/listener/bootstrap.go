package listener

import (
	"context"
	"fmt"

	"trl/internal/domain"
	"trl/internal/testrail"
)

// Bootstrapper resolves the milestone and plan a session reports into. It
// runs once, after the host's top-level setup has populated the variables the
// naming policy reads. Every failure is fatal.
type Bootstrapper struct {
	api       API
	projectID int64
	namer     Namer
	log       *ProgressLog
}

// NewBootstrapper creates a bootstrapper for a project.
func NewBootstrapper(api API, projectID int64, namer Namer, log *ProgressLog) *Bootstrapper {
	return &Bootstrapper{api: api, projectID: projectID, namer: namer, log: log}
}

// Bootstrap derives the run names from hc and resolves or creates the
// milestone, then the plan inside it.
func (b *Bootstrapper) Bootstrap(ctx context.Context, hc domain.HostContext) (domain.RunNames, domain.RunContext, error) {
	names, err := b.namer.Names(hc)
	if err != nil {
		b.log.Error("LISTENER FATAL ERROR: naming error: %v\n", err)
		return domain.RunNames{}, domain.RunContext{}, fatal("derive names", err)
	}

	var rc domain.RunContext
	if rc.MilestoneID, err = b.milestone(ctx, names.Milestone); err != nil {
		return names, rc, err
	}
	if rc.PlanID, err = b.plan(ctx, names.Plan, rc.MilestoneID); err != nil {
		return names, rc, err
	}
	return names, rc, nil
}

func (b *Bootstrapper) milestone(ctx context.Context, name string) (int64, error) {
	milestones, err := b.api.GetMilestones(ctx, b.projectID)
	if err != nil {
		b.log.Error("LISTENER FATAL ERROR: get milestones error: %s\n", testrail.Describe(err))
		return 0, fatal("get milestones", err)
	}
	// a completed milestone with the same name is not reused
	for _, m := range milestones {
		if m.Name == name && !m.IsCompleted {
			b.log.Log(" - Using TestRail Milestone [%s]\n", name)
			return m.ID, nil
		}
	}

	m, err := b.api.AddMilestone(ctx, b.projectID, testrail.AddMilestoneRequest{Name: name})
	if err != nil {
		b.log.Error("LISTENER FATAL ERROR: add milestone error: %s\n", testrail.Describe(err))
		return 0, fatal("add milestone", err)
	}
	b.log.Log(" - Using TestRail Milestone [%s] - created (%d)\n", name, m.ID)
	return m.ID, nil
}

func (b *Bootstrapper) plan(ctx context.Context, name string, milestoneID int64) (int64, error) {
	plans, err := b.api.GetPlans(ctx, b.projectID, testrail.Ptr(milestoneID))
	if err != nil {
		b.log.Error("LISTENER FATAL ERROR: get plans error: %s\n", testrail.Describe(err))
		return 0, fatal("get plans", err)
	}
	for _, p := range plans {
		if p.Name == name && !p.IsCompleted {
			b.log.Log(" - Using TestRail Plan [%s]\n", name)
			return p.ID, nil
		}
	}

	p, err := b.api.AddPlan(ctx, b.projectID, testrail.AddPlanRequest{Name: name, MilestoneID: testrail.Ptr(milestoneID)})
	if err != nil {
		b.log.Error("LISTENER FATAL ERROR: add plan error: %s\n", testrail.Describe(err))
		return 0, fatal("add plan", err)
	}
	b.log.Log(" - Using TestRail Plan [%s] - created (%d)\n", name, p.ID)
	return p.ID, nil
}

// hostContext merges the variables of the top scope with those of the scope
// that triggered the bootstrap; later values win.
func hostContext(suite string, layers ...map[string]string) domain.HostContext {
	vars := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			vars[k] = v
		}
	}
	return domain.HostContext{Suite: suite, Vars: vars}
}

func describeNames(n domain.RunNames) string {
	return fmt.Sprintf("milestone=%q plan=%q run=%q", n.Milestone, n.Plan, n.Run)
}
