package workflow

import (
	"go.trai.ch/puppet/internal/core/domain"
)

// PlanOptions narrow the tasks planned from a manifest.
type PlanOptions struct {
	// SingleAccount restricts spoke-local portfolios to one account when set.
	SingleAccount string
}

// Plan expands a validated manifest into the root tasks of a deploy run.
// Spoke-local portfolios come first in manifest order, followed by explicit shares.
func Plan(m *domain.Manifest, opts PlanOptions) []*domain.Task {
	var roots []*domain.Task
	for _, slp := range m.SpokeLocalPortfolios {
		for _, target := range m.Targets(slp.DeployTo) {
			if opts.SingleAccount != "" && target.AccountID != opts.SingleAccount {
				continue
			}
			roots = append(roots, spokeTasks(spokeTarget(m, slp, target))...)
		}
	}
	for _, share := range m.Shares {
		for _, target := range m.Targets(share.DeployTo) {
			if opts.SingleAccount != "" && target.AccountID != opts.SingleAccount {
				continue
			}
			roots = append(roots, shareTask(m, share.Portfolio, target))
		}
	}
	return roots
}

// PlanShares expands the manifest into the share tasks needed by every
// explicit share and every spoke-local portfolio target.
func PlanShares(m *domain.Manifest) []*domain.Task {
	var roots []*domain.Task
	for _, share := range m.Shares {
		for _, target := range m.Targets(share.DeployTo) {
			roots = append(roots, shareTask(m, share.Portfolio, target))
		}
	}
	for _, slp := range m.SpokeLocalPortfolios {
		for _, target := range m.Targets(slp.DeployTo) {
			roots = append(roots, shareTask(m, slp.Portfolio, target))
		}
	}
	return roots
}

func shareTask(m *domain.Manifest, portfolio string, target domain.Target) *domain.Task {
	return CreateShareForAccountLaunchRegion(
		m.Settings.PuppetAccountID, target.AccountID, target.Region, portfolio, target.Organization)
}

// spokeTasks returns the portfolio task and, when configured, the association
// and launch constraint tasks of one target. The import and the activation
// sync are always planned.
func spokeTasks(t SpokeTarget) []*domain.Task {
	tasks := []*domain.Task{
		CreateSpokeLocalPortfolio(t),
		ImportIntoSpokeLocalPortfolio(t),
		SyncVersionActivation(t),
	}
	if len(t.Associations) > 0 {
		tasks = append(tasks, CreateAssociations(t))
	}
	if len(t.LaunchConstraints) > 0 {
		tasks = append(tasks, CreateLaunchRoleConstraints(t))
	}
	return tasks
}

func spokeTarget(m *domain.Manifest, slp domain.SpokeLocalPortfolio, target domain.Target) SpokeTarget {
	home := m.Settings.HomeRegion
	t := SpokeTarget{
		AccountID:       target.AccountID,
		Region:          target.Region,
		Portfolio:       slp.Portfolio,
		PuppetAccountID: m.Settings.PuppetAccountID,
		ProviderName:    slp.ProviderName,
		Description:     slp.Description,
		ShouldUseSNS:    m.Settings.ShouldUseSNS,
		Associations:    slp.Associations,
	}
	for _, ref := range slp.PreActions {
		t.PreActions = append(t.PreActions, ActionParams(ref, home))
	}
	for _, ref := range slp.PostActions {
		t.PostActions = append(t.PostActions, ActionParams(ref, home))
	}
	for _, lc := range slp.LaunchConstraints {
		t.LaunchConstraints = append(t.LaunchConstraints, launchConstraintParams(lc))
	}
	return t
}

// launchConstraintParams encodes a constraint. A pattern selector travels as a
// string under products so the workflow can tell it from an explicit list.
func launchConstraintParams(lc domain.LaunchConstraint) map[string]any {
	out := map[string]any{paramRoles: lc.Roles}
	switch {
	case lc.ProductPattern != "":
		out[paramProducts] = lc.ProductPattern
	case len(lc.Products) > 0:
		out[paramProducts] = lc.Products
	}
	if lc.Product != "" {
		out[paramProduct] = lc.Product
	}
	return out
}
