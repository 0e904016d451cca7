package workflow

import (
	"context"
	"path/filepath"
	"slices"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
)

// ShareResult is the result of the share workflows.
type ShareResult struct {
	PortfolioID string `json:"portfolio_id"`
	// Changed lists the mutating calls the run had to make.
	Changed []string `json:"changed"`
}

func (d *Dispatcher) requestPolicy(_ context.Context, run *Run) (domain.Outcome, error) {
	path := domain.PolicyRequestPath(d.dataDir, run.param(paramType), run.region(), run.account(), run.param(paramOrganization))
	if err := d.writeRecord(path, run.Task.Params.Interface()); err != nil {
		return domain.Outcome{}, err
	}
	return run.paramsResult(), nil
}

func (d *Dispatcher) shareAndAcceptPortfolio(ctx context.Context, run *Run) (domain.Outcome, error) {
	var portfolio PortfolioRef
	if err := run.Inputs.Decode("portfolio", &portfolio); err != nil {
		return domain.Outcome{}, err
	}
	account, region := run.account(), run.region()

	record := filepath.Join(d.dataDir, "shares", region, run.portfolio(), account+".json")
	if err := d.writeRecord(record, struct{}{}); err != nil {
		return domain.Outcome{}, err
	}

	result := ShareResult{PortfolioID: portfolio.PortfolioID, Changed: []string{}}

	hub, err := d.clients.Local(ctx, region)
	if err != nil {
		return domain.Outcome{}, err
	}
	access, err := hub.ServiceCatalog().ListPortfolioAccess(ctx, portfolio.PortfolioID)
	if err != nil {
		return domain.Outcome{}, err
	}
	if slices.Contains(access, account) {
		run.Log.Debug("portfolio already shared", "portfolio_id", portfolio.PortfolioID)
	} else {
		if err := hub.ServiceCatalog().CreatePortfolioShare(ctx, portfolio.PortfolioID, account); err != nil {
			return domain.Outcome{}, err
		}
		result.Changed = append(result.Changed, "share")
	}

	spoke, err := d.clients.AssumeRole(ctx, roleSession(account, region, account+"-"+region+"-"+domain.PuppetRoleName))
	if err != nil {
		return domain.Outcome{}, err
	}
	sc := spoke.ServiceCatalog()

	accepted, err := sc.ListAcceptedPortfolioShares(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}
	if !slices.ContainsFunc(accepted, func(p domain.Portfolio) bool { return p.ID == portfolio.PortfolioID }) {
		if err := sc.AcceptPortfolioShare(ctx, portfolio.PortfolioID); err != nil {
			return domain.Outcome{}, err
		}
		result.Changed = append(result.Changed, "accept")
	}

	associated, err := ensurePrincipal(ctx, sc, portfolio.PortfolioID, domain.PuppetRoleARN(account))
	if err != nil {
		return domain.Outcome{}, err
	}
	if associated {
		result.Changed = append(result.Changed, "principal")
	}

	run.Log.Info("portfolio shared", "portfolio_id", portfolio.PortfolioID, "changed", len(result.Changed))
	return domain.Outcome{Result: result}, nil
}

func (d *Dispatcher) associateHubPrincipal(ctx context.Context, run *Run) (domain.Outcome, error) {
	var portfolio PortfolioRef
	if err := run.Inputs.Decode("portfolio", &portfolio); err != nil {
		return domain.Outcome{}, err
	}
	account, region := run.account(), run.region()

	record := filepath.Join(d.dataDir, "associations", region, run.portfolio(), account+".json")
	if err := d.writeRecord(record, struct{}{}); err != nil {
		return domain.Outcome{}, err
	}

	local, err := d.clients.Local(ctx, region)
	if err != nil {
		return domain.Outcome{}, err
	}
	result := ShareResult{PortfolioID: portfolio.PortfolioID, Changed: []string{}}
	associated, err := ensurePrincipal(ctx, local.ServiceCatalog(), portfolio.PortfolioID, domain.PuppetRoleARN(account))
	if err != nil {
		return domain.Outcome{}, err
	}
	if associated {
		result.Changed = append(result.Changed, "principal")
	}
	return domain.Outcome{Result: result}, nil
}

func (d *Dispatcher) createShareForAccountLaunchRegion(_ context.Context, run *Run) (domain.Outcome, error) {
	return run.paramsResult(), nil
}

// ensurePrincipal associates principal with the portfolio unless it already is.
func ensurePrincipal(ctx context.Context, sc ports.ServiceCatalog, portfolioID, principal string) (bool, error) {
	principals, err := sc.ListPrincipalsForPortfolio(ctx, portfolioID)
	if err != nil {
		return false, err
	}
	if slices.Contains(principals, principal) {
		return false, nil
	}
	if err := sc.AssociatePrincipalWithPortfolio(ctx, portfolioID, principal); err != nil {
		return false, err
	}
	return true, nil
}
