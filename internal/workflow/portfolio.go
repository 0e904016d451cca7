package workflow

import (
	"context"

	"go.trai.ch/puppet/internal/core/domain"
)

func (d *Dispatcher) createSpokeLocalPortfolio(ctx context.Context, run *Run) (domain.Outcome, error) {
	c, err := d.clients.AssumeRole(ctx, domain.PuppetSession(run.account(), run.region(), "sc"))
	if err != nil {
		return domain.Outcome{}, err
	}
	sc := c.ServiceCatalog()

	existing, err := sc.ListPortfolios(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}
	for _, p := range existing {
		if p.DisplayName == run.portfolio() {
			run.Log.Info("portfolio exists", "portfolio_id", p.ID)
			return domain.Outcome{Result: p}, nil
		}
	}

	p, err := sc.CreatePortfolio(ctx, domain.Portfolio{
		DisplayName:  run.portfolio(),
		ProviderName: run.option(optProviderName, notSet),
		Description:  run.option(optDescription, notSet),
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	run.Log.Info("created portfolio", "portfolio_id", p.ID)
	return domain.Outcome{Result: p}, nil
}
