package workflow

import (
	"context"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
)

// PortfolioRef is the result of get-portfolio-id.
type PortfolioRef struct {
	PortfolioName string `json:"portfolio_name"`
	PortfolioID   string `json:"portfolio_id"`
}

// ProductRef is the result of get-product-id.
type ProductRef struct {
	ProductName   string `json:"product_name"`
	ProductID     string `json:"product_id"`
	PortfolioName string `json:"portfolio_name"`
	PortfolioID   string `json:"portfolio_id"`
}

// VersionRef is the result of get-version-id.
type VersionRef struct {
	VersionName string `json:"version_name"`
	VersionID   string `json:"version_id"`
	ProductName string `json:"product_name"`
	ProductID   string `json:"product_id"`
}

func (d *Dispatcher) lookupClient(ctx context.Context, run *Run) (ports.ServiceCatalog, error) {
	c, err := d.clients.AssumeRole(ctx, roleSession(run.account(), run.region(), run.account()+"-"+run.region()))
	if err != nil {
		return nil, err
	}
	return c.ServiceCatalog(), nil
}

func (d *Dispatcher) getPortfolioID(ctx context.Context, run *Run) (domain.Outcome, error) {
	sc, err := d.lookupClient(ctx, run)
	if err != nil {
		return domain.Outcome{}, err
	}
	p, err := findPortfolio(ctx, sc, run.portfolio())
	if err != nil {
		return domain.Outcome{}, zerr.With(zerr.With(err, "account_id", run.account()), "region", run.region())
	}
	run.Log.Info("resolved portfolio", "portfolio_id", p.ID)
	return domain.Outcome{Result: PortfolioRef{PortfolioName: run.portfolio(), PortfolioID: p.ID}}, nil
}

// findPortfolio looks for a local portfolio first, then for an accepted import.
func findPortfolio(ctx context.Context, sc ports.ServiceCatalog, name string) (domain.Portfolio, error) {
	local, err := sc.ListPortfolios(ctx)
	if err != nil {
		return domain.Portfolio{}, err
	}
	for _, p := range local {
		if p.DisplayName == name {
			return p, nil
		}
	}

	imported, err := sc.ListAcceptedPortfolioShares(ctx)
	if err != nil {
		return domain.Portfolio{}, err
	}
	for _, p := range imported {
		if p.DisplayName == name {
			return p, nil
		}
	}
	return domain.Portfolio{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "portfolio not found"), "portfolio", name)
}

func (d *Dispatcher) getProductID(ctx context.Context, run *Run) (domain.Outcome, error) {
	var portfolio PortfolioRef
	if err := run.Inputs.Decode("portfolio", &portfolio); err != nil {
		return domain.Outcome{}, err
	}
	sc, err := d.lookupClient(ctx, run)
	if err != nil {
		return domain.Outcome{}, err
	}

	name := run.param(paramProduct)
	products, err := sc.SearchProductsAsAdmin(ctx, portfolio.PortfolioID, name)
	if err != nil {
		return domain.Outcome{}, err
	}
	for _, p := range products {
		if p.Name == name {
			return domain.Outcome{Result: ProductRef{
				ProductName:   name,
				ProductID:     p.ID,
				PortfolioName: portfolio.PortfolioName,
				PortfolioID:   portfolio.PortfolioID,
			}}, nil
		}
	}
	return domain.Outcome{}, zerr.With(zerr.With(
		zerr.Wrap(domain.ErrNotFound, "product not found"),
		"product", name), "portfolio_id", portfolio.PortfolioID)
}

func (d *Dispatcher) getVersionID(ctx context.Context, run *Run) (domain.Outcome, error) {
	var product ProductRef
	if err := run.Inputs.Decode("product", &product); err != nil {
		return domain.Outcome{}, err
	}
	sc, err := d.lookupClient(ctx, run)
	if err != nil {
		return domain.Outcome{}, err
	}

	name := run.param(paramVersion)
	versions, err := sc.ListProvisioningArtifacts(ctx, product.ProductID)
	if err != nil {
		return domain.Outcome{}, err
	}
	for _, v := range versions {
		if v.Name == name {
			return domain.Outcome{Result: VersionRef{
				VersionName: name,
				VersionID:   v.ID,
				ProductName: product.ProductName,
				ProductID:   product.ProductID,
			}}, nil
		}
	}
	return domain.Outcome{}, zerr.With(zerr.With(
		zerr.Wrap(domain.ErrNotFound, "version not found"),
		"version", name), "product_id", product.ProductID)
}
