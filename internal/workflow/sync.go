package workflow

import (
	"context"
	"errors"
	"slices"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
)

// ImportResult is the result of import-into-spoke-local-portfolio.
type ImportResult struct {
	Portfolio domain.Portfolio `json:"portfolio"`
	// Products maps hub product names to their spoke product ids.
	Products map[string]string `json:"products"`
	// Copied lists the version names copied during the run, per product.
	Copied map[string][]string `json:"copied"`
}

type productSync struct {
	d     *Dispatcher
	run   *Run
	hub   ports.ServiceCatalog
	spoke ports.ServiceCatalog
	// portfolioID is the spoke portfolio id.
	portfolioID string
}

func (d *Dispatcher) importIntoSpokeLocalPortfolio(ctx context.Context, run *Run) (domain.Outcome, error) {
	var spoke domain.Portfolio
	if err := run.Inputs.Decode("portfolio", &spoke); err != nil {
		return domain.Outcome{}, err
	}
	var hubPortfolio PortfolioRef
	if err := run.Inputs.Decode("hub_portfolio", &hubPortfolio); err != nil {
		return domain.Outcome{}, err
	}

	hub, err := d.clients.Local(ctx, run.region())
	if err != nil {
		return domain.Outcome{}, err
	}
	spokeClient, err := d.clients.AssumeRole(ctx, domain.PuppetSession(run.account(), run.region(), "sc"))
	if err != nil {
		return domain.Outcome{}, err
	}

	s := &productSync{
		d:           d,
		run:         run,
		hub:         hub.ServiceCatalog(),
		spoke:       spokeClient.ServiceCatalog(),
		portfolioID: spoke.ID,
	}

	hubProducts, err := s.hub.SearchProductsAsAdmin(ctx, hubPortfolio.PortfolioID, "")
	if err != nil {
		return domain.Outcome{}, err
	}

	result := ImportResult{
		Portfolio: spoke,
		Products:  make(map[string]string, len(hubProducts)),
		Copied:    make(map[string][]string),
	}
	for _, hp := range hubProducts {
		spokeID, copied, err := s.product(ctx, hp)
		if err != nil {
			return domain.Outcome{}, zerr.With(err, "product", hp.Name)
		}
		if spokeID != "" {
			result.Products[hp.Name] = spokeID
		}
		if len(copied) > 0 {
			result.Copied[hp.Name] = copied
		}
	}

	run.Log.Info("finished importing", "products", len(result.Products))
	return domain.Outcome{
		Result:  result,
		Emitted: emitActions(run.Task.Params.List(paramPostActions)),
	}, nil
}

// product synchronizes one hub product and returns its spoke id and the copied version names.
func (s *productSync) product(ctx context.Context, hp domain.Product) (string, []string, error) {
	desired, err := s.hubVersions(ctx, hp.ID)
	if err != nil {
		return "", nil, err
	}

	spokeID, present, err := s.findSpokeProduct(ctx, hp.Name)
	if err != nil {
		return "", nil, err
	}

	var toCopy []domain.ProvisioningArtifact
	for _, v := range desired {
		if !present[v.Name] {
			toCopy = append(toCopy, v)
		}
	}

	var copied []string
	if len(toCopy) == 0 {
		s.run.Log.Debug("no versions to copy", "product", hp.Name)
	} else {
		target, err := s.copy(ctx, hp, spokeID, toCopy)
		if err != nil {
			return "", nil, err
		}
		if err := s.associate(ctx, target); err != nil {
			return "", nil, err
		}
		spokeID = target
		for _, v := range toCopy {
			copied = append(copied, v.Name)
		}
	}

	if spokeID == "" {
		s.run.Log.Debug("product has no deployable versions", "product", hp.Name)
		return "", nil, nil
	}
	return spokeID, copied, nil
}

// hubVersions returns the deployable versions of a hub product.
func (s *productSync) hubVersions(ctx context.Context, productID string) ([]domain.ProvisioningArtifact, error) {
	all, err := s.hub.ListProvisioningArtifacts(ctx, productID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(a domain.ProvisioningArtifact) bool {
		return a.Type != domain.CloudFormationTemplateType
	}), nil
}

// findSpokeProduct returns the spoke product id with the given name and its version names.
// A missing product, or a search answering not found, means the product is absent.
func (s *productSync) findSpokeProduct(ctx context.Context, name string) (string, map[string]bool, error) {
	products, err := s.spoke.SearchProductsAsAdmin(ctx, s.portfolioID, name)
	if errors.Is(err, domain.ErrNotFound) {
		s.run.Log.Debug("spoke search found nothing", "product", name)
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	for _, p := range products {
		if p.Name != name {
			continue
		}
		versions, err := s.spoke.ListProvisioningArtifacts(ctx, p.ID)
		if err != nil {
			return "", nil, err
		}
		present := make(map[string]bool, len(versions))
		for _, v := range versions {
			present[v.Name] = true
		}
		return p.ID, present, nil
	}
	return "", nil, nil
}

// copy copies versions into the spoke and waits for the copy to finish.
func (s *productSync) copy(ctx context.Context, hp domain.Product, targetID string, versions []domain.ProvisioningArtifact) (string, error) {
	ids := make([]string, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	s.run.Log.Info("copying product", "product", hp.Name, "versions", len(ids))

	token, err := s.spoke.CopyProduct(ctx, domain.CopyProductRequest{
		SourceProductARN: hp.ARN,
		TargetProductID:  targetID,
		ArtifactIDs:      ids,
		CopyTags:         true,
	})
	if err != nil {
		return "", err
	}

	for {
		if err := sleep(ctx, s.d.intervals.Copy); err != nil {
			return "", err
		}
		status, err := s.spoke.DescribeCopyProductStatus(ctx, token)
		if err != nil {
			return "", err
		}
		s.run.Log.Debug("copy status", "product", hp.Name, "status", string(status.Status))
		switch status.Status {
		case domain.CopyFailed:
			return "", zerr.With(zerr.With(
				zerr.Wrap(domain.ErrRemoteOperationFailed, "product copy failed"),
				"product", hp.Name), "detail", status.Detail)
		case domain.CopySucceeded:
			return status.TargetProductID, nil
		}
	}
}

// associate adds the product to the spoke portfolio and waits until listings show it.
func (s *productSync) associate(ctx context.Context, productID string) error {
	if err := s.spoke.AssociateProductWithPortfolio(ctx, productID, s.portfolioID); err != nil {
		return err
	}
	for {
		if err := sleep(ctx, s.d.intervals.Membership); err != nil {
			return err
		}
		members, err := s.spoke.SearchProductsAsAdmin(ctx, s.portfolioID, "")
		if err != nil {
			return err
		}
		if slices.ContainsFunc(members, func(p domain.Product) bool { return p.ID == productID }) {
			return nil
		}
		s.run.Log.Debug("waiting for association", "product_id", productID)
	}
}

// syncActive mirrors the hub active flag of every desired version onto the spoke
// and returns the number of versions written.
func (s *productSync) syncActive(ctx context.Context, spokeID string, desired []domain.ProvisioningArtifact) (int, error) {
	spokeVersions, err := s.spoke.ListProvisioningArtifacts(ctx, spokeID)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, want := range desired {
		for _, have := range spokeVersions {
			if have.Name != want.Name {
				continue
			}
			if err := s.spoke.UpdateProvisioningArtifactActive(ctx, spokeID, have.ID, want.Active); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// ActivationResult is the result of sync-version-activation.
type ActivationResult struct {
	// Updated counts the spoke versions whose active flag was written.
	Updated int `json:"updated"`
}

func (d *Dispatcher) syncVersionActivation(ctx context.Context, run *Run) (domain.Outcome, error) {
	var imported ImportResult
	if err := run.Inputs.Decode("import", &imported); err != nil {
		return domain.Outcome{}, err
	}
	var hubPortfolio PortfolioRef
	if err := run.Inputs.Decode("hub_portfolio", &hubPortfolio); err != nil {
		return domain.Outcome{}, err
	}

	hub, err := d.clients.Local(ctx, run.region())
	if err != nil {
		return domain.Outcome{}, err
	}
	spokeClient, err := d.clients.AssumeRole(ctx, domain.PuppetSession(run.account(), run.region(), "sc"))
	if err != nil {
		return domain.Outcome{}, err
	}

	s := &productSync{
		d:           d,
		run:         run,
		hub:         hub.ServiceCatalog(),
		spoke:       spokeClient.ServiceCatalog(),
		portfolioID: imported.Portfolio.ID,
	}

	hubProducts, err := s.hub.SearchProductsAsAdmin(ctx, hubPortfolio.PortfolioID, "")
	if err != nil {
		return domain.Outcome{}, err
	}

	var result ActivationResult
	for _, hp := range hubProducts {
		spokeID, ok := imported.Products[hp.Name]
		if !ok {
			continue
		}
		desired, err := s.hubVersions(ctx, hp.ID)
		if err != nil {
			return domain.Outcome{}, zerr.With(err, "product", hp.Name)
		}
		n, err := s.syncActive(ctx, spokeID, desired)
		result.Updated += n
		if err != nil {
			return domain.Outcome{}, zerr.With(err, "product", hp.Name)
		}
	}

	run.Log.Info("mirrored version activation", "versions", result.Updated)
	return domain.Outcome{Result: result}, nil
}
