package workflow

import (
	"context"
	"maps"
	"regexp"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
)

func (d *Dispatcher) createAssociations(ctx context.Context, run *Run) (domain.Outcome, error) {
	var spoke domain.Portfolio
	if err := run.Inputs.Decode("portfolio", &spoke); err != nil {
		return domain.Outcome{}, err
	}

	principals := []string{}
	if v, ok := run.Task.Params.Get(paramAssociations); ok {
		principals = v.Strings()
	}
	body, err := d.templates.Render(domain.AssociationsTemplate, domain.AssociationsContext{
		PortfolioID:   spoke.ID,
		PortfolioName: run.portfolio(),
		PrincipalARNs: principals,
	})
	if err != nil {
		return domain.Outcome{}, err
	}

	cfn, err := d.cloudFormation(ctx, run)
	if err != nil {
		return domain.Outcome{}, err
	}
	stack, err := cfn.CreateOrUpdateStack(ctx, domain.StackRequest{
		StackName:        "associations-for-portfolio-" + spoke.ID,
		TemplateBody:     body,
		NotificationARNs: run.notificationARNs(),
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	run.Log.Info("applied associations", "stack", stack.StackName)
	return domain.Outcome{Result: stack}, nil
}

func (d *Dispatcher) createLaunchRoleConstraints(ctx context.Context, run *Run) (domain.Outcome, error) {
	var imported ImportResult
	if err := run.Inputs.Decode("import", &imported); err != nil {
		return domain.Outcome{}, err
	}
	portfolioID := imported.Portfolio.ID
	productIDs := maps.Clone(imported.Products)
	if productIDs == nil {
		productIDs = make(map[string]string)
	}

	r := &constraintResolver{d: d, run: run, portfolioID: portfolioID, productIDs: productIDs}
	var constraints []domain.ResolvedLaunchConstraint
	for _, v := range run.Task.Params.List(paramLaunchConstraints) {
		c, err := r.resolve(ctx, v.Map())
		if err != nil {
			return domain.Outcome{}, err
		}
		constraints = append(constraints, c)
	}

	body, err := d.templates.Render(domain.LaunchConstraintsTemplate, domain.LaunchConstraintsContext{
		PortfolioID:   portfolioID,
		PortfolioName: run.portfolio(),
		Constraints:   constraints,
		ProductIDs:    productIDs,
	})
	if err != nil {
		return domain.Outcome{}, err
	}

	cfn, err := d.cloudFormation(ctx, run)
	if err != nil {
		return domain.Outcome{}, err
	}
	// Both generations of the stack must never exist at once.
	if err := cfn.EnsureDeleted(ctx, "launch-constraints-for-portfolio-"+portfolioID); err != nil {
		return domain.Outcome{}, err
	}
	stack, err := cfn.CreateOrUpdateStack(ctx, domain.StackRequest{
		StackName:        "launch-constraints-v2-for-portfolio-" + portfolioID,
		TemplateBody:     body,
		NotificationARNs: run.notificationARNs(),
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	run.Log.Info("applied launch constraints", "stack", stack.StackName, "constraints", len(constraints))
	return domain.Outcome{
		Result:  stack,
		Emitted: emitActions(run.Task.Params.List(paramPostActions)),
	}, nil
}

func (d *Dispatcher) cloudFormation(ctx context.Context, run *Run) (ports.CloudFormation, error) {
	c, err := d.clients.AssumeRole(ctx, domain.PuppetSession(run.account(), run.region(), "cfn"))
	if err != nil {
		return nil, err
	}
	return c.CloudFormation(), nil
}

// constraintResolver matches launch constraint selectors against the live portfolio.
type constraintResolver struct {
	d           *Dispatcher
	run         *Run
	portfolioID string
	productIDs  map[string]string
	live        []domain.Product
	listed      bool
}

func (r *constraintResolver) resolve(ctx context.Context, lc domain.ParameterSet) (domain.ResolvedLaunchConstraint, error) {
	out := domain.ResolvedLaunchConstraint{Products: []string{}}
	if v, ok := lc.Get(paramRoles); ok {
		out.Roles = v.Strings()
	}

	if v, ok := lc.Get(paramProducts); ok {
		switch v.Kind() {
		case domain.KindList:
			out.Products = append(out.Products, v.Strings()...)
		case domain.KindString:
			matched, err := r.match(ctx, v.Str())
			if err != nil {
				return domain.ResolvedLaunchConstraint{}, err
			}
			out.Products = append(out.Products, matched...)
		}
	}
	if p := lc.String(paramProduct); p != "" {
		out.Products = append(out.Products, p)
	}
	return out, nil
}

// match returns the live product names matching pattern from their first character.
func (r *constraintResolver) match(ctx context.Context, pattern string) ([]string, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrPreconditionViolated, "invalid product pattern"), "pattern", pattern)
	}
	if err := r.list(ctx); err != nil {
		return nil, err
	}

	var names []string
	for _, p := range r.live {
		if re.MatchString(p.Name) {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// list fetches the products of the portfolio once per run and records their ids.
func (r *constraintResolver) list(ctx context.Context) error {
	if r.listed {
		return nil
	}
	c, err := r.d.clients.AssumeRole(ctx, domain.PuppetSession(r.run.account(), r.run.region(), "sc"))
	if err != nil {
		return err
	}
	products, err := c.ServiceCatalog().SearchProductsAsAdmin(ctx, r.portfolioID, "")
	if err != nil {
		return err
	}
	for _, p := range products {
		r.productIDs[p.Name] = p.ID
	}
	r.live = products
	r.listed = true
	return nil
}
