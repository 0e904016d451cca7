package fakecloud

import (
	"context"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
)

// Client is a scoped client bound to one account and region.
// It implements every service port itself.
type Client struct {
	cloud *Cloud
	at    scope
}

var (
	_ ports.ScopedClient   = (*Client)(nil)
	_ ports.ServiceCatalog = (*Client)(nil)
	_ ports.CloudFormation = (*Client)(nil)
	_ ports.CodeBuild      = (*Client)(nil)
	_ ports.ParameterStore = (*Client)(nil)
)

// ServiceCatalog returns the client itself.
func (c *Client) ServiceCatalog() ports.ServiceCatalog { return c }

// CloudFormation returns the client itself.
func (c *Client) CloudFormation() ports.CloudFormation { return c }

// CodeBuild returns the client itself.
func (c *Client) CodeBuild() ports.CodeBuild { return c }

// ParameterStore returns the client itself.
func (c *Client) ParameterStore() ports.ParameterStore { return c }

func (c *Client) lock(op string) (func(), error) {
	c.cloud.mu.Lock()
	if err := c.cloud.call(op); err != nil {
		c.cloud.mu.Unlock()
		return func() {}, err
	}
	return c.cloud.mu.Unlock, nil
}

func (c *Client) ListPortfolios(_ context.Context) ([]domain.Portfolio, error) {
	unlock, err := c.lock("ListPortfolios")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []domain.Portfolio
	for _, id := range slices.Sorted(maps.Keys(c.cloud.portfolios)) {
		if c.cloud.owners[id] == c.at {
			out = append(out, c.cloud.portfolios[id])
		}
	}
	return out, nil
}

func (c *Client) CreatePortfolio(_ context.Context, p domain.Portfolio) (domain.Portfolio, error) {
	unlock, err := c.lock("CreatePortfolio")
	defer unlock()
	if err != nil {
		return domain.Portfolio{}, err
	}
	return c.cloud.createPortfolio(c.at, p), nil
}

// visible reports whether the portfolio is local or an accepted import.
func (c *Client) visible(portfolioID string) bool {
	if _, ok := c.cloud.portfolios[portfolioID]; !ok {
		return false
	}
	return c.cloud.owners[portfolioID] == c.at || slices.Contains(c.cloud.accepted[c.at], portfolioID)
}

func (c *Client) SearchProductsAsAdmin(_ context.Context, portfolioID, fullTextSearch string) ([]domain.Product, error) {
	unlock, err := c.lock("SearchProductsAsAdmin")
	defer unlock()
	if err != nil {
		return nil, err
	}
	if !c.visible(portfolioID) {
		return nil, notFound("servicecatalog.SearchProductsAsAdmin", "portfolio_id", portfolioID)
	}

	members := c.cloud.members[portfolioID]
	if n := c.cloud.pending[portfolioID]; n > 0 && len(members) > 0 {
		c.cloud.pending[portfolioID] = n - 1
		members = members[:len(members)-1]
	}

	var out []domain.Product
	for _, id := range members {
		p := c.cloud.products[id]
		if fullTextSearch != "" && !strings.Contains(p.Name, fullTextSearch) {
			continue
		}
		out = append(out, p.Product)
	}
	return out, nil
}

func (c *Client) ListProvisioningArtifacts(_ context.Context, productID string) ([]domain.ProvisioningArtifact, error) {
	unlock, err := c.lock("ListProvisioningArtifacts")
	defer unlock()
	if err != nil {
		return nil, err
	}
	p, ok := c.cloud.products[productID]
	if !ok {
		return nil, notFound("servicecatalog.ListProvisioningArtifacts", "product_id", productID)
	}
	return slices.Clone(p.artifacts), nil
}

// CopyProduct copies artifacts into the target product, creating it when needed.
// The copy completes after CopyPolls status checks.
func (c *Client) CopyProduct(_ context.Context, req domain.CopyProductRequest) (string, error) {
	unlock, err := c.lock("CopyProduct")
	defer unlock()
	if err != nil {
		return "", err
	}
	c.cloud.copyReqs = append(c.cloud.copyReqs, req)

	var src *product
	for _, p := range c.cloud.products {
		if p.ARN == req.SourceProductARN {
			src = p
		}
	}
	if src == nil {
		return "", notFound("servicecatalog.CopyProduct", "source", req.SourceProductARN)
	}

	token := c.cloud.nextID("copy")
	op := &copyOp{polls: c.cloud.CopyPolls}
	if detail, ok := c.cloud.copyFail[req.SourceProductARN]; ok {
		op.err = detail
		c.cloud.copies[token] = op
		return token, nil
	}

	target, ok := c.cloud.products[req.TargetProductID]
	if !ok {
		target = c.cloud.createProduct(c.at, src.Name)
	}
	for _, id := range req.ArtifactIDs {
		for _, a := range src.artifacts {
			if a.ID == id {
				a.ID = c.cloud.nextID("pa")
				a.Active = true
				target.artifacts = append(target.artifacts, a)
			}
		}
	}
	op.target = target.ID
	c.cloud.copies[token] = op
	return token, nil
}

func (c *Client) DescribeCopyProductStatus(_ context.Context, token string) (domain.CopyProductStatus, error) {
	unlock, err := c.lock("DescribeCopyProductStatus")
	defer unlock()
	if err != nil {
		return domain.CopyProductStatus{}, err
	}
	op, ok := c.cloud.copies[token]
	if !ok {
		return domain.CopyProductStatus{}, notFound("servicecatalog.DescribeCopyProductStatus", "token", token)
	}
	if op.polls > 0 {
		op.polls--
		return domain.CopyProductStatus{Status: domain.CopyInProgress}, nil
	}
	if op.err != "" {
		return domain.CopyProductStatus{Status: domain.CopyFailed, Detail: op.err}, nil
	}
	return domain.CopyProductStatus{Status: domain.CopySucceeded, TargetProductID: op.target}, nil
}

// AssociateProductWithPortfolio adds the product; it stays out of listings for MembershipPolls searches.
func (c *Client) AssociateProductWithPortfolio(_ context.Context, productID, portfolioID string) error {
	unlock, err := c.lock("AssociateProductWithPortfolio")
	defer unlock()
	if err != nil {
		return err
	}
	if !slices.Contains(c.cloud.members[portfolioID], productID) {
		c.cloud.members[portfolioID] = append(c.cloud.members[portfolioID], productID)
		c.cloud.pending[portfolioID] = c.cloud.MembershipPolls
	}
	return nil
}

func (c *Client) UpdateProvisioningArtifactActive(_ context.Context, productID, artifactID string, active bool) error {
	unlock, err := c.lock("UpdateProvisioningArtifact")
	defer unlock()
	if err != nil {
		return err
	}
	p, ok := c.cloud.products[productID]
	if !ok {
		return notFound("servicecatalog.UpdateProvisioningArtifact", "product_id", productID)
	}
	for i := range p.artifacts {
		if p.artifacts[i].ID == artifactID {
			p.artifacts[i].Active = active
			c.cloud.activations = append(c.cloud.activations, Activation{productID, artifactID, active})
			return nil
		}
	}
	return notFound("servicecatalog.UpdateProvisioningArtifact", "artifact_id", artifactID)
}

func (c *Client) ListPortfolioAccess(_ context.Context, portfolioID string) ([]string, error) {
	unlock, err := c.lock("ListPortfolioAccess")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.cloud.access[portfolioID]), nil
}

func (c *Client) CreatePortfolioShare(_ context.Context, portfolioID, accountID string) error {
	unlock, err := c.lock("CreatePortfolioShare")
	defer unlock()
	if err != nil {
		return err
	}
	if !slices.Contains(c.cloud.access[portfolioID], accountID) {
		c.cloud.access[portfolioID] = append(c.cloud.access[portfolioID], accountID)
	}
	return nil
}

func (c *Client) ListAcceptedPortfolioShares(_ context.Context) ([]domain.Portfolio, error) {
	unlock, err := c.lock("ListAcceptedPortfolioShares")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []domain.Portfolio
	for _, id := range c.cloud.accepted[c.at] {
		out = append(out, c.cloud.portfolios[id])
	}
	return out, nil
}

func (c *Client) AcceptPortfolioShare(_ context.Context, portfolioID string) error {
	unlock, err := c.lock("AcceptPortfolioShare")
	defer unlock()
	if err != nil {
		return err
	}
	if !slices.Contains(c.cloud.access[portfolioID], c.at.account) {
		return failed("servicecatalog.AcceptPortfolioShare", "portfolio "+portfolioID+" is not shared with "+c.at.account)
	}
	if !slices.Contains(c.cloud.accepted[c.at], portfolioID) {
		c.cloud.accepted[c.at] = append(c.cloud.accepted[c.at], portfolioID)
	}
	return nil
}

func (c *Client) ListPrincipalsForPortfolio(_ context.Context, portfolioID string) ([]string, error) {
	unlock, err := c.lock("ListPrincipalsForPortfolio")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.cloud.principals[c.at][portfolioID]), nil
}

func (c *Client) AssociatePrincipalWithPortfolio(_ context.Context, portfolioID, principalARN string) error {
	unlock, err := c.lock("AssociatePrincipalWithPortfolio")
	defer unlock()
	if err != nil {
		return err
	}
	if c.cloud.principals[c.at] == nil {
		c.cloud.principals[c.at] = make(map[string][]string)
	}
	if !slices.Contains(c.cloud.principals[c.at][portfolioID], principalARN) {
		c.cloud.principals[c.at][portfolioID] = append(c.cloud.principals[c.at][portfolioID], principalARN)
	}
	return nil
}

func (c *Client) DescribeStack(_ context.Context, name string) (domain.Stack, error) {
	unlock, err := c.lock("DescribeStack")
	defer unlock()
	if err != nil {
		return domain.Stack{}, err
	}
	s, ok := c.cloud.stacks[c.at][name]
	if !ok {
		return domain.Stack{}, notFound("cloudformation.DescribeStacks", "stack", name)
	}
	return s.Stack, nil
}

func (c *Client) CreateOrUpdateStack(_ context.Context, req domain.StackRequest) (domain.Stack, error) {
	unlock, err := c.lock("CreateOrUpdateStack")
	defer unlock()
	if err != nil {
		return domain.Stack{}, err
	}
	status := "CREATE_COMPLETE"
	if _, ok := c.cloud.stacks[c.at][req.StackName]; ok {
		status = "UPDATE_COMPLETE"
	}
	c.cloud.putStack(c.at, req.StackName, req.TemplateBody, status)
	return c.cloud.stacks[c.at][req.StackName].Stack, nil
}

func (c *Client) EnsureDeleted(_ context.Context, name string) error {
	unlock, err := c.lock("EnsureDeleted")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := c.cloud.stacks[c.at][name]; ok {
		c.cloud.calls["DeleteStack"]++
		delete(c.cloud.stacks[c.at], name)
	}
	return nil
}

// StartBuild starts a build that settles after BuildPolls status checks.
func (c *Client) StartBuild(_ context.Context, project string, env map[string]string) (string, error) {
	unlock, err := c.lock("StartBuild")
	defer unlock()
	if err != nil {
		return "", err
	}
	c.cloud.buildEnv[project] = append(c.cloud.buildEnv[project], maps.Clone(env))
	status, ok := c.cloud.outcomes[project]
	if !ok {
		status = domain.BuildSucceeded
	}
	id := project + ":" + c.cloud.nextID("build")
	c.cloud.builds[id] = &build{polls: c.cloud.BuildPolls, status: status}
	return id, nil
}

func (c *Client) BatchGetBuild(_ context.Context, id string) (domain.Build, error) {
	unlock, err := c.lock("BatchGetBuild")
	defer unlock()
	if err != nil {
		return domain.Build{}, err
	}
	b, ok := c.cloud.builds[id]
	if !ok {
		return domain.Build{}, notFound("codebuild.BatchGetBuilds", "build", id)
	}
	if b.polls > 0 {
		b.polls--
		return domain.Build{ID: id, Status: domain.BuildInProgress}, nil
	}
	return domain.Build{ID: id, Status: b.status}, nil
}

func (c *Client) GetParameter(_ context.Context, name string) (string, error) {
	unlock, err := c.lock("GetParameter")
	defer unlock()
	if err != nil {
		return "", err
	}
	v, ok := c.cloud.params[c.at][name]
	if !ok {
		return "", notFound("ssm.GetParameter", "parameter", name)
	}
	return v, nil
}
