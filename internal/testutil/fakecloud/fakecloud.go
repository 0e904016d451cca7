// Package fakecloud provides an in-memory cloud implementing the cloud ports for tests.
package fakecloud

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Version seeds a provisioning artifact.
type Version struct {
	Name   string
	Active bool
	Type   string
}

type scope struct {
	account string
	region  string
}

type product struct {
	domain.Product
	scope     scope
	artifacts []domain.ProvisioningArtifact
}

type copyOp struct {
	polls  int
	target string
	err    string
}

type stack struct {
	domain.Stack
	template string
}

type build struct {
	polls  int
	status domain.BuildStatus
}

// Cloud is an in-memory control plane shared by every scoped client it hands out.
// Every account and region pair has its own catalog; ids are unique across the cloud.
type Cloud struct {
	// HubAccount is the account used by Local clients.
	HubAccount string
	// CopyPolls is the number of status checks a copy stays in progress.
	CopyPolls int
	// MembershipPolls is the number of listings an association stays invisible.
	MembershipPolls int
	// BuildPolls is the number of status checks a build stays in progress.
	BuildPolls int

	mu          sync.Mutex
	seq         int
	portfolios  map[string]domain.Portfolio
	owners      map[string]scope
	members     map[string][]string
	pending     map[string]int
	products    map[string]*product
	access      map[string][]string
	accepted    map[scope][]string
	principals  map[scope]map[string][]string
	copies      map[string]*copyOp
	copyFail    map[string]string
	stacks      map[scope]map[string]*stack
	builds      map[string]*build
	outcomes    map[string]domain.BuildStatus
	buildEnv    map[string][]map[string]string
	params      map[scope]map[string]string
	faults      map[string]error
	calls       map[string]int
	copyReqs    []domain.CopyProductRequest
	sessions    []domain.RoleSession
	activations []Activation
}

// Activation records an UpdateProvisioningArtifact call.
type Activation struct {
	ProductID  string
	ArtifactID string
	Active     bool
}

// New creates an empty cloud whose local clients act as hubAccount.
func New(hubAccount string) *Cloud {
	return &Cloud{
		HubAccount: hubAccount,
		portfolios: make(map[string]domain.Portfolio),
		owners:     make(map[string]scope),
		members:    make(map[string][]string),
		pending:    make(map[string]int),
		products:   make(map[string]*product),
		access:     make(map[string][]string),
		accepted:   make(map[scope][]string),
		principals: make(map[scope]map[string][]string),
		copies:     make(map[string]*copyOp),
		copyFail:   make(map[string]string),
		stacks:     make(map[scope]map[string]*stack),
		builds:     make(map[string]*build),
		outcomes:   make(map[string]domain.BuildStatus),
		buildEnv:   make(map[string][]map[string]string),
		params:     make(map[scope]map[string]string),
		faults:     make(map[string]error),
		calls:      make(map[string]int),
	}
}

var _ ports.ClientFactory = (*Cloud)(nil)

// AssumeRole returns a client for the session's account and region.
func (c *Cloud) AssumeRole(_ context.Context, session domain.RoleSession) (ports.ScopedClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append(c.sessions, session)
	if err := c.faults["AssumeRole"]; err != nil {
		return nil, err
	}
	return &Client{cloud: c, at: scope{account: session.AccountID, region: session.Region}}, nil
}

// Local returns a client for the hub account.
func (c *Cloud) Local(_ context.Context, region string) (ports.ScopedClient, error) {
	return &Client{cloud: c, at: scope{account: c.HubAccount, region: region}}, nil
}

// AddPortfolio seeds a local portfolio and returns its id.
func (c *Cloud) AddPortfolio(account, region, name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createPortfolio(scope{account, region}, domain.Portfolio{DisplayName: name, ProviderName: "seed"}).ID
}

// AddProduct seeds a product with versions and associates it with a portfolio.
func (c *Cloud) AddProduct(account, region, portfolioID, name string, versions ...Version) domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.createProduct(scope{account, region}, name)
	for _, v := range versions {
		typ := v.Type
		if typ == "" {
			typ = domain.CloudFormationTemplateType
		}
		p.artifacts = append(p.artifacts, domain.ProvisioningArtifact{
			ID: c.nextID("pa"), Name: v.Name, Type: typ, Active: v.Active,
		})
	}
	c.members[portfolioID] = append(c.members[portfolioID], p.ID)
	return p.Product
}

// SetActive sets the active flag of a seeded version by name.
func (c *Cloud) SetActive(productID, version string, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return
	}
	for i := range p.artifacts {
		if p.artifacts[i].Name == version {
			p.artifacts[i].Active = active
		}
	}
}

// SetParameter seeds a parameter store value.
func (c *Cloud) SetParameter(account, region, name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := scope{account, region}
	if c.params[at] == nil {
		c.params[at] = make(map[string]string)
	}
	c.params[at][name] = value
}

// SetBuildOutcome sets the terminal status of every build of a project.
func (c *Cloud) SetBuildOutcome(project string, status domain.BuildStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[project] = status
}

// FailCopy makes copies of the named source product end in FAILED with detail.
func (c *Cloud) FailCopy(sourceARN, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copyFail[sourceARN] = detail
}

// Fail makes every call of op return err.
func (c *Cloud) Fail(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults[op] = err
}

// Calls returns how many times op was invoked.
func (c *Cloud) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// MutatingCalls returns the total number of calls that change state.
func (c *Cloud) MutatingCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range []string{
		"CreatePortfolio", "CopyProduct", "AssociateProductWithPortfolio", "UpdateProvisioningArtifact",
		"CreatePortfolioShare", "AcceptPortfolioShare", "AssociatePrincipalWithPortfolio",
		"CreateOrUpdateStack", "DeleteStack", "StartBuild",
	} {
		n += c.calls[op]
	}
	return n
}

// CopyRequests returns every copy request in call order.
func (c *Cloud) CopyRequests() []domain.CopyProductRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.copyReqs)
}

// Activations returns every activation update in call order.
func (c *Cloud) Activations() []Activation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.activations)
}

// Sessions returns every assumed role session in call order.
func (c *Cloud) Sessions() []domain.RoleSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sessions)
}

// BuildEnvironments returns the overrides of every build started for a project.
func (c *Cloud) BuildEnvironments(project string) []map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.buildEnv[project])
}

// FindPortfolio returns the local portfolio with the display name.
func (c *Cloud) FindPortfolio(account, region, name string) (domain.Portfolio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range slices.Sorted(maps.Keys(c.portfolios)) {
		p := c.portfolios[id]
		if c.owners[id] == (scope{account, region}) && p.DisplayName == name {
			return p, true
		}
	}
	return domain.Portfolio{}, false
}

// PortfolioProducts returns the products associated with a portfolio, by name.
func (c *Cloud) PortfolioProducts(portfolioID string) map[string][]domain.ProvisioningArtifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]domain.ProvisioningArtifact)
	for _, id := range c.members[portfolioID] {
		p := c.products[id]
		out[p.Name] = slices.Clone(p.artifacts)
	}
	return out
}

// SharedWith returns the accounts a portfolio is shared with.
func (c *Cloud) SharedWith(portfolioID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.access[portfolioID])
}

// Principals returns the principals associated with a portfolio in an account and region.
func (c *Cloud) Principals(account, region, portfolioID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.principals[scope{account, region}][portfolioID])
}

// Stack returns a stack and its template.
func (c *Cloud) Stack(account, region, name string) (domain.Stack, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stacks[scope{account, region}][name]
	if !ok {
		return domain.Stack{}, "", false
	}
	return s.Stack, s.template, true
}

// SeedStack places an existing stack.
func (c *Cloud) SeedStack(account, region, name, template string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putStack(scope{account, region}, name, template, "CREATE_COMPLETE")
}

func (c *Cloud) nextID(prefix string) string {
	c.seq++
	return fmt.Sprintf("%s-%04d", prefix, c.seq)
}

func (c *Cloud) createPortfolio(at scope, p domain.Portfolio) domain.Portfolio {
	p.ID = c.nextID("port")
	p.ARN = fmt.Sprintf("arn:aws:catalog:%s:%s:portfolio/%s", at.region, at.account, p.ID)
	c.portfolios[p.ID] = p
	c.owners[p.ID] = at
	return p
}

func (c *Cloud) createProduct(at scope, name string) *product {
	id := c.nextID("prod")
	p := &product{
		Product: domain.Product{
			ID:   id,
			ARN:  fmt.Sprintf("arn:aws:catalog:%s:%s:product/%s", at.region, at.account, id),
			Name: name,
		},
		scope: at,
	}
	c.products[id] = p
	return p
}

func (c *Cloud) putStack(at scope, name, template, status string) {
	if c.stacks[at] == nil {
		c.stacks[at] = make(map[string]*stack)
	}
	c.stacks[at][name] = &stack{
		Stack: domain.Stack{
			StackID:     fmt.Sprintf("arn:aws:cloudformation:%s:%s:stack/%s", at.region, at.account, name),
			StackName:   name,
			StackStatus: status,
		},
		template: template,
	}
}

// call records an invocation and returns the injected fault, if any.
func (c *Cloud) call(op string) error {
	c.calls[op]++
	return c.faults[op]
}

func notFound(op, kind, id string) error {
	return zerr.With(zerr.Wrap(domain.ErrNotFound, op), kind, id)
}

func failed(op, detail string) error {
	return zerr.With(zerr.Wrap(domain.ErrRemoteOperationFailed, op), "detail", detail)
}
