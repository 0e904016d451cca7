// Package workflow implements the reconciliation task types and the executor dispatching them.
package workflow

import (
	"slices"
	"strconv"

	"go.trai.ch/puppet/internal/core/domain"
)

// Task types handled by the Dispatcher.
const (
	TypeGetPortfolioID                    domain.TaskType = "get-portfolio-id"
	TypeGetProductID                      domain.TaskType = "get-product-id"
	TypeGetVersionID                      domain.TaskType = "get-version-id"
	TypeGetSSMParam                       domain.TaskType = "get-ssm-param"
	TypeProvisionAction                   domain.TaskType = "provision-action"
	TypeCreateSpokeLocalPortfolio         domain.TaskType = "create-spoke-local-portfolio"
	TypeImportIntoSpokeLocalPortfolio     domain.TaskType = "import-into-spoke-local-portfolio"
	TypeSyncVersionActivation             domain.TaskType = "sync-version-activation"
	TypeCreateAssociations                domain.TaskType = "create-associations-for-portfolio"
	TypeCreateLaunchRoleConstraints       domain.TaskType = "create-launch-role-constraints"
	TypeRequestPolicy                     domain.TaskType = "request-policy"
	TypeShareAndAcceptPortfolio           domain.TaskType = "share-and-accept-portfolio"
	TypeAssociateHubPrincipal             domain.TaskType = "associate-hub-principal"
	TypeCreateShareForAccountLaunchRegion domain.TaskType = "create-share-for-account-launch-region"
)

// Parameter names.
const (
	paramAccountID         = "account_id"
	paramRegion            = "region"
	paramPortfolio         = "portfolio"
	paramProduct           = "product"
	paramVersion           = "version"
	paramName              = "name"
	paramType              = "type"
	paramOrganization      = "organization"
	paramPuppetAccountID   = "puppet_account_id"
	paramHubAccountID      = "hub_account_id"
	paramPreActions        = "pre_actions"
	paramPostActions       = "post_actions"
	paramAssociations      = "associations"
	paramLaunchConstraints = "launch_constraints"
	paramProjectName       = "project_name"
	paramPhase             = "phase"
	paramSource            = "source"
	paramSourceType        = "source_type"
	paramParameters        = "parameters"
	paramRoles             = "roles"
	paramProducts          = "products"

	optProviderName = "provider_name"
	optDescription  = "description"
	optShouldUseSNS = "should_use_sns"
)

// Policy request kinds.
const (
	PolicyTopic  = "topic"
	PolicyBucket = "bucket"
)

const notSet = "not set"

// SpokeTarget is one spoke-local-portfolio deployment to an account and region.
type SpokeTarget struct {
	AccountID         string
	Region            string
	Portfolio         string
	PuppetAccountID   string
	ProviderName      string
	Description       string
	ShouldUseSNS      bool
	PreActions        []map[string]any
	PostActions       []map[string]any
	Associations      []string
	LaunchConstraints []map[string]any
}

func (t SpokeTarget) options() domain.ParameterSet {
	provider, description := t.ProviderName, t.Description
	if provider == "" {
		provider = notSet
	}
	if description == "" {
		description = notSet
	}
	return domain.MustParameterSet(map[string]any{
		optProviderName: provider,
		optDescription:  description,
		optShouldUseSNS: t.ShouldUseSNS,
	})
}

func newTask(typ domain.TaskType, params map[string]any) *domain.Task {
	return &domain.Task{Type: typ, Params: domain.MustParameterSet(params)}
}

func actionList(actions []map[string]any) []any {
	out := make([]any, 0, len(actions))
	for _, a := range actions {
		out = append(out, a)
	}
	return out
}

// requireActions adds one provision-action requirement per action, in order.
func requireActions(t *domain.Task, prefix string, actions []domain.Value) {
	for i, a := range actions {
		t.Require(prefix+"/"+strconv.Itoa(i), ProvisionAction(a.Map()))
	}
}

// emitActions returns the provision-action tasks for actions.
func emitActions(actions []domain.Value) []*domain.Task {
	out := make([]*domain.Task, 0, len(actions))
	for _, a := range actions {
		out = append(out, ProvisionAction(a.Map()))
	}
	return out
}

// GetPortfolioID resolves a portfolio name in an account and region.
func GetPortfolioID(account, region, portfolio string) *domain.Task {
	return newTask(TypeGetPortfolioID, map[string]any{
		paramAccountID: account,
		paramRegion:    region,
		paramPortfolio: portfolio,
	})
}

// GetProductID resolves a product name within a portfolio.
func GetProductID(account, region, portfolio, product string) *domain.Task {
	t := newTask(TypeGetProductID, map[string]any{
		paramAccountID: account,
		paramRegion:    region,
		paramPortfolio: portfolio,
		paramProduct:   product,
	})
	t.Require("portfolio", GetPortfolioID(account, region, portfolio))
	return t
}

// GetVersionID resolves a version name within a product.
func GetVersionID(account, region, portfolio, product, version string) *domain.Task {
	t := newTask(TypeGetVersionID, map[string]any{
		paramAccountID: account,
		paramRegion:    region,
		paramPortfolio: portfolio,
		paramProduct:   product,
		paramVersion:   version,
	})
	t.Require("product", GetProductID(account, region, portfolio, product))
	return t
}

// GetSSMParam fetches a parameter store value. Identity is the name and region,
// so actions referencing the same secret share one fetch.
func GetSSMParam(name, region string) *domain.Task {
	return newTask(TypeGetSSMParam, map[string]any{
		paramName:   name,
		paramRegion: region,
	})
}

// ProvisionAction runs an action whose parameters are encoded as by ActionParams.
// A parameter declaring both an ssm source and a default gets no fetch; the
// workflow body rejects it before any remote call.
func ProvisionAction(params domain.ParameterSet) *domain.Task {
	t := &domain.Task{Type: TypeProvisionAction, Params: params}
	parameters := params.Map(paramParameters)
	for _, name := range parameters.Names() {
		p := actionParameter(parameters.Map(name))
		if p.IsSSM() && p.Default == nil {
			t.Require("ssm/"+name, GetSSMParam(p.SSMName, p.SSMRegion))
		}
	}
	return t
}

// CreateSpokeLocalPortfolio ensures the portfolio exists in the spoke after its pre-actions ran.
func CreateSpokeLocalPortfolio(t SpokeTarget) *domain.Task {
	task := newTask(TypeCreateSpokeLocalPortfolio, map[string]any{
		paramAccountID:  t.AccountID,
		paramRegion:     t.Region,
		paramPortfolio:  t.Portfolio,
		paramPreActions: actionList(t.PreActions),
	})
	task.Options = t.options()
	requireActions(task, "pre_actions", task.Params.List(paramPreActions))
	return task
}

// ImportIntoSpokeLocalPortfolio synchronizes hub products into the spoke portfolio.
func ImportIntoSpokeLocalPortfolio(t SpokeTarget) *domain.Task {
	task := newTask(TypeImportIntoSpokeLocalPortfolio, map[string]any{
		paramAccountID:    t.AccountID,
		paramRegion:       t.Region,
		paramPortfolio:    t.Portfolio,
		paramHubAccountID: t.PuppetAccountID,
		paramPreActions:   actionList(t.PreActions),
		paramPostActions:  actionList(t.PostActions),
	})
	task.Options = t.options()
	task.Require("portfolio", CreateSpokeLocalPortfolio(t))
	task.Require("hub_portfolio", GetPortfolioID(t.PuppetAccountID, t.Region, t.Portfolio))
	task.Locks = []string{t.AccountID + "-" + t.Region + "-" + t.Portfolio}
	return task
}

// SyncVersionActivation mirrors hub version activation onto the imported spoke products.
// It is volatile because activation can flip between runs without anything else changing.
func SyncVersionActivation(t SpokeTarget) *domain.Task {
	task := newTask(TypeSyncVersionActivation, map[string]any{
		paramAccountID:    t.AccountID,
		paramRegion:       t.Region,
		paramPortfolio:    t.Portfolio,
		paramHubAccountID: t.PuppetAccountID,
	})
	task.Options = t.options()
	task.Require("import", ImportIntoSpokeLocalPortfolio(t))
	task.Require("hub_portfolio", GetPortfolioID(t.PuppetAccountID, t.Region, t.Portfolio))
	task.Locks = []string{t.AccountID + "-" + t.Region + "-" + t.Portfolio}
	task.Volatile = true
	return task
}

// CreateAssociations applies the principal associations stack to the spoke portfolio.
func CreateAssociations(t SpokeTarget) *domain.Task {
	task := newTask(TypeCreateAssociations, map[string]any{
		paramAccountID:       t.AccountID,
		paramRegion:          t.Region,
		paramPortfolio:       t.Portfolio,
		paramPuppetAccountID: t.PuppetAccountID,
		paramAssociations:    slices.Clone(t.Associations),
		paramPreActions:      actionList(t.PreActions),
	})
	task.Options = t.options()
	task.Require("portfolio", CreateSpokeLocalPortfolio(t))
	return task
}

// CreateLaunchRoleConstraints applies the launch role constraints stack after the import.
func CreateLaunchRoleConstraints(t SpokeTarget) *domain.Task {
	task := newTask(TypeCreateLaunchRoleConstraints, map[string]any{
		paramAccountID:         t.AccountID,
		paramRegion:            t.Region,
		paramPortfolio:         t.Portfolio,
		paramHubAccountID:      t.PuppetAccountID,
		paramPuppetAccountID:   t.PuppetAccountID,
		paramLaunchConstraints: actionList(t.LaunchConstraints),
		paramPreActions:        actionList(t.PreActions),
		paramPostActions:       actionList(t.PostActions),
	})
	task.Options = t.options()
	task.Require("import", ImportIntoSpokeLocalPortfolio(t))
	return task
}

// RequestPolicy records a bucket or topic policy request for an account or organization.
func RequestPolicy(kind, account, region, organization string) *domain.Task {
	return newTask(TypeRequestPolicy, map[string]any{
		paramType:         kind,
		paramAccountID:    account,
		paramRegion:       region,
		paramOrganization: organization,
	})
}

// ShareAndAcceptPortfolio shares a hub portfolio with an account and accepts it there.
func ShareAndAcceptPortfolio(account, region, portfolio, puppetAccount string) *domain.Task {
	t := newTask(TypeShareAndAcceptPortfolio, map[string]any{
		paramAccountID:       account,
		paramRegion:          region,
		paramPortfolio:       portfolio,
		paramPuppetAccountID: puppetAccount,
	})
	t.Require("portfolio", GetPortfolioID(puppetAccount, region, portfolio))
	t.Locks = []string{puppetAccount + "-" + region + "-" + portfolio}
	return t
}

// AssociateHubPrincipal associates the execution role with a portfolio of the puppet account itself.
func AssociateHubPrincipal(account, region, portfolio string) *domain.Task {
	t := newTask(TypeAssociateHubPrincipal, map[string]any{
		paramAccountID: account,
		paramRegion:    region,
		paramPortfolio: portfolio,
	})
	t.Require("portfolio", GetPortfolioID(account, region, portfolio))
	t.Locks = []string{region + "-" + portfolio}
	return t
}

// CreateShareForAccountLaunchRegion requests the policies and the share for one target.
func CreateShareForAccountLaunchRegion(puppetAccount, account, region, portfolio, organization string) *domain.Task {
	t := newTask(TypeCreateShareForAccountLaunchRegion, map[string]any{
		paramPuppetAccountID: puppetAccount,
		paramAccountID:       account,
		paramRegion:          region,
		paramPortfolio:       portfolio,
		paramOrganization:    organization,
	})
	t.Require("topic", RequestPolicy(PolicyTopic, account, region, organization))
	t.Require("bucket", RequestPolicy(PolicyBucket, account, region, organization))
	if account == puppetAccount {
		t.Require("share", AssociateHubPrincipal(account, region, portfolio))
	} else {
		t.Require("share", ShareAndAcceptPortfolio(account, region, portfolio, puppetAccount))
	}
	return t
}
