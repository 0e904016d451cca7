package domain

import (
	"regexp"
	"slices"

	"go.trai.ch/zerr"
)

// Manifest is the validated deployment description.
type Manifest struct {
	Settings             Settings
	Accounts             []Account
	Actions              map[string]Action
	SpokeLocalPortfolios []SpokeLocalPortfolio
	Shares               []Share
}

// Settings are the global deployment settings.
type Settings struct {
	PuppetAccountID string
	HomeRegion      string
	ShouldUseSNS    bool
}

// Account is a managed account and the regions it is enabled in.
type Account struct {
	AccountID      string
	DefaultRegion  string
	RegionsEnabled []string
	Tags           []string
	Organization   string
}

// HasTag reports whether the account carries the tag.
func (a Account) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// ActionParameter resolves one named build parameter.
// Exactly one of SSM and Default must be set.
type ActionParameter struct {
	SSMName   string
	SSMRegion string
	Default   *string
}

// IsSSM reports whether the parameter is backed by the parameter store.
func (p ActionParameter) IsSSM() bool {
	return p.SSMName != ""
}

// Validate checks that the parameter has exactly one resolution source.
func (p ActionParameter) Validate(name string) error {
	hasSSM := p.SSMName != ""
	hasDefault := p.Default != nil
	if hasSSM == hasDefault {
		return zerr.With(zerr.With(
			zerr.Wrap(ErrPreconditionViolated, "parameter needs exactly one of ssm or default"),
			"parameter", name), "has_ssm", hasSSM)
	}
	return nil
}

// Action is an external build invocation run before or after a workflow.
type Action struct {
	Type        string
	ProjectName string
	AccountID   string
	Region      string
	Source      string
	SourceType  string
	Parameters  map[string]ActionParameter
}

// Validate checks every parameter of the action.
func (a Action) Validate(name string) error {
	for paramName, p := range a.Parameters {
		if err := p.Validate(paramName); err != nil {
			return zerr.With(err, "action", name)
		}
	}
	return nil
}

// ActionRef binds a named action to the phase it runs in.
type ActionRef struct {
	Name   string
	Phase  string
	Action Action
}

// DeployTo selects the accounts and regions a spoke-local portfolio targets.
type DeployTo struct {
	Accounts []string
	Tags     []string
	// Regions is only consulted when RegionsMode is RegionsExplicit.
	Regions     []string
	RegionsMode string
}

const (
	// RegionsDefault deploys to each account's default region.
	RegionsDefault = "default_region"
	// RegionsEnabled deploys to every region enabled for the account.
	RegionsEnabled = "regions_enabled"
	// RegionsExplicit deploys to an explicit region list.
	RegionsExplicit = "explicit"
)

// LaunchConstraint binds roles to a product selector.
// Products is used verbatim, Product is appended, and ProductPattern is
// matched from the start of every product name in the live portfolio.
type LaunchConstraint struct {
	Roles          []string
	Products       []string
	Product        string
	ProductPattern string
}

// Validate checks that the pattern, when present, compiles.
func (c LaunchConstraint) Validate() error {
	if len(c.Roles) == 0 {
		return zerr.Wrap(ErrConfigInvalid, "launch constraint has no roles")
	}
	if c.ProductPattern != "" {
		if _, err := regexp.Compile(c.ProductPattern); err != nil {
			return zerr.With(zerr.With(
				zerr.Wrap(ErrConfigInvalid, "launch constraint pattern does not compile"),
				"pattern", c.ProductPattern), "detail", err.Error())
		}
	}
	return nil
}

// SpokeLocalPortfolio declares a hub portfolio to recreate in spoke accounts.
type SpokeLocalPortfolio struct {
	Name              string
	Portfolio         string
	ProviderName      string
	Description       string
	DeployTo          DeployTo
	Associations      []string
	LaunchConstraints []LaunchConstraint
	PreActions        []ActionRef
	PostActions       []ActionRef
}

// Share declares a hub portfolio to share into the selected accounts and regions.
type Share struct {
	Name      string
	Portfolio string
	DeployTo  DeployTo
}

// Target is a single account and region selected by a DeployTo.
type Target struct {
	AccountID    string
	Region       string
	Organization string
}

// Targets expands a DeployTo into account and region pairs in manifest order.
// Accounts match by id or by any shared tag; each pair appears once.
func (m *Manifest) Targets(d DeployTo) []Target {
	seen := make(map[Target]bool)
	var out []Target
	for _, acc := range m.Accounts {
		if !d.selects(acc) {
			continue
		}
		for _, region := range d.regionsFor(acc) {
			t := Target{AccountID: acc.AccountID, Region: region, Organization: acc.Organization}
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func (d DeployTo) selects(acc Account) bool {
	if slices.Contains(d.Accounts, acc.AccountID) {
		return true
	}
	return slices.ContainsFunc(d.Tags, acc.HasTag)
}

func (d DeployTo) regionsFor(acc Account) []string {
	switch d.RegionsMode {
	case RegionsEnabled:
		return acc.RegionsEnabled
	case RegionsExplicit:
		return d.Regions
	default:
		if acc.DefaultRegion == "" {
			return nil
		}
		return []string{acc.DefaultRegion}
	}
}
