package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestFile represents the structure of the manifest.yaml file.
type ManifestFile struct {
	Settings             SettingsDTO                       `yaml:"settings"`
	Accounts             []AccountDTO                      `yaml:"accounts"`
	Actions              map[string]ActionDTO              `yaml:"actions"`
	SpokeLocalPortfolios map[string]SpokeLocalPortfolioDTO `yaml:"spoke-local-portfolios"`
	Shares               map[string]ShareDTO               `yaml:"shares"`
}

// SettingsDTO holds the global deployment settings.
type SettingsDTO struct {
	PuppetAccountID string `yaml:"puppet_account_id"`
	HomeRegion      string `yaml:"home_region"`
	ShouldUseSNS    bool   `yaml:"should_use_sns"`
}

// AccountDTO represents a managed account.
type AccountDTO struct {
	AccountID      string   `yaml:"account_id"`
	DefaultRegion  string   `yaml:"default_region"`
	RegionsEnabled []string `yaml:"regions_enabled"`
	Tags           []string `yaml:"tags"`
	Organization   string   `yaml:"organization"`
}

// ActionDTO represents a named build action.
type ActionDTO struct {
	Type        string                        `yaml:"type"`
	ProjectName string                        `yaml:"project_name"`
	AccountID   string                        `yaml:"account_id"`
	Region      string                        `yaml:"region"`
	Source      string                        `yaml:"source"`
	SourceType  string                        `yaml:"source_type"`
	Parameters  map[string]ActionParameterDTO `yaml:"parameters"`
}

// ActionParameterDTO resolves a build parameter from the parameter store or a literal.
type ActionParameterDTO struct {
	SSM     *SSMDTO `yaml:"ssm"`
	Default *string `yaml:"default"`
}

// SSMDTO names a parameter store entry.
type SSMDTO struct {
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
}

// ActionRefDTO references a named action.
type ActionRefDTO struct {
	Name string `yaml:"name"`
}

// DeployToDTO selects target accounts and regions.
type DeployToDTO struct {
	Accounts []string   `yaml:"accounts"`
	Tags     []string   `yaml:"tags"`
	Regions  RegionsDTO `yaml:"regions"`
}

// RegionsDTO is either a region mode keyword or an explicit region list.
type RegionsDTO struct {
	Mode string
	List []string
}

// UnmarshalYAML accepts a scalar mode or a sequence of regions.
func (r *RegionsDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Mode)
	case yaml.SequenceNode:
		return node.Decode(&r.List)
	default:
		return zerr.With(zerr.New("regions must be a keyword or a list"), "line", node.Line)
	}
}

// ConstraintsDTO groups the constraints of a spoke-local portfolio.
type ConstraintsDTO struct {
	Launch []LaunchConstraintDTO `yaml:"launch"`
}

// LaunchConstraintDTO binds roles to products.
type LaunchConstraintDTO struct {
	Roles    []string    `yaml:"roles"`
	Products ProductsDTO `yaml:"products"`
	Product  string      `yaml:"product"`
}

// ProductsDTO is either a name pattern or an explicit product list.
type ProductsDTO struct {
	Pattern string
	List    []string
}

// UnmarshalYAML accepts a scalar pattern or a sequence of product names.
func (p *ProductsDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&p.Pattern)
	case yaml.SequenceNode:
		return node.Decode(&p.List)
	default:
		return zerr.With(zerr.New("products must be a pattern or a list"), "line", node.Line)
	}
}

// SpokeLocalPortfolioDTO declares a hub portfolio recreated in spoke accounts.
type SpokeLocalPortfolioDTO struct {
	Portfolio    string         `yaml:"portfolio"`
	ProviderName string         `yaml:"provider_name"`
	Description  string         `yaml:"description"`
	DeployTo     DeployToDTO    `yaml:"deploy_to"`
	Associations []string       `yaml:"associations"`
	Constraints  ConstraintsDTO `yaml:"constraints"`
	PreActions   []ActionRefDTO `yaml:"pre_actions"`
	PostActions  []ActionRefDTO `yaml:"post_actions"`
}

// ShareDTO declares an explicit portfolio share.
type ShareDTO struct {
	Portfolio string      `yaml:"portfolio"`
	DeployTo  DeployToDTO `yaml:"deploy_to"`
}
