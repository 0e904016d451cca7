// Package config loads and validates the deployment manifest.
package config

import (
	"maps"
	"os"
	"slices"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const actionTypeCodeBuild = "codebuild"

// Loader implements ports.ConfigLoader using a YAML manifest file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

// Load reads, parses and validates the manifest at path.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if l.Logger != nil {
		l.Logger.Debug("loaded manifest",
			"path", path,
			"accounts", len(m.Accounts),
			"spoke_local_portfolios", len(m.SpokeLocalPortfolios),
			"shares", len(m.Shares))
	}
	return m, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*domain.Manifest, error) {
	var file ManifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(domain.ErrConfigParseFailed, err.Error())
	}
	return file.toDomain()
}

func invalid(msg string) error {
	return zerr.Wrap(domain.ErrConfigInvalid, msg)
}

func (f *ManifestFile) toDomain() (*domain.Manifest, error) {
	if f.Settings.PuppetAccountID == "" {
		return nil, invalid("settings.puppet_account_id is required")
	}
	if f.Settings.HomeRegion == "" {
		return nil, invalid("settings.home_region is required")
	}

	m := &domain.Manifest{
		Settings: domain.Settings{
			PuppetAccountID: f.Settings.PuppetAccountID,
			HomeRegion:      f.Settings.HomeRegion,
			ShouldUseSNS:    f.Settings.ShouldUseSNS,
		},
		Actions: make(map[string]domain.Action, len(f.Actions)),
	}

	seen := make(map[string]bool, len(f.Accounts))
	for _, dto := range f.Accounts {
		if dto.AccountID == "" {
			return nil, invalid("account without account_id")
		}
		if seen[dto.AccountID] {
			return nil, zerr.With(invalid("duplicate account"), "account_id", dto.AccountID)
		}
		seen[dto.AccountID] = true
		if dto.DefaultRegion == "" {
			return nil, zerr.With(invalid("account has no default_region"), "account_id", dto.AccountID)
		}
		m.Accounts = append(m.Accounts, domain.Account{
			AccountID:      dto.AccountID,
			DefaultRegion:  dto.DefaultRegion,
			RegionsEnabled: dto.RegionsEnabled,
			Tags:           dto.Tags,
			Organization:   dto.Organization,
		})
	}

	for _, name := range slices.Sorted(maps.Keys(f.Actions)) {
		action, err := convertAction(name, f.Actions[name])
		if err != nil {
			return nil, err
		}
		m.Actions[name] = action
	}

	for _, name := range slices.Sorted(maps.Keys(f.SpokeLocalPortfolios)) {
		slp, err := convertSpokeLocalPortfolio(name, f.SpokeLocalPortfolios[name], m.Actions)
		if err != nil {
			return nil, err
		}
		m.SpokeLocalPortfolios = append(m.SpokeLocalPortfolios, slp)
	}

	for _, name := range slices.Sorted(maps.Keys(f.Shares)) {
		dto := f.Shares[name]
		if dto.Portfolio == "" {
			return nil, zerr.With(invalid("share has no portfolio"), "share", name)
		}
		deployTo, err := convertDeployTo(dto.DeployTo)
		if err != nil {
			return nil, zerr.With(err, "share", name)
		}
		m.Shares = append(m.Shares, domain.Share{
			Name:      name,
			Portfolio: dto.Portfolio,
			DeployTo:  deployTo,
		})
	}

	return m, nil
}

func convertAction(name string, dto ActionDTO) (domain.Action, error) {
	if dto.Type != actionTypeCodeBuild {
		return domain.Action{}, zerr.With(zerr.With(invalid("unsupported action type"), "action", name), "type", dto.Type)
	}
	if dto.ProjectName == "" || dto.AccountID == "" || dto.Region == "" {
		return domain.Action{}, zerr.With(invalid("action needs project_name, account_id and region"), "action", name)
	}

	action := domain.Action{
		Type:        dto.Type,
		ProjectName: dto.ProjectName,
		AccountID:   dto.AccountID,
		Region:      dto.Region,
		Source:      dto.Source,
		SourceType:  dto.SourceType,
		Parameters:  make(map[string]domain.ActionParameter, len(dto.Parameters)),
	}
	for paramName, p := range dto.Parameters {
		param := domain.ActionParameter{Default: p.Default}
		if p.SSM != nil {
			param.SSMName = p.SSM.Name
			param.SSMRegion = p.SSM.Region
		}
		action.Parameters[paramName] = param
	}

	if err := action.Validate(name); err != nil {
		return domain.Action{}, zerr.With(zerr.With(invalid("invalid action parameter"), "action", name), "detail", err.Error())
	}
	return action, nil
}

func convertDeployTo(dto DeployToDTO) (domain.DeployTo, error) {
	if len(dto.Accounts) == 0 && len(dto.Tags) == 0 {
		return domain.DeployTo{}, invalid("deploy_to selects no accounts or tags")
	}

	d := domain.DeployTo{
		Accounts: dto.Accounts,
		Tags:     dto.Tags,
	}
	switch {
	case len(dto.Regions.List) > 0:
		d.RegionsMode = domain.RegionsExplicit
		d.Regions = dto.Regions.List
	case dto.Regions.Mode == "", dto.Regions.Mode == domain.RegionsDefault:
		d.RegionsMode = domain.RegionsDefault
	case dto.Regions.Mode == domain.RegionsEnabled:
		d.RegionsMode = domain.RegionsEnabled
	default:
		return domain.DeployTo{}, zerr.With(invalid("unknown regions mode"), "regions", dto.Regions.Mode)
	}
	return d, nil
}

func convertSpokeLocalPortfolio(
	name string,
	dto SpokeLocalPortfolioDTO,
	actions map[string]domain.Action,
) (domain.SpokeLocalPortfolio, error) {
	if dto.Portfolio == "" {
		return domain.SpokeLocalPortfolio{}, zerr.With(invalid("spoke-local-portfolio has no portfolio"), "spoke_local_portfolio", name)
	}

	deployTo, err := convertDeployTo(dto.DeployTo)
	if err != nil {
		return domain.SpokeLocalPortfolio{}, zerr.With(err, "spoke_local_portfolio", name)
	}

	slp := domain.SpokeLocalPortfolio{
		Name:         name,
		Portfolio:    dto.Portfolio,
		ProviderName: dto.ProviderName,
		Description:  dto.Description,
		DeployTo:     deployTo,
		Associations: dto.Associations,
	}

	for _, c := range dto.Constraints.Launch {
		constraint := domain.LaunchConstraint{
			Roles:          c.Roles,
			Products:       c.Products.List,
			Product:        c.Product,
			ProductPattern: c.Products.Pattern,
		}
		if err := constraint.Validate(); err != nil {
			return domain.SpokeLocalPortfolio{}, zerr.With(err, "spoke_local_portfolio", name)
		}
		slp.LaunchConstraints = append(slp.LaunchConstraints, constraint)
	}

	if slp.PreActions, err = resolveActions(name, "pre", dto.PreActions, actions); err != nil {
		return domain.SpokeLocalPortfolio{}, err
	}
	if slp.PostActions, err = resolveActions(name, "post", dto.PostActions, actions); err != nil {
		return domain.SpokeLocalPortfolio{}, err
	}
	return slp, nil
}

func resolveActions(owner, phase string, refs []ActionRefDTO, actions map[string]domain.Action) ([]domain.ActionRef, error) {
	out := make([]domain.ActionRef, 0, len(refs))
	for _, ref := range refs {
		action, ok := actions[ref.Name]
		if !ok {
			return nil, zerr.With(zerr.With(invalid("unknown action"), "action", ref.Name), "spoke_local_portfolio", owner)
		}
		out = append(out, domain.ActionRef{Name: ref.Name, Phase: phase, Action: action})
	}
	return out, nil
}
