package domain

// Template names understood by the template renderer.
const (
	AssociationsTemplate      = "associations"
	LaunchConstraintsTemplate = "launch_role_constraints"
)

// AssociationsContext is the typed input of the associations template.
type AssociationsContext struct {
	PortfolioID   string
	PortfolioName string
	PrincipalARNs []string
}

// ResolvedLaunchConstraint is a launch constraint whose selector was matched
// against the live products of a portfolio.
type ResolvedLaunchConstraint struct {
	Roles    []string
	Products []string
}

// LaunchConstraintsContext is the typed input of the launch role constraints template.
type LaunchConstraintsContext struct {
	PortfolioID   string
	PortfolioName string
	Constraints   []ResolvedLaunchConstraint
	ProductIDs    map[string]string
}
