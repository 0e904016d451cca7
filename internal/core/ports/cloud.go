package ports

import (
	"context"

	"go.trai.ch/puppet/internal/core/domain"
)

//go:generate mockgen -source=cloud.go -destination=mocks/mock_cloud.go -package=mocks

// ClientFactory hands out clients scoped to an account and region.
// Implementations surface a missing resource as domain.ErrNotFound and
// every other remote fault as domain.ErrRemoteOperationFailed.
type ClientFactory interface {
	// AssumeRole returns a client acting through the given role session.
	AssumeRole(ctx context.Context, session domain.RoleSession) (ScopedClient, error)
	// Local returns a client using the ambient credentials of the puppet account.
	Local(ctx context.Context, region string) (ScopedClient, error)
}

// ScopedClient exposes the services used by the workflows for one account and region.
type ScopedClient interface {
	ServiceCatalog() ServiceCatalog
	CloudFormation() CloudFormation
	CodeBuild() CodeBuild
	ParameterStore() ParameterStore
}

// ServiceCatalog is the subset of the Service Catalog control plane the workflows use.
type ServiceCatalog interface {
	// ListPortfolios returns every local portfolio.
	ListPortfolios(ctx context.Context) ([]domain.Portfolio, error)
	// CreatePortfolio creates a local portfolio.
	CreatePortfolio(ctx context.Context, p domain.Portfolio) (domain.Portfolio, error)
	// SearchProductsAsAdmin lists the products of a portfolio, optionally
	// filtered by full text search.
	SearchProductsAsAdmin(ctx context.Context, portfolioID, fullTextSearch string) ([]domain.Product, error)
	// ListProvisioningArtifacts returns the versions of a product.
	ListProvisioningArtifacts(ctx context.Context, productID string) ([]domain.ProvisioningArtifact, error)
	// CopyProduct starts an asynchronous copy and returns its token.
	CopyProduct(ctx context.Context, req domain.CopyProductRequest) (string, error)
	// DescribeCopyProductStatus polls an asynchronous copy.
	DescribeCopyProductStatus(ctx context.Context, token string) (domain.CopyProductStatus, error)
	// AssociateProductWithPortfolio adds a product to a portfolio.
	AssociateProductWithPortfolio(ctx context.Context, productID, portfolioID string) error
	// UpdateProvisioningArtifactActive sets the active flag of a version.
	UpdateProvisioningArtifactActive(ctx context.Context, productID, artifactID string, active bool) error
	// ListPortfolioAccess returns the accounts a portfolio is shared with.
	ListPortfolioAccess(ctx context.Context, portfolioID string) ([]string, error)
	// CreatePortfolioShare shares a portfolio with an account.
	CreatePortfolioShare(ctx context.Context, portfolioID, accountID string) error
	// ListAcceptedPortfolioShares returns the imported portfolios that were accepted.
	ListAcceptedPortfolioShares(ctx context.Context) ([]domain.Portfolio, error)
	// AcceptPortfolioShare accepts a portfolio shared into the account.
	AcceptPortfolioShare(ctx context.Context, portfolioID string) error
	// ListPrincipalsForPortfolio returns the ARNs of principals associated with a portfolio.
	ListPrincipalsForPortfolio(ctx context.Context, portfolioID string) ([]string, error)
	// AssociatePrincipalWithPortfolio associates an IAM principal with a portfolio.
	AssociatePrincipalWithPortfolio(ctx context.Context, portfolioID, principalARN string) error
}

// CloudFormation manages the stacks rendered from templates.
type CloudFormation interface {
	// DescribeStack returns a stack, or domain.ErrNotFound.
	DescribeStack(ctx context.Context, name string) (domain.Stack, error)
	// CreateOrUpdateStack converges a stack to the request and waits for it to settle.
	CreateOrUpdateStack(ctx context.Context, req domain.StackRequest) (domain.Stack, error)
	// EnsureDeleted removes a stack if present and waits for the deletion.
	EnsureDeleted(ctx context.Context, name string) error
}

// CodeBuild starts and polls build jobs.
type CodeBuild interface {
	// StartBuild starts a project build with plaintext environment overrides.
	StartBuild(ctx context.Context, project string, env map[string]string) (string, error)
	// BatchGetBuild returns the current state of a build.
	BatchGetBuild(ctx context.Context, id string) (domain.Build, error)
}

// ParameterStore reads secrets and parameters.
type ParameterStore interface {
	// GetParameter returns the decrypted value of a parameter, or domain.ErrNotFound.
	GetParameter(ctx context.Context, name string) (string, error)
}
