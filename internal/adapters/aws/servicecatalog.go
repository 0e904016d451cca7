package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog/types"
	"github.com/google/uuid"
	"go.trai.ch/puppet/internal/core/domain"
)

// ServiceCatalogAPI is the subset of the SDK client used by ServiceCatalog.
type ServiceCatalogAPI interface {
	ListPortfolios(ctx context.Context, in *servicecatalog.ListPortfoliosInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.ListPortfoliosOutput, error)
	CreatePortfolio(ctx context.Context, in *servicecatalog.CreatePortfolioInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.CreatePortfolioOutput, error)
	SearchProductsAsAdmin(ctx context.Context, in *servicecatalog.SearchProductsAsAdminInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.SearchProductsAsAdminOutput, error)
	ListProvisioningArtifacts(ctx context.Context, in *servicecatalog.ListProvisioningArtifactsInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.ListProvisioningArtifactsOutput, error)
	CopyProduct(ctx context.Context, in *servicecatalog.CopyProductInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.CopyProductOutput, error)
	DescribeCopyProductStatus(ctx context.Context, in *servicecatalog.DescribeCopyProductStatusInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.DescribeCopyProductStatusOutput, error)
	AssociateProductWithPortfolio(ctx context.Context, in *servicecatalog.AssociateProductWithPortfolioInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.AssociateProductWithPortfolioOutput, error)
	UpdateProvisioningArtifact(ctx context.Context, in *servicecatalog.UpdateProvisioningArtifactInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.UpdateProvisioningArtifactOutput, error)
	ListPortfolioAccess(ctx context.Context, in *servicecatalog.ListPortfolioAccessInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.ListPortfolioAccessOutput, error)
	CreatePortfolioShare(ctx context.Context, in *servicecatalog.CreatePortfolioShareInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.CreatePortfolioShareOutput, error)
	ListAcceptedPortfolioShares(ctx context.Context, in *servicecatalog.ListAcceptedPortfolioSharesInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.ListAcceptedPortfolioSharesOutput, error)
	AcceptPortfolioShare(ctx context.Context, in *servicecatalog.AcceptPortfolioShareInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.AcceptPortfolioShareOutput, error)
	ListPrincipalsForPortfolio(ctx context.Context, in *servicecatalog.ListPrincipalsForPortfolioInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.ListPrincipalsForPortfolioOutput, error)
	AssociatePrincipalWithPortfolio(ctx context.Context, in *servicecatalog.AssociatePrincipalWithPortfolioInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.AssociatePrincipalWithPortfolioOutput, error)
}

// ServiceCatalog implements ports.ServiceCatalog.
type ServiceCatalog struct {
	api ServiceCatalogAPI
}

// NewServiceCatalog wraps an SDK client.
func NewServiceCatalog(api ServiceCatalogAPI) *ServiceCatalog {
	return &ServiceCatalog{api: api}
}

// ListPortfolios returns every local portfolio.
func (s *ServiceCatalog) ListPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	p := servicecatalog.NewListPortfoliosPaginator(s.api, &servicecatalog.ListPortfoliosInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "servicecatalog.ListPortfolios")
		}
		for _, d := range page.PortfolioDetails {
			out = append(out, toPortfolio(d))
		}
	}
	return out, nil
}

// CreatePortfolio creates a local portfolio.
func (s *ServiceCatalog) CreatePortfolio(ctx context.Context, p domain.Portfolio) (domain.Portfolio, error) {
	in := &servicecatalog.CreatePortfolioInput{
		DisplayName:      awssdk.String(p.DisplayName),
		ProviderName:     awssdk.String(p.ProviderName),
		IdempotencyToken: awssdk.String(uuid.NewString()),
	}
	if p.Description != "" {
		in.Description = awssdk.String(p.Description)
	}
	res, err := s.api.CreatePortfolio(ctx, in)
	if err != nil {
		return domain.Portfolio{}, classify(err, "servicecatalog.CreatePortfolio", "portfolio", p.DisplayName)
	}
	if res.PortfolioDetail == nil {
		return domain.Portfolio{}, classify(errEmptyResponse, "servicecatalog.CreatePortfolio", "portfolio", p.DisplayName)
	}
	return toPortfolio(*res.PortfolioDetail), nil
}

// SearchProductsAsAdmin lists the products of a portfolio, optionally filtered by full text search.
func (s *ServiceCatalog) SearchProductsAsAdmin(ctx context.Context, portfolioID, fullTextSearch string) ([]domain.Product, error) {
	in := &servicecatalog.SearchProductsAsAdminInput{PortfolioId: awssdk.String(portfolioID)}
	if fullTextSearch != "" {
		in.Filters = map[string][]string{
			string(types.ProductViewFilterByFullTextSearch): {fullTextSearch},
		}
	}

	var out []domain.Product
	p := servicecatalog.NewSearchProductsAsAdminPaginator(s.api, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "servicecatalog.SearchProductsAsAdmin", "portfolio_id", portfolioID)
		}
		for _, d := range page.ProductViewDetails {
			if d.ProductViewSummary == nil {
				continue
			}
			out = append(out, domain.Product{
				ID:   awssdk.ToString(d.ProductViewSummary.ProductId),
				ARN:  awssdk.ToString(d.ProductARN),
				Name: awssdk.ToString(d.ProductViewSummary.Name),
			})
		}
	}
	return out, nil
}

// ListProvisioningArtifacts returns the versions of a product.
func (s *ServiceCatalog) ListProvisioningArtifacts(ctx context.Context, productID string) ([]domain.ProvisioningArtifact, error) {
	res, err := s.api.ListProvisioningArtifacts(ctx, &servicecatalog.ListProvisioningArtifactsInput{
		ProductId: awssdk.String(productID),
	})
	if err != nil {
		return nil, classify(err, "servicecatalog.ListProvisioningArtifacts", "product_id", productID)
	}
	out := make([]domain.ProvisioningArtifact, 0, len(res.ProvisioningArtifactDetails))
	for _, d := range res.ProvisioningArtifactDetails {
		out = append(out, domain.ProvisioningArtifact{
			ID:     awssdk.ToString(d.Id),
			Name:   awssdk.ToString(d.Name),
			Type:   string(d.Type),
			Active: awssdk.ToBool(d.Active),
		})
	}
	return out, nil
}

// CopyProduct starts an asynchronous copy and returns its token.
func (s *ServiceCatalog) CopyProduct(ctx context.Context, req domain.CopyProductRequest) (string, error) {
	ids := make([]map[string]string, 0, len(req.ArtifactIDs))
	for _, id := range req.ArtifactIDs {
		ids = append(ids, map[string]string{string(types.ProvisioningArtifactPropertyNameId): id})
	}
	in := &servicecatalog.CopyProductInput{
		SourceProductArn:                      awssdk.String(req.SourceProductARN),
		SourceProvisioningArtifactIdentifiers: ids,
		IdempotencyToken:                      awssdk.String(uuid.NewString()),
	}
	if req.CopyTags {
		in.CopyOptions = []types.CopyOption{types.CopyOptionCopyTags}
	}
	if req.TargetProductID != "" {
		in.TargetProductId = awssdk.String(req.TargetProductID)
	}
	res, err := s.api.CopyProduct(ctx, in)
	if err != nil {
		return "", classify(err, "servicecatalog.CopyProduct", "source", req.SourceProductARN)
	}
	return awssdk.ToString(res.CopyProductToken), nil
}

// DescribeCopyProductStatus polls an asynchronous copy.
func (s *ServiceCatalog) DescribeCopyProductStatus(ctx context.Context, token string) (domain.CopyProductStatus, error) {
	res, err := s.api.DescribeCopyProductStatus(ctx, &servicecatalog.DescribeCopyProductStatusInput{
		CopyProductToken: awssdk.String(token),
	})
	if err != nil {
		return domain.CopyProductStatus{}, classify(err, "servicecatalog.DescribeCopyProductStatus")
	}
	return domain.CopyProductStatus{
		Status:          domain.CopyStatus(res.CopyProductStatus),
		TargetProductID: awssdk.ToString(res.TargetProductId),
		Detail:          awssdk.ToString(res.StatusDetail),
	}, nil
}

// AssociateProductWithPortfolio adds a product to a portfolio.
func (s *ServiceCatalog) AssociateProductWithPortfolio(ctx context.Context, productID, portfolioID string) error {
	_, err := s.api.AssociateProductWithPortfolio(ctx, &servicecatalog.AssociateProductWithPortfolioInput{
		ProductId:   awssdk.String(productID),
		PortfolioId: awssdk.String(portfolioID),
	})
	return classify(err, "servicecatalog.AssociateProductWithPortfolio", "product_id", productID, "portfolio_id", portfolioID)
}

// UpdateProvisioningArtifactActive sets the active flag of a version.
func (s *ServiceCatalog) UpdateProvisioningArtifactActive(ctx context.Context, productID, artifactID string, active bool) error {
	_, err := s.api.UpdateProvisioningArtifact(ctx, &servicecatalog.UpdateProvisioningArtifactInput{
		ProductId:              awssdk.String(productID),
		ProvisioningArtifactId: awssdk.String(artifactID),
		Active:                 awssdk.Bool(active),
	})
	return classify(err, "servicecatalog.UpdateProvisioningArtifact", "product_id", productID, "artifact_id", artifactID)
}

// ListPortfolioAccess returns the accounts a portfolio is shared with.
func (s *ServiceCatalog) ListPortfolioAccess(ctx context.Context, portfolioID string) ([]string, error) {
	var out []string
	p := servicecatalog.NewListPortfolioAccessPaginator(s.api, &servicecatalog.ListPortfolioAccessInput{
		PortfolioId: awssdk.String(portfolioID),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "servicecatalog.ListPortfolioAccess", "portfolio_id", portfolioID)
		}
		out = append(out, page.AccountIds...)
	}
	return out, nil
}

// CreatePortfolioShare shares a portfolio with an account.
func (s *ServiceCatalog) CreatePortfolioShare(ctx context.Context, portfolioID, accountID string) error {
	_, err := s.api.CreatePortfolioShare(ctx, &servicecatalog.CreatePortfolioShareInput{
		PortfolioId: awssdk.String(portfolioID),
		AccountId:   awssdk.String(accountID),
	})
	return classify(err, "servicecatalog.CreatePortfolioShare", "portfolio_id", portfolioID, "account_id", accountID)
}

// ListAcceptedPortfolioShares returns the imported portfolios that were accepted.
func (s *ServiceCatalog) ListAcceptedPortfolioShares(ctx context.Context) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	p := servicecatalog.NewListAcceptedPortfolioSharesPaginator(s.api, &servicecatalog.ListAcceptedPortfolioSharesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "servicecatalog.ListAcceptedPortfolioShares")
		}
		for _, d := range page.PortfolioDetails {
			out = append(out, toPortfolio(d))
		}
	}
	return out, nil
}

// AcceptPortfolioShare accepts a portfolio shared into the account.
func (s *ServiceCatalog) AcceptPortfolioShare(ctx context.Context, portfolioID string) error {
	_, err := s.api.AcceptPortfolioShare(ctx, &servicecatalog.AcceptPortfolioShareInput{
		PortfolioId: awssdk.String(portfolioID),
	})
	return classify(err, "servicecatalog.AcceptPortfolioShare", "portfolio_id", portfolioID)
}

// ListPrincipalsForPortfolio returns the ARNs of principals associated with a portfolio.
func (s *ServiceCatalog) ListPrincipalsForPortfolio(ctx context.Context, portfolioID string) ([]string, error) {
	var out []string
	p := servicecatalog.NewListPrincipalsForPortfolioPaginator(s.api, &servicecatalog.ListPrincipalsForPortfolioInput{
		PortfolioId: awssdk.String(portfolioID),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "servicecatalog.ListPrincipalsForPortfolio", "portfolio_id", portfolioID)
		}
		for _, principal := range page.Principals {
			out = append(out, awssdk.ToString(principal.PrincipalARN))
		}
	}
	return out, nil
}

// AssociatePrincipalWithPortfolio associates an IAM principal with a portfolio.
func (s *ServiceCatalog) AssociatePrincipalWithPortfolio(ctx context.Context, portfolioID, principalARN string) error {
	_, err := s.api.AssociatePrincipalWithPortfolio(ctx, &servicecatalog.AssociatePrincipalWithPortfolioInput{
		PortfolioId:   awssdk.String(portfolioID),
		PrincipalARN:  awssdk.String(principalARN),
		PrincipalType: types.PrincipalTypeIam,
	})
	return classify(err, "servicecatalog.AssociatePrincipalWithPortfolio", "portfolio_id", portfolioID, "principal", principalARN)
}

func toPortfolio(d types.PortfolioDetail) domain.Portfolio {
	return domain.Portfolio{
		ID:           awssdk.ToString(d.Id),
		ARN:          awssdk.ToString(d.ARN),
		DisplayName:  awssdk.ToString(d.DisplayName),
		ProviderName: awssdk.ToString(d.ProviderName),
		Description:  awssdk.ToString(d.Description),
	}
}
