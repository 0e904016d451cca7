package aws_test

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/adapters/aws"
	"go.trai.ch/puppet/internal/core/domain"
)

type stubServiceCatalog struct {
	aws.ServiceCatalogAPI

	portfolioPages [][]types.PortfolioDetail
	productPages   [][]types.ProductViewDetail
	searchInputs   []*servicecatalog.SearchProductsAsAdminInput
	copyInput      *servicecatalog.CopyProductInput
	principalInput *servicecatalog.AssociatePrincipalWithPortfolioInput
	updateInput    *servicecatalog.UpdateProvisioningArtifactInput
	createInput    *servicecatalog.CreatePortfolioInput
	missing        bool
}

func pageIndex(token *string) int {
	switch awssdk.ToString(token) {
	case "":
		return 0
	case "page-2":
		return 1
	default:
		return 2
	}
}

func nextToken(i, total int) *string {
	if i+1 >= total {
		return nil
	}
	return awssdk.String("page-" + string(rune('2'+i)))
}

func (s *stubServiceCatalog) ListPortfolios(_ context.Context, in *servicecatalog.ListPortfoliosInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.ListPortfoliosOutput, error) {
	i := pageIndex(in.PageToken)
	return &servicecatalog.ListPortfoliosOutput{
		PortfolioDetails: s.portfolioPages[i],
		NextPageToken:    nextToken(i, len(s.portfolioPages)),
	}, nil
}

func (s *stubServiceCatalog) CreatePortfolio(_ context.Context, in *servicecatalog.CreatePortfolioInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.CreatePortfolioOutput, error) {
	s.createInput = in
	return &servicecatalog.CreatePortfolioOutput{PortfolioDetail: &types.PortfolioDetail{
		Id:           awssdk.String("port-new"),
		DisplayName:  in.DisplayName,
		ProviderName: in.ProviderName,
	}}, nil
}

func (s *stubServiceCatalog) SearchProductsAsAdmin(_ context.Context, in *servicecatalog.SearchProductsAsAdminInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.SearchProductsAsAdminOutput, error) {
	if s.missing {
		return nil, &types.ResourceNotFoundException{Message: awssdk.String("no such portfolio")}
	}
	s.searchInputs = append(s.searchInputs, in)
	i := pageIndex(in.PageToken)
	return &servicecatalog.SearchProductsAsAdminOutput{
		ProductViewDetails: s.productPages[i],
		NextPageToken:      nextToken(i, len(s.productPages)),
	}, nil
}

func (s *stubServiceCatalog) CopyProduct(_ context.Context, in *servicecatalog.CopyProductInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.CopyProductOutput, error) {
	s.copyInput = in
	return &servicecatalog.CopyProductOutput{CopyProductToken: awssdk.String("copy-1")}, nil
}

func (s *stubServiceCatalog) DescribeCopyProductStatus(_ context.Context, _ *servicecatalog.DescribeCopyProductStatusInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.DescribeCopyProductStatusOutput, error) {
	return &servicecatalog.DescribeCopyProductStatusOutput{
		CopyProductStatus: types.CopyProductStatusSucceeded,
		TargetProductId:   awssdk.String("prod-spoke"),
	}, nil
}

func (s *stubServiceCatalog) UpdateProvisioningArtifact(_ context.Context, in *servicecatalog.UpdateProvisioningArtifactInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.UpdateProvisioningArtifactOutput, error) {
	s.updateInput = in
	return &servicecatalog.UpdateProvisioningArtifactOutput{}, nil
}

func (s *stubServiceCatalog) AssociatePrincipalWithPortfolio(_ context.Context, in *servicecatalog.AssociatePrincipalWithPortfolioInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.AssociatePrincipalWithPortfolioOutput, error) {
	s.principalInput = in
	return &servicecatalog.AssociatePrincipalWithPortfolioOutput{}, nil
}

func TestServiceCatalog_ListPortfoliosPaginates(t *testing.T) {
	t.Parallel()

	stub := &stubServiceCatalog{portfolioPages: [][]types.PortfolioDetail{
		{{Id: awssdk.String("port-1"), DisplayName: awssdk.String("A")}},
		{{Id: awssdk.String("port-2"), DisplayName: awssdk.String("B"), ProviderName: awssdk.String("ccoe")}},
	}}

	got, err := aws.NewServiceCatalog(stub).ListPortfolios(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []domain.Portfolio{
		{ID: "port-1", DisplayName: "A"},
		{ID: "port-2", DisplayName: "B", ProviderName: "ccoe"},
	}, got)
}

func TestServiceCatalog_SearchProductsAsAdmin(t *testing.T) {
	t.Parallel()

	stub := &stubServiceCatalog{productPages: [][]types.ProductViewDetail{
		{{
			ProductARN:         awssdk.String("arn:prod-1"),
			ProductViewSummary: &types.ProductViewSummary{ProductId: awssdk.String("prod-1"), Name: awssdk.String("Widget")},
		}},
		{{ProductARN: awssdk.String("arn:ignored")}},
	}}

	got, err := aws.NewServiceCatalog(stub).SearchProductsAsAdmin(t.Context(), "port-1", "Widget")
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{{ID: "prod-1", ARN: "arn:prod-1", Name: "Widget"}}, got)

	require.Len(t, stub.searchInputs, 2)
	assert.Equal(t, "port-1", awssdk.ToString(stub.searchInputs[0].PortfolioId))
	assert.Equal(t, map[string][]string{"FullTextSearch": {"Widget"}}, stub.searchInputs[0].Filters)
}

func TestServiceCatalog_SearchProductsAsAdminNotFound(t *testing.T) {
	t.Parallel()

	_, err := aws.NewServiceCatalog(&stubServiceCatalog{missing: true}).SearchProductsAsAdmin(t.Context(), "port-x", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceCatalog_CreatePortfolio(t *testing.T) {
	t.Parallel()

	stub := &stubServiceCatalog{}
	got, err := aws.NewServiceCatalog(stub).CreatePortfolio(t.Context(), domain.Portfolio{DisplayName: "P", ProviderName: "ccoe"})
	require.NoError(t, err)
	assert.Equal(t, "port-new", got.ID)
	assert.NotEmpty(t, awssdk.ToString(stub.createInput.IdempotencyToken))
	assert.Nil(t, stub.createInput.Description)
}

func TestServiceCatalog_CopyProduct(t *testing.T) {
	t.Parallel()

	stub := &stubServiceCatalog{}
	sc := aws.NewServiceCatalog(stub)

	token, err := sc.CopyProduct(t.Context(), domain.CopyProductRequest{
		SourceProductARN: "arn:hub",
		TargetProductID:  "prod-spoke",
		ArtifactIDs:      []string{"pa-1", "pa-2"},
		CopyTags:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "copy-1", token)
	assert.Equal(t, []map[string]string{{"Id": "pa-1"}, {"Id": "pa-2"}}, stub.copyInput.SourceProvisioningArtifactIdentifiers)
	assert.Equal(t, []types.CopyOption{types.CopyOptionCopyTags}, stub.copyInput.CopyOptions)
	assert.Equal(t, "prod-spoke", awssdk.ToString(stub.copyInput.TargetProductId))

	status, err := sc.DescribeCopyProductStatus(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.CopyProductStatus{Status: domain.CopySucceeded, TargetProductID: "prod-spoke"}, status)
}

func TestServiceCatalog_UpdateAndAssociate(t *testing.T) {
	t.Parallel()

	stub := &stubServiceCatalog{}
	sc := aws.NewServiceCatalog(stub)

	require.NoError(t, sc.UpdateProvisioningArtifactActive(t.Context(), "prod-1", "pa-1", false))
	require.NotNil(t, stub.updateInput.Active)
	assert.False(t, *stub.updateInput.Active)

	require.NoError(t, sc.AssociatePrincipalWithPortfolio(t.Context(), "port-1", "arn:aws:iam::111:role/r"))
	assert.Equal(t, types.PrincipalTypeIam, stub.principalInput.PrincipalType)
	assert.Equal(t, "arn:aws:iam::111:role/r", awssdk.ToString(stub.principalInput.PrincipalARN))
}
