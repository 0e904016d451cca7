package template_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/adapters/template"
	"go.trai.ch/puppet/internal/core/domain"
	"gopkg.in/yaml.v3"
)

func render(t *testing.T, name string, ctx any) map[string]any {
	t.Helper()
	out, err := template.New().Render(name, ctx)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	return doc
}

func TestRender_Associations(t *testing.T) {
	t.Parallel()

	doc := render(t, domain.AssociationsTemplate, domain.AssociationsContext{
		PortfolioID:   "port-1",
		PortfolioName: "P",
		PrincipalARNs: []string{
			"arn:aws:iam::111:role/admin",
			"arn:aws:iam::${AWS::AccountId}:role/dev",
		},
	})

	want := map[string]any{
		"Association0": map[string]any{
			"Type": "AWS::ServiceCatalog::PortfolioPrincipalAssociation",
			"Properties": map[string]any{
				"PortfolioId":   "port-1",
				"PrincipalARN":  "arn:aws:iam::111:role/admin",
				"PrincipalType": "IAM",
			},
		},
		"Association1": map[string]any{
			"Type": "AWS::ServiceCatalog::PortfolioPrincipalAssociation",
			"Properties": map[string]any{
				"PortfolioId":   "port-1",
				"PrincipalARN":  map[string]any{"Fn::Sub": "arn:aws:iam::${AWS::AccountId}:role/dev"},
				"PrincipalType": "IAM",
			},
		},
	}
	if diff := cmp.Diff(want, doc["Resources"]); diff != "" {
		t.Errorf("resources mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2010-09-09", doc["AWSTemplateFormatVersion"])
}

func TestRender_LaunchConstraints(t *testing.T) {
	t.Parallel()

	doc := render(t, domain.LaunchConstraintsTemplate, &domain.LaunchConstraintsContext{
		PortfolioID:   "port-1",
		PortfolioName: "P",
		Constraints: []domain.ResolvedLaunchConstraint{
			{Roles: []string{"arn:role/launch"}, Products: []string{"Widget", "Gadget"}},
			{Roles: []string{"arn:role/launch"}, Products: []string{"Widget"}},
		},
		ProductIDs: map[string]string{"Widget": "prod-w", "Gadget": "prod-g"},
	})

	want := map[string]any{
		"LaunchRoleConstraintprodw0": map[string]any{
			"Type": "AWS::ServiceCatalog::LaunchRoleConstraint",
			"Properties": map[string]any{
				"PortfolioId": "port-1",
				"ProductId":   "prod-w",
				"RoleArn":     "arn:role/launch",
			},
		},
		"LaunchRoleConstraintprodg1": map[string]any{
			"Type": "AWS::ServiceCatalog::LaunchRoleConstraint",
			"Properties": map[string]any{
				"PortfolioId": "port-1",
				"ProductId":   "prod-g",
				"RoleArn":     "arn:role/launch",
			},
		},
	}
	if diff := cmp.Diff(want, doc["Resources"]); diff != "" {
		t.Errorf("resources mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_LaunchConstraintsUnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := template.New().Render(domain.LaunchConstraintsTemplate, domain.LaunchConstraintsContext{
		PortfolioID: "port-1",
		Constraints: []domain.ResolvedLaunchConstraint{{Roles: []string{"r"}, Products: []string{"Ghost"}}},
	})
	assert.ErrorIs(t, err, domain.ErrPreconditionViolated)
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	r := template.New()

	_, err := r.Render("nope", nil)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = r.Render(domain.AssociationsTemplate, domain.LaunchConstraintsContext{})
	assert.ErrorIs(t, err, domain.ErrTemplateRenderFailed)
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	ctx := domain.AssociationsContext{PortfolioID: "p", PrincipalARNs: []string{"a", "b", "c"}}
	first, err := template.New().Render(domain.AssociationsTemplate, ctx)
	require.NoError(t, err)
	for range 5 {
		again, err := template.New().Render(domain.AssociationsTemplate, ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
