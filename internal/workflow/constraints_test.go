package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/testutil/fakecloud"
	"go.trai.ch/puppet/internal/workflow"
	"gopkg.in/yaml.v3"
)

type stackTemplate struct {
	Resources map[string]struct {
		Type       string         `yaml:"Type"`
		Properties map[string]any `yaml:"Properties"`
	} `yaml:"Resources"`
}

func parseTemplate(t *testing.T, body string) stackTemplate {
	t.Helper()
	var out stackTemplate
	require.NoError(t, yaml.Unmarshal([]byte(body), &out))
	return out
}

func TestCreateAssociations(t *testing.T) {
	t.Parallel()

	cloud := fakecloud.New(hubAccount)
	pid := cloud.AddPortfolio(spokeAccount, region, "Widget")
	d, _ := newDispatcher(t, cloud)

	task := workflow.CreateAssociations(workflow.SpokeTarget{
		AccountID:       spokeAccount,
		Region:          region,
		Portfolio:       "Widget",
		PuppetAccountID: hubAccount,
		Associations:    []string{"arn:aws:iam::${AWS::AccountId}:role/Developer"},
	})
	_, err := d.Execute(context.Background(), task, domain.Inputs{
		"portfolio": artifact(t, domain.Portfolio{ID: pid, DisplayName: "Widget"}),
	})
	require.NoError(t, err)

	stack, body, ok := cloud.Stack(spokeAccount, region, "associations-for-portfolio-"+pid)
	require.True(t, ok)
	assert.Equal(t, "CREATE_COMPLETE", stack.StackStatus)

	tmpl := parseTemplate(t, body)
	require.Len(t, tmpl.Resources, 1)
	for _, r := range tmpl.Resources {
		assert.Equal(t, "AWS::ServiceCatalog::PortfolioPrincipalAssociation", r.Type)
		assert.Equal(t, pid, r.Properties["PortfolioId"])
	}
}

func TestCreateLaunchRoleConstraints(t *testing.T) {
	t.Parallel()

	cloud := fakecloud.New(hubAccount)
	pid := cloud.AddPortfolio(spokeAccount, region, "Networking")
	vpc := cloud.AddProduct(spokeAccount, region, pid, "net-vpc")
	tgw := cloud.AddProduct(spokeAccount, region, pid, "net-tgw")
	app := cloud.AddProduct(spokeAccount, region, pid, "app-net")
	cloud.SeedStack(spokeAccount, region, "launch-constraints-for-portfolio-"+pid, "legacy")
	d, _ := newDispatcher(t, cloud)

	task := workflow.CreateLaunchRoleConstraints(workflow.SpokeTarget{
		AccountID:       spokeAccount,
		Region:          region,
		Portfolio:       "Networking",
		PuppetAccountID: hubAccount,
		LaunchConstraints: []map[string]any{
			{"roles": []string{"arn:aws:iam::${AWS::AccountId}:role/NetLaunch"}, "products": "net-"},
			{"roles": []string{"arn:aws:iam::${AWS::AccountId}:role/AppLaunch"}, "product": "app-net"},
		},
	})
	out, err := d.Execute(context.Background(), task, domain.Inputs{
		"import": artifact(t, workflow.ImportResult{
			Portfolio: domain.Portfolio{ID: pid, DisplayName: "Networking"},
			Products:  map[string]string{"net-vpc": vpc.ID},
		}),
	})
	require.NoError(t, err)
	assert.Empty(t, out.Emitted)

	_, _, legacy := cloud.Stack(spokeAccount, region, "launch-constraints-for-portfolio-"+pid)
	assert.False(t, legacy)
	assert.Equal(t, 1, cloud.Calls("DeleteStack"))

	_, body, ok := cloud.Stack(spokeAccount, region, "launch-constraints-v2-for-portfolio-"+pid)
	require.True(t, ok)

	got := map[string]bool{}
	for _, r := range parseTemplate(t, body).Resources {
		assert.Equal(t, "AWS::ServiceCatalog::LaunchRoleConstraint", r.Type)
		got[r.Properties["ProductId"].(string)] = true
	}
	assert.Equal(t, map[string]bool{vpc.ID: true, tgw.ID: true, app.ID: true}, got)
}

func TestCreateLaunchRoleConstraints_UnknownProduct(t *testing.T) {
	t.Parallel()

	cloud := fakecloud.New(hubAccount)
	pid := cloud.AddPortfolio(spokeAccount, region, "Networking")
	d, _ := newDispatcher(t, cloud)

	task := workflow.CreateLaunchRoleConstraints(workflow.SpokeTarget{
		AccountID:         spokeAccount,
		Region:            region,
		Portfolio:         "Networking",
		PuppetAccountID:   hubAccount,
		LaunchConstraints: []map[string]any{{"roles": []string{"r"}, "product": "ghost"}},
	})
	_, err := d.Execute(context.Background(), task, domain.Inputs{
		"import": artifact(t, workflow.ImportResult{Portfolio: domain.Portfolio{ID: pid}}),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPreconditionViolated)
	assert.Zero(t, cloud.Calls("CreateOrUpdateStack"))
}
