package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/core/domain"
)

func TestActionParameter_Validate(t *testing.T) {
	t.Parallel()

	literal := "value"
	tests := []struct {
		name    string
		param   domain.ActionParameter
		wantErr bool
	}{
		{name: "ssm only", param: domain.ActionParameter{SSMName: "/x"}},
		{name: "default only", param: domain.ActionParameter{Default: &literal}},
		{name: "both", param: domain.ActionParameter{SSMName: "/x", Default: &literal}, wantErr: true},
		{name: "neither", param: domain.ActionParameter{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.param.Validate("p")
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrPreconditionViolated))
		})
	}
}

func TestManifest_Targets(t *testing.T) {
	t.Parallel()

	m := &domain.Manifest{
		Accounts: []domain.Account{
			{AccountID: "111", DefaultRegion: "eu-west-1", RegionsEnabled: []string{"eu-west-1", "us-east-1"}, Tags: []string{"type:spoke"}},
			{AccountID: "222", DefaultRegion: "eu-west-2", RegionsEnabled: []string{"eu-west-2"}, Tags: []string{"type:hub"}},
			{AccountID: "333", DefaultRegion: "eu-west-3", Tags: []string{"type:spoke"}, Organization: "o-1"},
		},
	}

	t.Run("by tag with default region", func(t *testing.T) {
		t.Parallel()
		got := m.Targets(domain.DeployTo{Tags: []string{"type:spoke"}})
		assert.Equal(t, []domain.Target{
			{AccountID: "111", Region: "eu-west-1"},
			{AccountID: "333", Region: "eu-west-3", Organization: "o-1"},
		}, got)
	})

	t.Run("by account with enabled regions", func(t *testing.T) {
		t.Parallel()
		got := m.Targets(domain.DeployTo{Accounts: []string{"111"}, RegionsMode: domain.RegionsEnabled})
		assert.Equal(t, []domain.Target{
			{AccountID: "111", Region: "eu-west-1"},
			{AccountID: "111", Region: "us-east-1"},
		}, got)
	})

	t.Run("account and tag overlap once", func(t *testing.T) {
		t.Parallel()
		got := m.Targets(domain.DeployTo{
			Accounts:    []string{"222"},
			Tags:        []string{"type:hub"},
			RegionsMode: domain.RegionsExplicit,
			Regions:     []string{"ap-southeast-2"},
		})
		assert.Equal(t, []domain.Target{{AccountID: "222", Region: "ap-southeast-2"}}, got)
	})
}

func TestLaunchConstraint_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.LaunchConstraint{Roles: []string{"r"}, ProductPattern: "^net-.*"}.Validate())
	err := domain.LaunchConstraint{Roles: []string{"r"}, ProductPattern: "(["}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigInvalid))
	require.Error(t, domain.LaunchConstraint{Product: "p"}.Validate())
}

func TestTask_DisplayName(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		Type: "get-portfolio-id",
		Params: domain.MustParameterSet(map[string]any{
			"account_id": "111",
			"region":     "eu-west-1",
			"portfolio":  "P",
		}),
	}

	assert.Equal(t, "get-portfolio-id 111:eu-west-1:P", task.DisplayName())
	assert.Equal(t, map[string]string{"account_id": "111", "region": "eu-west-1", "portfolio": "P"}, task.Correlation())
}

func TestInputs_Decode(t *testing.T) {
	t.Parallel()

	in := domain.Inputs{
		"portfolio": &domain.Artifact{Key: "k", Result: []byte(`{"Id":"port-1","DisplayName":"P"}`)},
	}

	var p domain.Portfolio
	require.NoError(t, in.Decode("portfolio", &p))
	assert.Equal(t, "port-1", p.ID)

	err := in.Decode("missing", &p)
	assert.ErrorContains(t, err, domain.ErrMissingInput.Error())
}
