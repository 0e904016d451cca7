package workflow_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/testutil/fakecloud"
	"go.trai.ch/puppet/internal/workflow"
)

func ptr(s string) *string { return &s }

func deployAction(params map[string]domain.ActionParameter) domain.ActionRef {
	return domain.ActionRef{
		Name:  "deploy-vpc",
		Phase: "pre",
		Action: domain.Action{
			Type:        "codebuild",
			ProjectName: "deploy-vpc",
			AccountID:   spokeAccount,
			Region:      region,
			Source:      "vpc.zip",
			SourceType:  "S3",
			Parameters:  params,
		},
	}
}

func TestActionParams(t *testing.T) {
	t.Parallel()

	got := workflow.ActionParams(deployAction(map[string]domain.ActionParameter{
		"token": {SSMName: "/deploy/token"},
		"key":   {SSMName: "/deploy/key", SSMRegion: "us-east-1"},
		"env":   {Default: ptr("prod")},
	}), "eu-west-2")

	want := map[string]any{
		"type":         "codebuild",
		"name":         "deploy-vpc",
		"project_name": "deploy-vpc",
		"account_id":   spokeAccount,
		"region":       region,
		"phase":        "pre",
		"source":       "vpc.zip",
		"source_type":  "S3",
		"parameters": map[string]any{
			"token": map[string]any{"ssm": map[string]any{"name": "/deploy/token", "region": "eu-west-2"}},
			"key":   map[string]any{"ssm": map[string]any{"name": "/deploy/key", "region": "us-east-1"}},
			"env":   map[string]any{"default": "prod"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ActionParams mismatch (-want +got):\n%s", diff)
	}
}

func TestProvisionAction_Requirements(t *testing.T) {
	t.Parallel()

	task := workflow.ProvisionAction(domain.MustParameterSet(workflow.ActionParams(deployAction(map[string]domain.ActionParameter{
		"token": {SSMName: "/deploy/token"},
		"both":  {SSMName: "/deploy/other", Default: ptr("x")},
		"env":   {Default: ptr("prod")},
	}), region)))

	require.Len(t, task.Requires, 1)
	assert.Equal(t, "ssm/token", task.Requires[0].Name)
	assert.Equal(t, workflow.GetSSMParam("/deploy/token", region).Key(), task.Requires[0].Task.Key())
}

func TestGetSSMParam(t *testing.T) {
	t.Parallel()

	cloud := fakecloud.New(hubAccount)
	cloud.SetParameter(hubAccount, "us-east-1", "/deploy/token", "s3cr3t")
	d, _ := newDispatcher(t, cloud)

	out, err := d.Execute(context.Background(), workflow.GetSSMParam("/deploy/token", "us-east-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, workflow.SSMParam{Name: "/deploy/token", Region: "us-east-1", Value: "s3cr3t"}, decode[workflow.SSMParam](t, out))

	_, err = d.Execute(context.Background(), workflow.GetSSMParam("/deploy/missing", "us-east-1"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvisionAction_RunsBuild(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		cloud := fakecloud.New(hubAccount)
		cloud.BuildPolls = 2
		d, _ := newDispatcher(t, cloud)

		params := workflow.ActionParams(deployAction(map[string]domain.ActionParameter{
			"token": {SSMName: "/deploy/token"},
			"env":   {Default: ptr("prod")},
		}), region)
		task := workflow.ProvisionAction(domain.MustParameterSet(params))

		start := time.Now()
		out, err := d.Execute(context.Background(), task, domain.Inputs{
			"ssm/token": artifact(t, workflow.SSMParam{Name: "/deploy/token", Region: region, Value: "s3cr3t"}),
		})
		require.NoError(t, err)

		assert.Equal(t, 30*time.Second, time.Since(start))
		assert.Equal(t, []map[string]string{{"token": "s3cr3t", "env": "prod"}}, cloud.BuildEnvironments("deploy-vpc"))
		sessions := cloud.Sessions()
		require.Len(t, sessions, 1)
		assert.Equal(t, "sc-"+region+"-"+spokeAccount, sessions[0].SessionName)
		assert.Equal(t, domain.PuppetRoleARN(spokeAccount), sessions[0].RoleARN)
		assert.Equal(t, "deploy-vpc", decode[map[string]any](t, out)["name"])
	})
}

func TestProvisionAction_BuildFailure(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		cloud := fakecloud.New(hubAccount)
		cloud.SetBuildOutcome("deploy-vpc", "FAILED")
		d, _ := newDispatcher(t, cloud)

		task := workflow.ProvisionAction(domain.MustParameterSet(workflow.ActionParams(deployAction(nil), region)))
		_, err := d.Execute(context.Background(), task, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRemoteOperationFailed)
	})
}

func TestProvisionAction_RejectsAmbiguousParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		param map[string]any
	}{
		{
			name:  "both ssm and default",
			param: map[string]any{"ssm": map[string]any{"name": "/x", "region": region}, "default": "y"},
		},
		{
			name:  "neither",
			param: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cloud := fakecloud.New(hubAccount)
			d, _ := newDispatcher(t, cloud)

			params := workflow.ActionParams(deployAction(nil), region)
			params["parameters"] = map[string]any{"p": tt.param}
			task := workflow.ProvisionAction(domain.MustParameterSet(params))

			_, err := d.Execute(context.Background(), task, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrPreconditionViolated)
			assert.Empty(t, cloud.Sessions())
			assert.Zero(t, cloud.MutatingCalls())
		})
	}
}
