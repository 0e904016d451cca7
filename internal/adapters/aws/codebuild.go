package aws

import (
	"context"
	"maps"
	"slices"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	"github.com/aws/aws-sdk-go-v2/service/codebuild/types"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

// CodeBuildAPI is the subset of the SDK client used by CodeBuild.
type CodeBuildAPI interface {
	StartBuild(ctx context.Context, in *codebuild.StartBuildInput, optFns ...func(*codebuild.Options)) (*codebuild.StartBuildOutput, error)
	BatchGetBuilds(ctx context.Context, in *codebuild.BatchGetBuildsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetBuildsOutput, error)
}

// CodeBuild implements ports.CodeBuild.
type CodeBuild struct {
	api CodeBuildAPI
}

// NewCodeBuild wraps an SDK client.
func NewCodeBuild(api CodeBuildAPI) *CodeBuild {
	return &CodeBuild{api: api}
}

// StartBuild starts a project build with plaintext environment overrides.
// Overrides are sent in name order.
func (c *CodeBuild) StartBuild(ctx context.Context, project string, env map[string]string) (string, error) {
	overrides := make([]types.EnvironmentVariable, 0, len(env))
	for _, name := range slices.Sorted(maps.Keys(env)) {
		overrides = append(overrides, types.EnvironmentVariable{
			Name:  awssdk.String(name),
			Value: awssdk.String(env[name]),
			Type:  types.EnvironmentVariableTypePlaintext,
		})
	}

	res, err := c.api.StartBuild(ctx, &codebuild.StartBuildInput{
		ProjectName:                  awssdk.String(project),
		EnvironmentVariablesOverride: overrides,
	})
	if err != nil {
		return "", classify(err, "codebuild.StartBuild", "project", project)
	}
	if res.Build == nil {
		return "", classify(errEmptyResponse, "codebuild.StartBuild", "project", project)
	}
	return awssdk.ToString(res.Build.Id), nil
}

// BatchGetBuild returns the current state of a build.
func (c *CodeBuild) BatchGetBuild(ctx context.Context, id string) (domain.Build, error) {
	res, err := c.api.BatchGetBuilds(ctx, &codebuild.BatchGetBuildsInput{Ids: []string{id}})
	if err != nil {
		return domain.Build{}, classify(err, "codebuild.BatchGetBuilds", "build", id)
	}
	if len(res.Builds) == 0 {
		return domain.Build{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "codebuild.BatchGetBuilds"), "build", id)
	}
	b := res.Builds[0]
	return domain.Build{
		ID:     awssdk.ToString(b.Id),
		Status: domain.BuildStatus(b.BuildStatus),
	}, nil
}
