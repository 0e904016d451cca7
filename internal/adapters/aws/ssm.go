package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterStoreAPI is the subset of the SDK client used by ParameterStore.
type ParameterStoreAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore implements ports.ParameterStore.
type ParameterStore struct {
	api ParameterStoreAPI
}

// NewParameterStore wraps an SDK client.
func NewParameterStore(api ParameterStoreAPI) *ParameterStore {
	return &ParameterStore{api: api}
}

// GetParameter returns the decrypted value of a parameter, or domain.ErrNotFound.
func (p *ParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	res, err := p.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           awssdk.String(name),
		WithDecryption: awssdk.Bool(true),
	})
	if err != nil {
		return "", classify(err, "ssm.GetParameter", "parameter", name)
	}
	if res.Parameter == nil {
		return "", classify(errEmptyResponse, "ssm.GetParameter", "parameter", name)
	}
	return awssdk.ToString(res.Parameter.Value), nil
}
