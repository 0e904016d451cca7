package aws

import (
	"errors"
	"testing"

	sctypes "github.com/aws/aws-sdk-go-v2/service/servicecatalog/types"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "resource not found", err: &sctypes.ResourceNotFoundException{}, want: domain.ErrNotFound},
		{name: "parameter not found", err: &ssmtypes.ParameterNotFound{}, want: domain.ErrNotFound},
		{
			name: "stack missing",
			err:  &smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id x does not exist"},
			want: domain.ErrNotFound,
		},
		{
			name: "other validation error",
			err:  &smithy.GenericAPIError{Code: "ValidationError", Message: "Template format error"},
			want: domain.ErrRemoteOperationFailed,
		},
		{name: "throttled", err: &smithy.GenericAPIError{Code: "Throttling"}, want: domain.ErrRemoteOperationFailed},
		{name: "plain", err: errors.New("boom"), want: domain.ErrRemoteOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := classify(tt.err, "op", "portfolio_id", "port-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error, got %T", err)
			assert.Equal(t, "port-1", zErr.Metadata()["portfolio_id"])
			assert.Equal(t, tt.err.Error(), zErr.Metadata()["detail"])
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classify(nil, "op"))
}

func TestIsNoUpdates(t *testing.T) {
	t.Parallel()

	assert.True(t, isNoUpdates(&smithy.GenericAPIError{Code: "ValidationError", Message: "No updates are to be performed."}))
	assert.False(t, isNoUpdates(&smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id x does not exist"}))
	assert.False(t, isNoUpdates(nil))
}
