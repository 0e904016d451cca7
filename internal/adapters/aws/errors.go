package aws

import (
	"errors"
	"strings"

	sctypes "github.com/aws/aws-sdk-go-v2/service/servicecatalog/types"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

// classify maps an SDK error onto the domain taxonomy.
// Only errors that mean "the named thing does not exist" become ErrNotFound.
func classify(err error, op string, kv ...string) error {
	if err == nil {
		return nil
	}

	sentinel := domain.ErrRemoteOperationFailed
	if isNotFound(err) {
		sentinel = domain.ErrNotFound
	}

	out := zerr.With(zerr.Wrap(sentinel, op), "detail", err.Error())
	for i := 0; i+1 < len(kv); i += 2 {
		out = zerr.With(out, kv[i], kv[i+1])
	}
	return out
}

func isNotFound(err error) bool {
	var rnf *sctypes.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}
	var pnf *ssmtypes.ParameterNotFound
	if errors.As(err, &pnf) {
		return true
	}
	return isStackMissing(err)
}

// isStackMissing reports the ValidationError CloudFormation returns for unknown stack names.
func isStackMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
}

// isNoUpdates reports the ValidationError CloudFormation returns when an update changes nothing.
func isNoUpdates(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "No updates are to be performed")
}

var errEmptyResponse = errors.New("empty response")
