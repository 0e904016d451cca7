package workflow_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/adapters/template"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/puppet/internal/core/ports/mocks"
	"go.trai.ch/puppet/internal/testutil/fakecloud"
	"go.trai.ch/puppet/internal/workflow"
	"go.uber.org/mock/gomock"
)

const (
	hubAccount   = "111111111111"
	spokeAccount = "222222222222"
	region       = "eu-west-1"
)

// quietLogger returns a logger mock accepting every call.
func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	l := mocks.NewMockLogger(gomock.NewController(t))
	l.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Error(gomock.Any()).AnyTimes()
	l.EXPECT().With(gomock.Any()).Return(l).AnyTimes()
	return l
}

func newDispatcher(t *testing.T, clients ports.ClientFactory) (*workflow.Dispatcher, string) {
	t.Helper()
	dataDir := t.TempDir()
	return workflow.NewDispatcher(clients, template.New(), quietLogger(t), dataDir), dataDir
}

// artifact wraps a result the way the scheduler hands it to dependents.
func artifact(t *testing.T, v any) *domain.Artifact {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return &domain.Artifact{Key: "test/0000000000000000", Result: data}
}

// decode round-trips an outcome result through JSON as the store would.
func decode[T any](t *testing.T, outcome domain.Outcome) T {
	t.Helper()
	data, err := json.Marshal(outcome.Result)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// faultySearch fails named product searches in assumed role clients.
type faultySearch struct {
	*fakecloud.Cloud
	err error
}

func (f faultySearch) AssumeRole(ctx context.Context, session domain.RoleSession) (ports.ScopedClient, error) {
	c, err := f.Cloud.AssumeRole(ctx, session)
	if err != nil {
		return nil, err
	}
	return faultyClient{ScopedClient: c, err: f.err}, nil
}

type faultyClient struct {
	ports.ScopedClient
	err error
}

func (c faultyClient) ServiceCatalog() ports.ServiceCatalog {
	return faultyCatalog{ServiceCatalog: c.ScopedClient.ServiceCatalog(), err: c.err}
}

type faultyCatalog struct {
	ports.ServiceCatalog
	err error
}

func (c faultyCatalog) SearchProductsAsAdmin(ctx context.Context, portfolioID, fullTextSearch string) ([]domain.Product, error) {
	if fullTextSearch != "" {
		return nil, c.err
	}
	return c.ServiceCatalog.SearchProductsAsAdmin(ctx, portfolioID, fullTextSearch)
}
