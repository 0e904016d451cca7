package aws_test

import (
	"sync"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/adapters/aws"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
)

func TestFactory_CachesClientsPerSession(t *testing.T) {
	t.Parallel()

	f := aws.NewFactoryFromConfig(awssdk.Config{Region: "eu-west-1"})

	a, err := f.AssumeRole(t.Context(), domain.PuppetSession("111", "eu-west-1", "sc"))
	require.NoError(t, err)
	b, err := f.AssumeRole(t.Context(), domain.PuppetSession("111", "eu-west-1", "sc"))
	require.NoError(t, err)
	c, err := f.AssumeRole(t.Context(), domain.PuppetSession("111", "us-east-1", "sc"))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	local, err := f.Local(t.Context(), "eu-west-1")
	require.NoError(t, err)
	assert.NotSame(t, a, local)
	assert.NotNil(t, local.ServiceCatalog())
	assert.NotNil(t, local.CloudFormation())
	assert.NotNil(t, local.CodeBuild())
	assert.NotNil(t, local.ParameterStore())
}

func TestFactory_ConcurrentCallersShareClient(t *testing.T) {
	t.Parallel()

	f := aws.NewFactoryFromConfig(awssdk.Config{})

	clients := make([]ports.ScopedClient, 8)
	var wg sync.WaitGroup
	for i := range clients {
		wg.Go(func() {
			c, err := f.Local(t.Context(), "eu-west-1")
			assert.NoError(t, err)
			clients[i] = c
		})
	}
	wg.Wait()

	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}
}
