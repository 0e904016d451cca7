package workflow_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/testutil/fakecloud"
	"go.trai.ch/puppet/internal/workflow"
)

func TestDispatcher_UnknownType(t *testing.T) {
	t.Parallel()

	d, _ := newDispatcher(t, fakecloud.New(hubAccount))
	_, err := d.Execute(context.Background(), &domain.Task{Type: "launch"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownTaskType)
}

func TestDispatcher_Types(t *testing.T) {
	t.Parallel()

	d, _ := newDispatcher(t, fakecloud.New(hubAccount))
	types := d.Types()

	assert.Len(t, types, 14)
	assert.Contains(t, types, workflow.TypeImportIntoSpokeLocalPortfolio)
	assert.Contains(t, types, workflow.TypeSyncVersionActivation)
	assert.Contains(t, types, workflow.TypeCreateShareForAccountLaunchRegion)
	assert.True(t, slices.IsSorted(types))
}
