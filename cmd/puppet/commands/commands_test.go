package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/cmd/puppet/commands"
	"go.trai.ch/puppet/internal/app"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T) (*commands.CLI, *mocks.MockConfigLoader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().With(gomock.Any()).Return(log).AnyTimes()

	dir := t.TempDir()
	a := app.New(loader, mocks.NewMockExecutor(ctrl), mocks.NewMockArtifactStore(ctrl), log).
		WithPaths(dir+"/output", dir+"/data")
	return commands.New(a), loader
}

func TestDeploy_PassesManifestPath(t *testing.T) {
	t.Parallel()

	cli, loader := newCLI(t)
	loader.EXPECT().Load("hub/manifest.yaml").Return(nil, zerr.Wrap(domain.ErrConfigInvalid, "settings.home_region is required"))

	cli.SetArgs([]string{"deploy", "hub/manifest.yaml", "--workers", "4", "--single-account", "222222222222"})
	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestDeploy_RequiresOneArgument(t *testing.T) {
	t.Parallel()

	cli, _ := newCLI(t)
	cli.SetArgs([]string{"deploy"})
	require.Error(t, cli.Execute(context.Background()))
}

func TestGenerateShares_EmptyPlan(t *testing.T) {
	t.Parallel()

	cli, loader := newCLI(t)
	loader.EXPECT().Load("manifest.yaml").Return(&domain.Manifest{
		Settings: domain.Settings{PuppetAccountID: "111111111111", HomeRegion: "eu-west-1"},
	}, nil)

	cli.SetArgs([]string{"generate-shares", "manifest.yaml", "-o", "quiet"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestGenerateShares_RejectsSingleAccount(t *testing.T) {
	t.Parallel()

	cli, _ := newCLI(t)
	cli.SetArgs([]string{"generate-shares", "manifest.yaml", "--single-account", "1"})
	assert.ErrorContains(t, cli.Execute(context.Background()), "unknown flag")
}

func TestClean(t *testing.T) {
	t.Parallel()

	cli, _ := newCLI(t)
	cli.SetArgs([]string{"clean"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	cli, _ := newCLI(t)
	var out bytes.Buffer
	cli.SetOutput(&out)
	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "puppet version dev\n", out.String())
}
