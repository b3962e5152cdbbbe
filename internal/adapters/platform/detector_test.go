package platform_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/agentup/internal/adapters/platform"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/agentup/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const ubuntuRelease = `NAME="Ubuntu"
VERSION="20.04.6 LTS (Focal Fossa)"
# comment
ID=ubuntu
ID_LIKE=debian
VERSION_ID="20.04"
`

func readFixed(content string) func(string) ([]byte, error) {
	return func(string) ([]byte, error) { return []byte(content), nil }
}

func TestGatherFacts_Linux(t *testing.T) {
	g := platform.NewTestGatherer("linux", "amd64", nil, readFixed(ubuntuRelease))

	facts, err := g.GatherFacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Facts{OSName: "ubuntu", OSVersion: "20.04", Arch: "amd64"}, facts)
}

func TestGatherFacts_LinuxMissingRelease(t *testing.T) {
	g := platform.NewTestGatherer("linux", "amd64", nil, func(string) ([]byte, error) {
		return nil, os.ErrNotExist
	})

	_, err := g.GatherFacts(context.Background())
	require.Error(t, err)
	assert.True(t, domain.Matches(err, domain.ErrUnsupportedPlatform))
}

func TestGatherFacts_Darwin(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "sw_vers", "-productVersion").
		Return(ports.CommandResult{Stdout: "10.15.7\n"}, nil)

	g := platform.NewTestGatherer("darwin", "amd64", runner, nil)

	facts, err := g.GatherFacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Facts{OSName: "osx", OSVersion: "10.15.7", Arch: "amd64"}, facts)
}

func TestGatherFacts_Solaris(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "uname", "-r").
		Return(ports.CommandResult{Stdout: "5.11\n"}, nil)

	g := platform.NewTestGatherer("solaris", "amd64", runner, nil)

	facts, err := g.GatherFacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "solaris", facts.OSName)
	assert.Equal(t, "5.11", facts.OSVersion)
}

func TestGatherFacts_RunnerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "sw_vers", "-productVersion").
		Return(ports.CommandResult{ExitCode: -1}, errors.New("boom"))

	g := platform.NewTestGatherer("darwin", "arm64", runner, nil)

	_, err := g.GatherFacts(context.Background())
	require.Error(t, err)
	assert.True(t, domain.Matches(err, domain.ErrUnsupportedPlatform))
}

func TestGatherFacts_UnknownOS(t *testing.T) {
	g := platform.NewTestGatherer("plan9", "amd64", nil, nil)

	_, err := g.GatherFacts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "plan9", domain.Details(err)["os"])
}

func TestDetector_OverrideWins(t *testing.T) {
	g := platform.NewTestGatherer("linux", "arm64", nil, func(string) ([]byte, error) {
		t.Fatal("facts must not be gathered when a platform is configured")
		return nil, nil
	})
	d := platform.NewDetector("fedora-30", g)

	p, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fedora-30-aarch64", p.Key())
	assert.Equal(t, domain.DialectDnf, p.Dialect)
}

func TestDetector_GatheredFacts(t *testing.T) {
	g := platform.NewTestGatherer("linux", "amd64", nil, readFixed(ubuntuRelease))
	d := platform.NewDetector("", g)

	p, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ubuntu-20.04-amd64", p.Key())
}
