package reconciler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/agentup/internal/adapters/telemetry"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports/mocks"
	"go.trai.ch/agentup/internal/engine/reconciler"
	"go.uber.org/mock/gomock"
)

var (
	linux = domain.Platform{
		Family: domain.FamilyRPM, Distro: "el", Version: "8", Arch: "x86_64", Dialect: domain.DialectDnf,
	}
	windows = domain.Platform{
		Family: domain.FamilyWindows, Distro: "windows", Arch: "x64", Dialect: domain.DialectMSI,
	}
)

type fixture struct {
	catalog   *mocks.MockCatalog
	state     *mocks.MockStateReader
	factory   *mocks.MockInstallerFactory
	installer *mocks.MockInstaller
	services  *mocks.MockServiceManager
	logger    *mocks.MockLogger
	rec       *reconciler.Reconciler
	waits     []time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	settings := domain.DefaultSettings()
	settings.Install.StopChecks = 3
	settings.Install.StopInterval = time.Second

	f := &fixture{
		catalog:   mocks.NewMockCatalog(ctrl),
		state:     mocks.NewMockStateReader(ctrl),
		factory:   mocks.NewMockInstallerFactory(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		services:  mocks.NewMockServiceManager(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	f.rec = reconciler.New(f.catalog, f.state, f.factory, f.services, f.logger, telemetry.NewNoOpTracer(), settings)
	f.rec.SetWait(func(_ context.Context, d time.Duration) error {
		f.waits = append(f.waits, d)
		return nil
	})
	return f
}

// expectInstall expects one install of version on platform followed by a verifying read.
func (f *fixture) expectInstall(t *testing.T, platform domain.Platform, action domain.Action, version string) {
	t.Helper()
	f.factory.EXPECT().For(platform).Return(f.installer, nil)
	f.installer.EXPECT().Install(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d domain.Decision) error {
			assert.Equal(t, action, d.Action)
			assert.Equal(t, version, d.To.String())
			return nil
		})
}

func TestReconcile_InstallsWhenAbsent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet5", "")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), linux).Return(domain.NotInstalled("rpm"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "5.5.3", "puppet5"), nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil),
	)
	f.expectInstall(t, linux, domain.ActionInstall, "5.5.3")

	out, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionInstall, out.Decision.Action)
	assert.Equal(t, "Puppet Agent 5.5.3 installed.", out.Decision.Reason)
	assert.Equal(t, "5.5.3", domain.FormatVersion(out.Installed.Version))
	assert.False(t, out.ServiceStopped)
}

func TestReconcile_NoVersionWithAgentIsNoOp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil)

	out, err := f.rec.Reconcile(context.Background(), linux, request(t, "puppet6", ""), reconciler.Options{StopService: true})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNoOp, out.Decision.Action)
	assert.Equal(t, "Version parameter not defined and agent detected. Nothing to do.", out.Decision.Reason)
	assert.False(t, out.ServiceStopped)
}

func TestReconcile_ExactInstalledVersionSkipsCatalog(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil)

	out, err := f.rec.Reconcile(context.Background(), linux, request(t, "puppet5", "5.5.3"), reconciler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNoOp, out.Decision.Action)
	assert.Equal(t, "Puppet Agent 5.5.3 detected. Nothing to do.", out.Decision.Reason)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet5", "latest")
	resolved := resolvedAt(t, "5.5.4", "puppet5")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolved, nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.4"), nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.4"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolved, nil),
	)
	f.expectInstall(t, linux, domain.ActionUpgrade, "5.5.4")

	first, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUpgrade, first.Decision.Action)
	assert.Equal(t, "Puppet Agent upgraded from 5.5.3 to 5.5.4.", first.Decision.Reason)

	second, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNoOp, second.Decision.Action)
	assert.Equal(t, "Puppet Agent 5.5.4 detected. Nothing to do.", second.Decision.Reason)
}

func TestReconcile_MajorSkipRejectedBeforeInstall(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet7", "latest")

	f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil)
	f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "7.1.0", "puppet7"), nil)

	_, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.Error(t, err)
	assert.Equal(t, domain.KindMajorVersionSkip, domain.KindOf(err))
}

func TestReconcile_ResolveErrorPropagates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "6.99.0")

	f.state.EXPECT().Read(gomock.Any(), linux).Return(domain.NotInstalled("rpm"), nil)
	f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(domain.ResolvedVersion{}, domain.ErrVersionNotFound)

	_, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestReconcile_WindowsGateRejectsRunningService(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")

	f.state.EXPECT().Read(gomock.Any(), windows).Return(installedAt(t, "5.5.3"), nil)
	f.catalog.EXPECT().Resolve(gomock.Any(), req, windows).Return(resolvedAt(t, "6.0.0", "puppet6"), nil)
	f.services.EXPECT().Status(gomock.Any(), "puppet").Return(domain.ServiceStopped, nil)
	f.services.EXPECT().Status(gomock.Any(), "pxp-agent").Return(domain.ServiceRunning, nil)

	_, err := f.rec.Reconcile(context.Background(), windows, req, reconciler.Options{})
	require.Error(t, err)
	assert.True(t, domain.Matches(err, domain.ErrServiceRunning))
	assert.Equal(t, domain.KindServiceRunning, domain.KindOf(err))
	assert.Equal(t, "pxp-agent", domain.Details(err)["service"])
	assert.Contains(t, err.Error(), "Puppet services are still running")
}

func TestReconcile_WindowsGatePassesWhenStopped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), windows).Return(installedAt(t, "5.5.3"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, windows).Return(resolvedAt(t, "6.0.0", "puppet6"), nil),
		f.state.EXPECT().Read(gomock.Any(), windows).Return(installedAt(t, "6.0.0"), nil),
	)
	f.services.EXPECT().Status(gomock.Any(), "puppet").Return(domain.ServiceStopped, nil)
	f.services.EXPECT().Status(gomock.Any(), "pxp-agent").Return(domain.ServiceNotFound, nil)
	f.expectInstall(t, windows, domain.ActionUpgrade, "6.0.0")

	out, err := f.rec.Reconcile(context.Background(), windows, req, reconciler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUpgrade, out.Decision.Action)
}

func TestReconcile_WindowsGateSkippedForNoOp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.state.EXPECT().Read(gomock.Any(), windows).Return(installedAt(t, "6.0.0"), nil)

	out, err := f.rec.Reconcile(context.Background(), windows, request(t, "puppet6", "6.0.0"), reconciler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNoOp, out.Decision.Action)
}

func TestReconcile_LinuxIgnoresRunningServices(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "6.0.0"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "6.0.1", "puppet6"), nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "6.0.1"), nil),
	)
	f.expectInstall(t, linux, domain.ActionUpgrade, "6.0.1")

	_, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.NoError(t, err)
}

func TestReconcile_InstallErrorPropagates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")
	installErr := errors.New("dnf exploded")

	f.state.EXPECT().Read(gomock.Any(), linux).Return(domain.NotInstalled("rpm"), nil)
	f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "6.0.0", "puppet6"), nil)
	f.factory.EXPECT().For(linux).Return(f.installer, nil)
	f.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(installErr)

	_, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{StopService: true})
	require.ErrorIs(t, err, installErr)
}

func TestReconcile_VerificationFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "6.0.0", "puppet6"), nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "5.5.3"), nil),
	)
	f.expectInstall(t, linux, domain.ActionUpgrade, "6.0.0")

	_, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{})
	require.Error(t, err)
	assert.Equal(t, domain.KindVerificationFailed, domain.KindOf(err))
	details := domain.Details(err)
	assert.Equal(t, "6.0.0", details["expected"])
	assert.Equal(t, "5.5.3", details["actual"])
}

func TestReconcile_StopServiceAfterInstall(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), linux).Return(domain.NotInstalled("rpm"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "6.0.0", "puppet6"), nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "6.0.0"), nil),
		f.services.EXPECT().Stop(gomock.Any(), "puppet").Return(nil),
		f.services.EXPECT().Status(gomock.Any(), "puppet").Return(domain.ServiceRunning, nil),
		f.services.EXPECT().Status(gomock.Any(), "puppet").Return(domain.ServiceStopped, nil),
	)
	f.expectInstall(t, linux, domain.ActionInstall, "6.0.0")

	out, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{StopService: true})
	require.NoError(t, err)
	assert.True(t, out.ServiceStopped)
	assert.Equal(t, []time.Duration{time.Second}, f.waits)
}

func TestReconcile_StopServiceGivesUp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := request(t, "puppet6", "latest")

	gomock.InOrder(
		f.state.EXPECT().Read(gomock.Any(), linux).Return(domain.NotInstalled("rpm"), nil),
		f.catalog.EXPECT().Resolve(gomock.Any(), req, linux).Return(resolvedAt(t, "6.0.0", "puppet6"), nil),
		f.state.EXPECT().Read(gomock.Any(), linux).Return(installedAt(t, "6.0.0"), nil),
		f.services.EXPECT().Stop(gomock.Any(), "puppet").Return(nil),
	)
	f.services.EXPECT().Status(gomock.Any(), "puppet").Return(domain.ServiceRunning, nil).Times(3)
	f.expectInstall(t, linux, domain.ActionInstall, "6.0.0")

	_, err := f.rec.Reconcile(context.Background(), linux, req, reconciler.Options{StopService: true})
	require.Error(t, err)
	assert.Equal(t, domain.KindServiceStopFailed, domain.KindOf(err))
	details := domain.Details(err)
	assert.Equal(t, "puppet", details["service"])
	assert.Equal(t, 3, details["checks"])
	assert.Len(t, f.waits, 2)
}
