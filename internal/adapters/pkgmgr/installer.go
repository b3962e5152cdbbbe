// Package pkgmgr installs the agent package with the platform's package manager.
package pkgmgr

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxOutputTail bounds the command output attached to an install error.
const maxOutputTail = 2048

// Factory implements ports.InstallerFactory.
type Factory struct {
	pkg      string
	stateDir string
	settings domain.InstallSettings
	runner   ports.CommandRunner
	fetcher  ports.Fetcher
	logger   ports.Logger
	wait     func(ctx context.Context, d time.Duration) error
}

// NewFactory creates a Factory.
func NewFactory(settings domain.Settings, runner ports.CommandRunner, fetcher ports.Fetcher, logger ports.Logger) *Factory {
	return &Factory{
		pkg:      settings.Package,
		stateDir: settings.StateDir,
		settings: settings.Install,
		runner:   runner,
		fetcher:  fetcher,
		logger:   logger,
		wait:     sleep,
	}
}

// For returns the installer for the platform's dialect.
func (f *Factory) For(platform domain.Platform) (ports.Installer, error) {
	d, ok := dialects[platform.Dialect]
	if !ok {
		unsupported := domain.With(domain.ErrUnsupportedPlatform, "dialect", string(platform.Dialect))
		return nil, zerr.With(unsupported, "platform", platform.Key())
	}
	return &installer{
		dialect:  d,
		pkg:      f.pkg,
		dir:      domain.DownloadPath(f.stateDir),
		settings: f.settings,
		runner:   f.runner,
		fetcher:  f.fetcher,
		logger:   f.logger,
		wait:     f.wait,
	}, nil
}

type installer struct {
	dialect  dialect
	pkg      string
	dir      string
	settings domain.InstallSettings
	runner   ports.CommandRunner
	fetcher  ports.Fetcher
	logger   ports.Logger
	wait     func(ctx context.Context, d time.Duration) error
}

// Install downloads the target artifact and runs the dialect's install steps.
func (i *installer) Install(ctx context.Context, decision domain.Decision) error {
	if decision.To == nil {
		return zerr.Wrap(domain.ErrInstallFailed, "decision has no target version")
	}

	artifact, err := i.fetcher.Fetch(ctx, decision.To.SourceURI, i.dir)
	if err != nil {
		return err
	}

	steps, cleanup, err := i.dialect.plan(ctx, i, artifact, decision)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, s := range steps {
		if err := i.runWithLockRetry(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// runWithLockRetry retries a step while the package-manager lock is held,
// backing off exponentially up to the configured bound.
func (i *installer) runWithLockRetry(ctx context.Context, s step) error {
	for attempt := 0; ; attempt++ {
		res, err := i.runner.Run(ctx, s.name, s.args...)
		if err == nil {
			return nil
		}
		if i.dialect.succeeded(res.ExitCode) {
			i.logger.Warn("package manager requests a reboot", "command", s.name, "exit_code", res.ExitCode)
			return nil
		}
		if !domain.Matches(err, domain.ErrCommandFailed) || !i.dialect.locked(res) {
			failed := zerr.With(domain.Wrap(err, domain.ErrInstallFailed), "dialect", string(i.dialect.name))
			return zerr.With(failed, "output", tail(res.Output()))
		}

		if attempt >= i.settings.LockRetries {
			locked := zerr.With(domain.Wrap(domain.ErrPackageManagerLocked, domain.ErrInstallFailed), "attempts", attempt+1)
			return zerr.With(locked, "command", s.name)
		}

		delay := backoff(i.settings.LockBackoff, i.settings.LockBackoffMax, attempt)
		i.logger.Warn("package manager is locked, retrying", "command", s.name, "attempt", attempt+1, "delay", delay.String())
		if err := i.wait(ctx, delay); err != nil {
			return domain.Wrap(err, domain.ErrInstallFailed)
		}
	}
}

// backoff returns base*2^attempt capped at limit.
func backoff(base, limit time.Duration, attempt int) time.Duration {
	d := base
	for range attempt {
		d *= 2
		if limit > 0 && d >= limit {
			return limit
		}
	}
	if limit > 0 && d > limit {
		return limit
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxOutputTail {
		return s
	}
	return "..." + s[len(s)-maxOutputTail:]
}
