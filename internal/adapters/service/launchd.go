package service

import (
	"context"
	"regexp"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

const launchDaemonDir = "/Library/LaunchDaemons"

var launchdPID = regexp.MustCompile(`"PID"\s*=\s*\d+;`)

// Launchd drives the agent's launch daemons through launchctl.
type Launchd struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewLaunchd creates a launchd service manager.
func NewLaunchd(runner ports.CommandRunner, logger ports.Logger) *Launchd {
	return &Launchd{runner: runner, logger: logger}
}

// label maps a service name onto the agent's launchd label.
func label(name string) string {
	return "com.puppetlabs." + name
}

// Status reports a loaded job with a PID as running.
func (l *Launchd) Status(ctx context.Context, name string) (domain.ServiceStatus, error) {
	res, err := l.runner.Run(ctx, "launchctl", "list", label(name))
	switch {
	case err == nil:
	case domain.Matches(err, domain.ErrCommandFailed) && ctx.Err() == nil:
		// launchctl list exits non-zero for jobs that are not loaded.
		return domain.ServiceStopped, nil
	default:
		return domain.ServiceUnknown, queryFailed(err, name)
	}

	if launchdPID.MatchString(res.Stdout) {
		return domain.ServiceRunning, nil
	}
	return domain.ServiceStopped, nil
}

// Stop unloads the job so launchd does not restart it.
func (l *Launchd) Stop(ctx context.Context, name string) error {
	plist := launchDaemonDir + "/" + label(name) + ".plist"
	l.logger.Debug("unloading launch daemon", "service", name, "plist", plist)
	if _, err := l.runner.Run(ctx, "launchctl", "unload", plist); err != nil {
		return stopFailed(err, name)
	}
	return nil
}
