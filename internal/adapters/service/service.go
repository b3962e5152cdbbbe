// Package service queries and stops the agent's system services.
package service

import (
	"runtime"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// New selects the service manager of the running host. Native backends
// (systemd over D-Bus, the Windows service control manager) are preferred;
// other hosts are driven through their command-line tools.
func New(runner ports.CommandRunner, logger ports.Logger) ports.ServiceManager {
	if native, ok := newNative(logger); ok {
		return native
	}
	return forOS(runtime.GOOS, runner, logger)
}

func forOS(goos string, runner ports.CommandRunner, logger ports.Logger) ports.ServiceManager {
	switch goos {
	case "darwin":
		return NewLaunchd(runner, logger)
	case "solaris", "illumos":
		return NewSMF(runner, logger)
	default:
		return NewSysV(runner, logger)
	}
}

func queryFailed(err error, name string) error {
	return zerr.With(domain.Wrap(err, domain.ErrServiceQueryFailed), "service", name)
}

func stopFailed(err error, name string) error {
	return zerr.With(domain.Wrap(err, domain.ErrServiceStopFailed), "service", name)
}
