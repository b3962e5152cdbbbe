package service

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// LSB init script status exit codes for a stopped service.
const (
	lsbDeadPidFile  = 1
	lsbDeadLockFile = 2
	lsbNotRunning   = 3
)

// SysV drives services through the service(8) wrapper.
type SysV struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewSysV creates a SysV service manager.
func NewSysV(runner ports.CommandRunner, logger ports.Logger) *SysV {
	return &SysV{runner: runner, logger: logger}
}

// Status maps the init script's LSB exit code onto a service status.
func (s *SysV) Status(ctx context.Context, name string) (domain.ServiceStatus, error) {
	res, err := s.runner.Run(ctx, "service", name, "status")
	if err == nil {
		return domain.ServiceRunning, nil
	}
	if domain.Matches(err, domain.ErrCommandNotFound) {
		return domain.ServiceNotFound, nil
	}
	if !domain.Matches(err, domain.ErrCommandFailed) || ctx.Err() != nil {
		return domain.ServiceUnknown, queryFailed(err, name)
	}

	switch res.ExitCode {
	case lsbDeadPidFile, lsbDeadLockFile, lsbNotRunning:
		return domain.ServiceStopped, nil
	default:
		return domain.ServiceNotFound, nil
	}
}

// Stop stops the service.
func (s *SysV) Stop(ctx context.Context, name string) error {
	s.logger.Debug("stopping service", "service", name, "manager", "sysv")
	if _, err := s.runner.Run(ctx, "service", name, "stop"); err != nil {
		return stopFailed(err, name)
	}
	return nil
}
