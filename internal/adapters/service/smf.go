package service

import (
	"context"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// SMF drives Solaris services through svcs and svcadm.
type SMF struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewSMF creates an SMF service manager.
func NewSMF(runner ports.CommandRunner, logger ports.Logger) *SMF {
	return &SMF{runner: runner, logger: logger}
}

func fmri(name string) string {
	return "svc:/network/" + name + ":default"
}

// Status maps the SMF state of the service instance.
func (s *SMF) Status(ctx context.Context, name string) (domain.ServiceStatus, error) {
	res, err := s.runner.Run(ctx, "svcs", "-H", "-o", "state", fmri(name))
	switch {
	case err == nil:
	case domain.Matches(err, domain.ErrCommandFailed) && ctx.Err() == nil:
		// svcs fails when the pattern matches no instance.
		return domain.ServiceNotFound, nil
	default:
		return domain.ServiceUnknown, queryFailed(err, name)
	}

	switch strings.TrimSpace(res.Stdout) {
	case "online", "degraded", "offline*", "online*":
		return domain.ServiceRunning, nil
	case "disabled", "offline", "maintenance", "uninitialized":
		return domain.ServiceStopped, nil
	default:
		return domain.ServiceUnknown, nil
	}
}

// Stop disables the instance and waits for it to go down.
func (s *SMF) Stop(ctx context.Context, name string) error {
	s.logger.Debug("disabling service", "service", name, "fmri", fmri(name))
	if _, err := s.runner.Run(ctx, "svcadm", "disable", "-s", fmri(name)); err != nil {
		return stopFailed(err, name)
	}
	return nil
}
