//go:build windows

package service

import (
	"context"
	"errors"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

// SCM talks to the Windows service control manager.
type SCM struct {
	logger ports.Logger
}

// NewSCM creates a Windows service manager.
func NewSCM(logger ports.Logger) *SCM {
	return &SCM{logger: logger}
}

// Status queries the service state. Pending transitions count as running.
func (s *SCM) Status(_ context.Context, name string) (domain.ServiceStatus, error) {
	m, err := mgr.Connect()
	if err != nil {
		return domain.ServiceUnknown, queryFailed(err, name)
	}
	defer func() { _ = m.Disconnect() }()

	service, err := m.OpenService(name)
	if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
		return domain.ServiceNotFound, nil
	}
	if err != nil {
		return domain.ServiceUnknown, queryFailed(err, name)
	}
	defer func() { _ = service.Close() }()

	status, err := service.Query()
	if err != nil {
		return domain.ServiceUnknown, queryFailed(err, name)
	}
	if status.State == svc.Stopped {
		return domain.ServiceStopped, nil
	}
	return domain.ServiceRunning, nil
}

// Stop sends the stop control. Completion is observed through Status.
func (s *SCM) Stop(_ context.Context, name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return stopFailed(err, name)
	}
	defer func() { _ = m.Disconnect() }()

	service, err := m.OpenService(name)
	if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
		s.logger.Debug("service not installed, nothing to stop", "service", name)
		return nil
	}
	if err != nil {
		return stopFailed(err, name)
	}
	defer func() { _ = service.Close() }()

	if _, err := service.Control(svc.Stop); err != nil && !errors.Is(err, windows.ERROR_SERVICE_NOT_ACTIVE) {
		return stopFailed(err, name)
	}
	return nil
}
