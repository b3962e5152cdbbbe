//go:build linux

package service

import (
	"context"
	"errors"

	sddbus "github.com/coreos/go-systemd/v22/dbus"
	"github.com/godbus/dbus/v5"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

const noSuchUnit = "org.freedesktop.systemd1.NoSuchUnit"

// systemdConn is the subset of the systemd D-Bus API used here.
type systemdConn interface {
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]sddbus.UnitStatus, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	Close()
}

// Systemd talks to systemd over the system D-Bus. A connection is opened per call.
type Systemd struct {
	connect func(ctx context.Context) (systemdConn, error)
	logger  ports.Logger
}

// NewSystemd creates a systemd service manager on the system bus.
func NewSystemd(logger ports.Logger) *Systemd {
	return &Systemd{
		connect: func(ctx context.Context) (systemdConn, error) {
			return sddbus.NewSystemConnectionContext(ctx)
		},
		logger: logger,
	}
}

func unitName(name string) string {
	return name + ".service"
}

// Status maps the unit's load and active states.
func (s *Systemd) Status(ctx context.Context, name string) (domain.ServiceStatus, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return domain.ServiceUnknown, queryFailed(err, name)
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, []string{unitName(name)})
	if err != nil {
		return domain.ServiceUnknown, queryFailed(err, name)
	}
	if len(units) == 0 || units[0].LoadState == "not-found" {
		return domain.ServiceNotFound, nil
	}

	switch units[0].ActiveState {
	case "active", "activating", "reloading", "deactivating":
		return domain.ServiceRunning, nil
	case "inactive", "failed":
		return domain.ServiceStopped, nil
	default:
		return domain.ServiceUnknown, nil
	}
}

// Stop queues a stop job and waits for systemd to report its result.
func (s *Systemd) Stop(ctx context.Context, name string) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return stopFailed(err, name)
	}
	defer conn.Close()

	done := make(chan string, 1)
	if _, err := conn.StopUnitContext(ctx, unitName(name), "replace", done); err != nil {
		var dbusErr dbus.Error
		if errors.As(err, &dbusErr) && dbusErr.Name == noSuchUnit {
			s.logger.Debug("service unit not loaded, nothing to stop", "service", name)
			return nil
		}
		return stopFailed(err, name)
	}

	select {
	case <-ctx.Done():
		return stopFailed(ctx.Err(), name)
	case result := <-done:
		if result != "done" {
			return zerr.With(domain.With(domain.ErrServiceStopFailed, "service", name), "job_result", result)
		}
		return nil
	}
}
