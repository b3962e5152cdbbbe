package domain

import "github.com/Masterminds/semver/v3"

// InstalledState is the agent package state as observed on the host.
type InstalledState struct {
	// Present reports whether the package is installed at all.
	Present bool
	// Version is nil when the package is present but its version cannot be determined.
	Version *semver.Version
	// Source names where the state was read from: a VERSION file path or a query tool.
	Source string
}

// Degraded reports whether the package is installed but its version is unknown.
func (s InstalledState) Degraded() bool {
	return s.Present && s.Version == nil
}

// NotInstalled is the state of a host without the agent package.
func NotInstalled(source string) InstalledState {
	return InstalledState{Source: source}
}

// ServiceStatus is the run state of a system service.
type ServiceStatus int

const (
	// ServiceUnknown means the service manager gave no usable answer.
	ServiceUnknown ServiceStatus = iota
	// ServiceRunning means the service is active.
	ServiceRunning
	// ServiceStopped means the service exists and is not active.
	ServiceStopped
	// ServiceNotFound means the service is not registered with the service manager.
	ServiceNotFound
)

// String returns the status name.
func (s ServiceStatus) String() string {
	switch s {
	case ServiceRunning:
		return "running"
	case ServiceStopped:
		return "stopped"
	case ServiceNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Blocking reports whether a service in this state prevents an in-place upgrade.
func (s ServiceStatus) Blocking() bool {
	return s == ServiceRunning
}
