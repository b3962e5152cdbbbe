package service

import "go.trai.ch/agentup/internal/core/ports"

// ForOS exposes command-line backend selection for tests.
func ForOS(goos string, runner ports.CommandRunner, logger ports.Logger) ports.ServiceManager {
	return forOS(goos, runner, logger)
}
