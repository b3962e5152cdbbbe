package platform

import (
	"go.trai.ch/agentup/internal/core/ports"
)

// NewTestGatherer builds a gatherer for a fixed host.
func NewTestGatherer(goos, goarch string, runner ports.CommandRunner, readFile func(string) ([]byte, error)) *FactGatherer {
	return &FactGatherer{
		goos:     goos,
		goarch:   goarch,
		runner:   runner,
		readFile: readFile,
	}
}
