package platform

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// Detector implements ports.PlatformDetector. A configured platform name takes
// precedence over gathered facts.
type Detector struct {
	override string
	gatherer *FactGatherer
}

// NewDetector creates a Detector.
func NewDetector(override string, gatherer *FactGatherer) *Detector {
	return &Detector{
		override: override,
		gatherer: gatherer,
	}
}

// Detect returns the platform of the host.
func (d *Detector) Detect(ctx context.Context) (domain.Platform, error) {
	if d.override != "" {
		facts, err := ParsePlatformString(d.override)
		if err != nil {
			return domain.Platform{}, err
		}
		if facts.Arch == "" {
			facts.Arch = d.gatherer.goarch
		}
		return Detect(facts)
	}

	facts, err := d.gatherer.GatherFacts(ctx)
	if err != nil {
		return domain.Platform{}, err
	}
	return Detect(facts)
}
