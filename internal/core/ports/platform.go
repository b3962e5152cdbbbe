package ports

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// PlatformDetector derives the platform of the local host.
//
//go:generate go run go.uber.org/mock/mockgen -source=platform.go -destination=mocks/mock_platform.go -package=mocks
type PlatformDetector interface {
	// Detect returns the host platform. It fails with domain.ErrUnsupportedPlatform
	// when the host has no package-manager mapping.
	Detect(ctx context.Context) (domain.Platform, error)
}
