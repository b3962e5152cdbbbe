package ports

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// Installer performs the package action of a decision with one package-manager dialect.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install brings the package to decision.To. Lock contention is retried
	// internally; anything else surfaces as domain.ErrInstallFailed.
	Install(ctx context.Context, decision domain.Decision) error
}

// InstallerFactory selects the installer for a platform.
type InstallerFactory interface {
	// For returns the installer for the platform's dialect.
	For(platform domain.Platform) (Installer, error)
}
