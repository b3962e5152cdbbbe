package ports

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// StateReader reads the installed agent package state from the host.
//
//go:generate go run go.uber.org/mock/mockgen -source=state_reader.go -destination=mocks/mock_state_reader.go -package=mocks
type StateReader interface {
	// Read returns the installed state. A host without the package is not an error.
	Read(ctx context.Context, platform domain.Platform) (domain.InstalledState, error)
}
