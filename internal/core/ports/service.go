package ports

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// ServiceManager queries and stops system services.
//
//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks
type ServiceManager interface {
	// Status reports the run state of the named service.
	Status(ctx context.Context, name string) (domain.ServiceStatus, error)
	// Stop asks the service manager to stop the named service. It does not wait
	// for the service to reach the stopped state.
	Stop(ctx context.Context, name string) error
}
