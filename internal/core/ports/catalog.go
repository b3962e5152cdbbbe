package ports

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// Catalog resolves version requests against the published agent packages.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type Catalog interface {
	// Resolve maps a request to a concrete package for the platform.
	//
	// Exact requests fail with domain.ErrVersionNotFound when the catalog does not list
	// the version; latest and unspecified requests fail with domain.ErrCollectionEmpty
	// when the catalog lists nothing.
	Resolve(ctx context.Context, req domain.VersionRequest, platform domain.Platform) (domain.ResolvedVersion, error)

	// List returns every package of the collection for the platform, newest first.
	List(ctx context.Context, collection domain.Collection, platform domain.Platform) ([]domain.ResolvedVersion, error)
}
