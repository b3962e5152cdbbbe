package ports

import "context"

// Fetcher downloads package artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch stores the artifact named by uri in dir and returns its local path.
	Fetch(ctx context.Context, uri, dir string) (string, error)
}
