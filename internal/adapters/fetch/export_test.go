package fetch

import (
	"net/http"

	"go.trai.ch/agentup/internal/core/ports"
)

// NewFetcherWithClient exposes newFetcherWithClient for tests.
func NewFetcherWithClient(logger ports.Logger, client *http.Client) *Fetcher {
	return newFetcherWithClient(logger, client)
}
