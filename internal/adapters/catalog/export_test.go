package catalog

import (
	"net/http"
	"time"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// NewWithClient exposes newCatalogWithClient for tests.
func NewWithClient(settings domain.Settings, logger ports.Logger, client *http.Client) *Catalog {
	return newCatalogWithClient(settings, logger, client)
}

// SetClock replaces the clock used for cache freshness.
func (c *Catalog) SetClock(now func() time.Time) {
	c.now = now
}

// CachePath exposes the cache file location of a source URL.
func (c *Catalog) CachePath(source string) string {
	return c.getCachePath(source)
}
