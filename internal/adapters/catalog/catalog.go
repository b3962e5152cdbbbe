// Package catalog resolves version requests against published package catalogs.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Catalog implements ports.Catalog over http(s), file:// and directory bases.
type Catalog struct {
	stableURL  string
	nightlyURL string
	cacheDir   string
	ttl        time.Duration
	httpClient *http.Client
	logger     ports.Logger
	now        func() time.Time
	group      singleflight.Group
}

// New creates a Catalog from settings.
func New(settings domain.Settings, logger ports.Logger) *Catalog {
	return newCatalogWithClient(settings, logger, &http.Client{Timeout: settings.Catalog.Timeout})
}

// newCatalogWithClient creates a Catalog with a custom http client (used for testing).
func newCatalogWithClient(settings domain.Settings, logger ports.Logger, client *http.Client) *Catalog {
	return &Catalog{
		stableURL:  settings.CatalogURL(domain.TrackStable),
		nightlyURL: settings.CatalogURL(domain.TrackNightly),
		cacheDir:   filepath.Clean(domain.CatalogCachePath(settings.StateDir)),
		ttl:        settings.Catalog.CacheTTL,
		httpClient: client,
		logger:     logger,
		now:        time.Now,
	}
}

// Resolve maps a request to a concrete package for the platform.
func (c *Catalog) Resolve(
	ctx context.Context,
	req domain.VersionRequest,
	platform domain.Platform,
) (domain.ResolvedVersion, error) {
	available, err := c.List(ctx, req.Collection, platform)
	if err != nil {
		return domain.ResolvedVersion{}, err
	}

	if req.Kind != domain.RequestExact {
		if len(available) == 0 {
			emptyErr := domain.With(domain.ErrCollectionEmpty, "collection", req.Collection.String())
			return domain.ResolvedVersion{}, zerr.With(emptyErr, "platform", platform.Key())
		}
		return available[0], nil
	}

	// Newest first, so a nightly build list yields the latest build of the release.
	for _, candidate := range available {
		if candidate.Version.Compare(req.Exact) == 0 {
			return candidate, nil
		}
	}

	notFound := domain.With(domain.ErrVersionNotFound, "version", domain.FormatVersion(req.Exact))
	notFound = zerr.With(notFound, "collection", req.Collection.String())
	return domain.ResolvedVersion{}, zerr.With(notFound, "platform", platform.Key())
}

// List returns every package of the collection for the platform, newest first.
func (c *Catalog) List(
	ctx context.Context,
	collection domain.Collection,
	platform domain.Platform,
) ([]domain.ResolvedVersion, error) {
	if collection.IsZero() {
		return nil, domain.ErrUnknownCollection
	}

	source := c.indexURL(collection, platform)
	v, err, _ := c.group.Do(source, func() (any, error) {
		return c.loadIndex(ctx, source)
	})
	if err != nil {
		return nil, err
	}

	idx, ok := v.(index)
	if !ok {
		return nil, domain.With(domain.ErrCatalogParseFailed, "url", source)
	}
	return idx.versions(collection, source, c.logger), nil
}

// indexURL selects the base by track, never by name.
func (c *Catalog) indexURL(collection domain.Collection, platform domain.Platform) string {
	base := c.stableURL
	if collection.Track() == domain.TrackNightly {
		base = c.nightlyURL
	}
	name := collection.String() + "/" + platform.Key() + ".json"

	if isRemote(base) || strings.HasPrefix(base, "file://") {
		return strings.TrimRight(base, "/") + "/" + name
	}
	return filepath.Join(base, filepath.FromSlash(name))
}

func (c *Catalog) loadIndex(ctx context.Context, source string) (index, error) {
	if !isRemote(source) {
		return c.readLocal(source)
	}

	cachePath := c.getCachePath(source)
	cached, cacheErr := c.loadFromCache(cachePath)
	if cacheErr == nil && c.now().Sub(cached.FetchedAt) < c.ttl {
		c.logger.Debug("catalog cache hit", "url", source)
		return cached.Index, nil
	}

	idx, err := c.fetchWithRetry(ctx, source)
	if err != nil {
		if cacheErr == nil && ctx.Err() == nil {
			c.logger.Warn("catalog unreachable, using stale cache", "url", source, "fetched_at", cached.FetchedAt.Format(time.RFC3339))
			return cached.Index, nil
		}
		return index{}, err
	}

	if err := c.saveToCache(cachePath, source, idx); err != nil {
		c.logger.Warn("failed to cache catalog index", "url", source, "error", err.Error())
	}
	return idx, nil
}

func (c *Catalog) readLocal(source string) (index, error) {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme == "file" {
		p = filepath.FromSlash(u.Path)
	}

	data, err := os.ReadFile(filepath.Clean(p))
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("catalog index not found", "path", p)
		return index{}, nil
	}
	if err != nil {
		return index{}, zerr.With(domain.Wrap(err, domain.ErrCatalogFetchFailed), "url", source)
	}
	return parseIndex(data, source)
}

// retryable marks fetch failures worth a second attempt.
type retryable struct {
	err error
}

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

func (c *Catalog) fetchWithRetry(ctx context.Context, source string) (index, error) {
	idx, err := c.fetch(ctx, source)
	var again retryable
	if err == nil || !errors.As(err, &again) || ctx.Err() != nil {
		return idx, unwrapRetryable(err)
	}

	c.logger.Debug("retrying catalog fetch", "url", source, "error", err.Error())
	idx, err = c.fetch(ctx, source)
	return idx, unwrapRetryable(err)
}

func unwrapRetryable(err error) error {
	var r retryable
	if errors.As(err, &r) {
		return r.err
	}
	return err
}

// fetch queries the catalog over HTTP. A 404 yields an empty index.
func (c *Catalog) fetch(ctx context.Context, source string) (index, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return index{}, zerr.With(domain.Wrap(err, domain.ErrCatalogFetchFailed), "url", source)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return index{}, retryable{zerr.With(domain.Wrap(err, domain.ErrCatalogFetchFailed), "url", source)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return index{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := domain.With(domain.ErrCatalogFetchFailed, "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "url", source)
		if resp.StatusCode >= http.StatusInternalServerError {
			return index{}, retryable{apiErr}
		}
		return index{}, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return index{}, retryable{zerr.With(domain.Wrap(err, domain.ErrCatalogFetchFailed), "url", source)}
	}
	return parseIndex(body, source)
}

// getCachePath returns the file path for the cache entry of a source URL.
func (c *Catalog) getCachePath(source string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%016x.json", xxhash.Sum64String(source)))
}

func (c *Catalog) loadFromCache(path string) (cacheEntry, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheEntry{}, domain.Wrap(err, domain.ErrCatalogCacheFailed)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, domain.Wrap(err, domain.ErrCatalogCacheFailed)
	}
	return entry, nil
}

func (c *Catalog) saveToCache(path, source string, idx index) error {
	entry := cacheEntry{
		URL:       source,
		FetchedAt: c.now(),
		Index:     idx,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return domain.Wrap(err, domain.ErrCatalogCacheFailed)
	}

	if err := atomicWriteFile(path, data); err != nil {
		return domain.Wrap(err, domain.ErrCatalogCacheFailed)
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "catalog-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
