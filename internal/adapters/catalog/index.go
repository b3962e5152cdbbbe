package catalog

import (
	"encoding/json"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// index is the wire format of a catalog document for one collection and platform.
type index struct {
	Collection string         `json:"collection"`
	Platform   string         `json:"platform"`
	Packages   []packageEntry `json:"packages"`
}

type packageEntry struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

// cacheEntry is an index persisted on disk together with its fetch time.
type cacheEntry struct {
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
	Index     index     `json:"index"`
}

func parseIndex(data []byte, source string) (index, error) {
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return index{}, zerr.With(domain.Wrap(err, domain.ErrCatalogParseFailed), "url", source)
	}
	return idx, nil
}

// versions converts an index into resolved versions of the collection,
// newest first. Entries that do not parse or belong to another major are skipped.
func (idx index) versions(collection domain.Collection, source string, log ports.Logger) []domain.ResolvedVersion {
	out := make([]domain.ResolvedVersion, 0, len(idx.Packages))
	for _, pkg := range idx.Packages {
		v, err := domain.ParseAgentVersion(pkg.Version)
		if err != nil {
			log.Warn("skipping catalog entry", "version", pkg.Version, "url", source)
			continue
		}
		if !collection.Contains(v) {
			log.Debug("skipping catalog entry outside collection", "version", pkg.Version, "collection", collection.String())
			continue
		}
		out = append(out, domain.ResolvedVersion{
			Version:    v,
			SourceURI:  resolveReference(source, pkg.URL),
			Collection: collection,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return domain.CompareVersions(out[i].Version, out[j].Version) > 0
	})
	return out
}

// resolveReference resolves a package URL relative to the index it came from.
func resolveReference(indexURL, ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err == nil && r.IsAbs() {
		return ref
	}

	base, err := url.Parse(indexURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https" && base.Scheme != "file") {
		// Plain directory bases resolve against the index file's directory.
		if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
			return ref
		}
		return filepath.Join(filepath.Dir(indexURL), filepath.FromSlash(ref))
	}
	if r == nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
