package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// RequestKind distinguishes how the caller asked for a version.
type RequestKind int

const (
	// RequestUnspecified means the caller supplied no version parameter.
	RequestUnspecified RequestKind = iota
	// RequestLatest means the caller asked for "latest".
	RequestLatest
	// RequestExact means the caller asked for an exact X.Y.Z version.
	RequestExact
)

// LatestKeyword is the version parameter value that requests the newest package.
const LatestKeyword = "latest"

// VersionRequest is the requested state of the agent package.
type VersionRequest struct {
	Collection Collection
	Kind       RequestKind
	Exact      *semver.Version
}

// NewVersionRequest validates a collection name and an optional version parameter.
// An empty version yields RequestUnspecified.
func NewVersionRequest(collection, version string) (VersionRequest, error) {
	c, err := ParseCollection(collection)
	if err != nil {
		return VersionRequest{}, err
	}

	version = strings.TrimSpace(version)
	switch {
	case version == "":
		return VersionRequest{Collection: c, Kind: RequestUnspecified}, nil
	case strings.EqualFold(version, LatestKeyword):
		return VersionRequest{Collection: c, Kind: RequestLatest}, nil
	}

	v, err := ParseExactVersion(version)
	if err != nil {
		return VersionRequest{}, err
	}
	if !c.Contains(v) {
		err := With(ErrVersionOutsideCollection, "version", version)
		return VersionRequest{}, zerr.With(err, "collection", c.String())
	}
	return VersionRequest{Collection: c, Kind: RequestExact, Exact: v}, nil
}

// Explicit reports whether the caller asked for a version at all.
func (r VersionRequest) Explicit() bool {
	return r.Kind != RequestUnspecified
}

// ResolvedVersion is a concrete installable package.
type ResolvedVersion struct {
	Version    *semver.Version
	SourceURI  string
	Collection Collection
}

// String returns the agent-formatted version.
func (r ResolvedVersion) String() string {
	return FormatVersion(r.Version)
}
