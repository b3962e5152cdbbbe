package domain

import (
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Track is the stability track of a collection.
type Track int

const (
	// TrackStable selects released packages.
	TrackStable Track = iota
	// TrackNightly selects unstable nightly builds from a separate catalog.
	TrackNightly
)

// String returns the track name.
func (t Track) String() string {
	if t == TrackNightly {
		return "nightly"
	}
	return "stable"
}

// Collection is a named channel selecting a major-version family and stability track.
// It can only be obtained through ParseCollection, so a typo never silently
// resolves against the stable catalog.
type Collection struct {
	major int
	track Track
}

var collectionPattern = regexp.MustCompile(`^puppet([1-9][0-9]*)(-nightly)?$`)

// ParseCollection parses names such as "puppet6" or "puppet7-nightly".
func ParseCollection(name string) (Collection, error) {
	m := collectionPattern.FindStringSubmatch(name)
	if m == nil {
		return Collection{}, With(ErrUnknownCollection, "collection", name)
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Collection{}, zerr.With(zerr.Wrap(ErrUnknownCollection, err.Error()), "collection", name)
	}
	c := Collection{major: major, track: TrackStable}
	if m[2] != "" {
		c.track = TrackNightly
	}
	return c, nil
}

// Major returns the major version family of the collection.
func (c Collection) Major() int {
	return c.major
}

// Track returns the stability track of the collection.
func (c Collection) Track() Track {
	return c.track
}

// IsZero reports whether c was not produced by ParseCollection.
func (c Collection) IsZero() bool {
	return c.major == 0
}

// Contains reports whether v belongs to the collection's major-version family.
func (c Collection) Contains(v *semver.Version) bool {
	return v != nil && v.Major() == uint64(c.major) //nolint:gosec // major is parsed from digits and positive
}

// String returns the canonical collection name.
func (c Collection) String() string {
	if c.IsZero() {
		return ""
	}
	name := "puppet" + strconv.Itoa(c.major)
	if c.track == TrackNightly {
		name += "-nightly"
	}
	return name
}
