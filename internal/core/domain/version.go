package domain

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// ParseExactVersion parses a version requested by a caller. Only strict X.Y.Z
// semantic versions are accepted.
func ParseExactVersion(raw string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrInvalidVersion, err.Error()), "version", raw)
	}
	return v, nil
}

// ParseAgentVersion parses a version reported by a package database, a VERSION
// file or a catalog. Agent builds may carry extra dotted components after the
// patch number (e.g. "7.0.0.100.g6e3f6c4"); those become build metadata.
func ParseAgentVersion(raw string) (*semver.Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, With(ErrInvalidVersion, "version", raw)
	}

	parts := strings.SplitN(s, ".", 4)
	if len(parts) == 4 && !strings.ContainsAny(parts[2], "-+") {
		s = parts[0] + "." + parts[1] + "." + parts[2] + "+" + parts[3]
	}

	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrInvalidVersion, err.Error()), "version", raw)
	}
	return v, nil
}

// CompareVersions orders two agent versions. It follows semantic-version
// precedence and breaks ties on the leading build number in the metadata,
// which orders nightly builds of the same release.
func CompareVersions(a, b *semver.Version) int {
	if d := a.Compare(b); d != 0 {
		return d
	}
	return compareBuild(a.Metadata(), b.Metadata())
}

// SameVersion reports whether two versions denote the same release. Build
// metadata is ignored, so nightly builds of one release compare equal.
func SameVersion(a, b *semver.Version) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Compare(b) == 0
}

// FormatRelease renders v without its build metadata.
func FormatRelease(v *semver.Version) string {
	if v == nil {
		return ""
	}
	release, err := v.SetMetadata("")
	if err != nil {
		return FormatVersion(v)
	}
	return FormatVersion(&release)
}

// FormatVersion renders a version the way the agent itself reports it.
func FormatVersion(v *semver.Version) string {
	if v == nil {
		return ""
	}
	base := strconv.FormatUint(v.Major(), 10) + "." +
		strconv.FormatUint(v.Minor(), 10) + "." +
		strconv.FormatUint(v.Patch(), 10)
	if v.Prerelease() != "" {
		base += "-" + v.Prerelease()
	}
	if v.Metadata() != "" {
		base += "." + v.Metadata()
	}
	return base
}

func compareBuild(a, b string) int {
	if a == b {
		return 0
	}
	na, okA := leadingNumber(a)
	nb, okB := leadingNumber(b)
	switch {
	case okA && okB && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case okA && !okB:
		return 1
	case !okA && okB:
		return -1
	}
	return strings.Compare(a, b)
}

func leadingNumber(s string) (uint64, bool) {
	head, _, _ := strings.Cut(s, ".")
	if head == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(head, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
