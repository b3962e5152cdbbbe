package reconciler

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/zerr"
)

// Reasons reported for decisions that leave the host untouched.
const (
	reasonNoVersion = "Version parameter not defined and agent detected. Nothing to do."
	reasonDetected  = "%s %s detected. Nothing to do."
)

// preResolve decides without consulting the catalog when that is possible:
// an installed agent with no requested version, or one that already carries
// the exact requested release.
func preResolve(installed domain.InstalledState, req domain.VersionRequest, product string) (domain.Decision, bool) {
	if !installed.Present {
		return domain.Decision{}, false
	}
	if !req.Explicit() {
		return domain.Decision{Action: domain.ActionNoOp, From: installed.Version, Reason: reasonNoVersion}, true
	}
	if req.Kind == domain.RequestExact && domain.SameVersion(installed.Version, req.Exact) {
		return noOpDetected(installed.Version, product), true
	}
	return domain.Decision{}, false
}

// Decide applies the transition rules in priority order:
// not installed installs, no explicit version is a no-op, the resolved version
// already installed is a no-op, anything else upgrades. Releases are compared
// without build metadata.
func Decide(
	installed domain.InstalledState,
	req domain.VersionRequest,
	resolved domain.ResolvedVersion,
	product string,
	allowMajorSkip bool,
) (domain.Decision, error) {
	if d, ok := preResolve(installed, req, product); ok {
		return d, nil
	}

	target := resolved
	if !installed.Present {
		return domain.Decision{
			Action: domain.ActionInstall,
			To:     &target,
			Reason: fmt.Sprintf("%s %s installed.", product, target.String()),
		}, nil
	}

	if domain.SameVersion(installed.Version, resolved.Version) {
		return noOpDetected(installed.Version, product), nil
	}

	if err := checkMajorSkip(installed.Version, resolved.Version, allowMajorSkip); err != nil {
		return domain.Decision{}, err
	}

	d := domain.Decision{
		Action: domain.ActionUpgrade,
		From:   installed.Version,
		To:     &target,
	}
	switch {
	case installed.Version == nil:
		d.Reason = fmt.Sprintf("%s %s installed over an undetectable version.", product, target.String())
	case d.Downgrade():
		d.Reason = fmt.Sprintf("%s downgraded from %s to %s.", product, domain.FormatVersion(installed.Version), target.String())
	default:
		d.Reason = fmt.Sprintf("%s upgraded from %s to %s.", product, domain.FormatVersion(installed.Version), target.String())
	}
	return d, nil
}

func noOpDetected(v *semver.Version, product string) domain.Decision {
	return domain.Decision{
		Action: domain.ActionNoOp,
		From:   v,
		Reason: fmt.Sprintf(reasonDetected, product, domain.FormatRelease(v)),
	}
}

// checkMajorSkip rejects upgrades that jump more than one major version.
func checkMajorSkip(from, to *semver.Version, allow bool) error {
	if allow || from == nil || to.Major() <= from.Major()+1 {
		return nil
	}
	err := domain.With(domain.ErrMajorVersionSkip, "from", domain.FormatVersion(from))
	err = zerr.With(err, "to", domain.FormatVersion(to))
	return zerr.With(err, "hint", "upgrade through puppet"+strconv.FormatUint(from.Major()+1, 10)+" first or set allow_major_skip")
}

// matchesTarget reports whether an installed version satisfies the target.
// Package databases may drop the build metadata a catalog carries.
func matchesTarget(installed, target *semver.Version) bool {
	if installed == nil || target == nil || installed.Compare(target) != 0 {
		return false
	}
	return installed.Metadata() == "" || target.Metadata() == "" || installed.Metadata() == target.Metadata()
}
