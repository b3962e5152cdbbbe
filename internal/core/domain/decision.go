package domain

import "github.com/Masterminds/semver/v3"

// Action is what the reconciler does to converge the host.
type Action int

const (
	// ActionNoOp leaves the host untouched.
	ActionNoOp Action = iota
	// ActionInstall installs the package on a host that has none.
	ActionInstall
	// ActionUpgrade replaces an installed package with another version.
	ActionUpgrade
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUpgrade:
		return "upgrade"
	default:
		return "noop"
	}
}

// Decision is the outcome of comparing installed state with the request.
type Decision struct {
	Action Action
	// From is the installed version. It is nil for installs and degraded upgrades.
	From *semver.Version
	// To is the target. It is nil for NoOp.
	To *ResolvedVersion
	// Reason is the human-readable explanation reported to the caller.
	Reason string
}

// Mutates reports whether the decision changes the host.
func (d Decision) Mutates() bool {
	return d.Action != ActionNoOp
}

// Downgrade reports whether an upgrade moves to an older version.
func (d Decision) Downgrade() bool {
	if d.Action != ActionUpgrade || d.From == nil || d.To == nil {
		return false
	}
	return CompareVersions(d.To.Version, d.From) < 0
}
