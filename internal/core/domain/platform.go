package domain

import "fmt"

// Family is the operating-system family that selects the package format.
type Family int

const (
	// FamilyUnknown is the zero value and never produced by detection.
	FamilyUnknown Family = iota
	// FamilyDeb covers Debian-based Linux distributions.
	FamilyDeb
	// FamilyRPM covers RPM-based Linux distributions.
	FamilyRPM
	// FamilyWindows covers Windows desktop and server releases.
	FamilyWindows
	// FamilyMacOS covers macOS.
	FamilyMacOS
	// FamilySolaris covers Solaris.
	FamilySolaris
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyDeb:
		return "linux-deb"
	case FamilyRPM:
		return "linux-rpm"
	case FamilyWindows:
		return "windows"
	case FamilyMacOS:
		return "macos"
	case FamilySolaris:
		return "solaris"
	default:
		return "unknown"
	}
}

// RequiresStoppedServices reports whether the agent binaries cannot be replaced
// while agent services are running.
func (f Family) RequiresStoppedServices() bool {
	return f == FamilyWindows
}

// Dialect is the package-manager dialect used to install and query the agent.
type Dialect string

// Supported package-manager dialects.
const (
	DialectApt    Dialect = "apt"
	DialectYum    Dialect = "yum"
	DialectDnf    Dialect = "dnf"
	DialectZypper Dialect = "zypper"
	DialectMSI    Dialect = "msi"
	DialectPkg    Dialect = "pkg"
	DialectPkgAdd Dialect = "pkgadd"
)

// Platform describes the host the agent is reconciled on. It is derived once per run.
type Platform struct {
	Family  Family
	Distro  string
	Version string
	Arch    string
	Dialect Dialect
}

// Key renders the catalog platform key, e.g. "el-8-x86_64" or "windows-x64".
func (p Platform) Key() string {
	if p.Family == FamilyWindows {
		return fmt.Sprintf("%s-%s", p.Distro, p.Arch)
	}
	return fmt.Sprintf("%s-%s-%s", p.Distro, p.Version, p.Arch)
}

// String returns a human-readable description of the platform.
func (p Platform) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Key(), p.Family, p.Dialect)
}

// Facts are the raw host facts the platform is derived from.
type Facts struct {
	OSName    string
	OSVersion string
	Arch      string
}
