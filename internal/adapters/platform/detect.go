// Package platform derives the package-manager platform of the local host.
package platform

import (
	"strconv"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/zerr"
)

var distroAliases = map[string]string{
	"debian":        "debian",
	"ubuntu":        "ubuntu",
	"el":            "el",
	"redhat":        "el",
	"rhel":          "el",
	"centos":        "el",
	"rocky":         "el",
	"almalinux":     "el",
	"oracle":        "el",
	"ol":            "el",
	"scientific":    "el",
	"fedora":        "fedora",
	"amazon":        "amazon",
	"amzn":          "amazon",
	"sles":          "sles",
	"sled":          "sles",
	"opensuse-leap": "sles",
	"suse":          "sles",
	"osx":           "osx",
	"darwin":        "osx",
	"macos":         "osx",
	"windows":       "windows",
	"solaris":       "solaris",
	"sunos":         "solaris",
}

// Detect maps raw host facts onto a Platform. It is a pure function.
func Detect(facts domain.Facts) (domain.Platform, error) {
	distro, ok := canonicalDistro(facts.OSName)
	if !ok {
		return domain.Platform{}, domain.With(domain.ErrUnsupportedPlatform, "os", facts.OSName)
	}

	p := domain.Platform{Distro: distro}
	version := strings.ToLower(strings.TrimSpace(facts.OSVersion))
	if version == "" && distro != "windows" {
		err := zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "missing os version"), "os", facts.OSName)
		return domain.Platform{}, err
	}

	var err error
	switch distro {
	case "debian", "ubuntu":
		p.Family, p.Dialect = domain.FamilyDeb, domain.DialectApt
		p.Version = normalizeDebVersion(distro, version)
	case "el", "fedora", "amazon":
		p.Family = domain.FamilyRPM
		var major int
		major, err = majorOf(version)
		p.Version = strconv.Itoa(major)
		p.Dialect = rpmDialect(distro, major)
	case "sles":
		p.Family, p.Dialect = domain.FamilyRPM, domain.DialectZypper
		var major int
		major, err = majorOf(version)
		p.Version = strconv.Itoa(major)
	case "osx":
		p.Family, p.Dialect = domain.FamilyMacOS, domain.DialectPkg
		p.Version, err = normalizeMacVersion(version)
	case "solaris":
		p.Family, p.Dialect = domain.FamilySolaris, domain.DialectPkgAdd
		var major int
		major, err = majorOf(strings.TrimPrefix(version, "5."))
		p.Version = strconv.Itoa(major)
	case "windows":
		p.Family, p.Dialect = domain.FamilyWindows, domain.DialectMSI
		p.Version = version
	}
	if err != nil {
		unsupported := zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, err.Error()), "os", facts.OSName)
		return domain.Platform{}, zerr.With(unsupported, "os_version", facts.OSVersion)
	}

	p.Arch = normalizeArch(p.Family, facts.Arch)
	return p, nil
}

// ParsePlatformString parses harness platform names such as "el-7-x86_64",
// "ubuntu-1804-amd64", "windows-2019-64" or "fedora-30". The architecture is
// left empty when the name carries none.
func ParsePlatformString(s string) (domain.Facts, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for alias := range distroAliases {
		if strings.Contains(alias, "-") && strings.HasPrefix(s, alias+"-") {
			rest := strings.TrimPrefix(s, alias+"-")
			version, arch, _ := strings.Cut(rest, "-")
			return domain.Facts{OSName: alias, OSVersion: version, Arch: arch}, nil
		}
	}

	parts := strings.SplitN(s, "-", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return domain.Facts{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "malformed platform name"), "platform", s)
	}
	facts := domain.Facts{OSName: parts[0], OSVersion: parts[1]}
	if len(parts) == 3 {
		facts.Arch = parts[2]
	}
	return facts, nil
}

func canonicalDistro(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if d, ok := distroAliases[name]; ok {
		return d, true
	}
	if strings.HasPrefix(name, "win") {
		return "windows", true
	}
	return "", false
}

// normalizeDebVersion turns compact Ubuntu versions ("1804") into "18.04".
func normalizeDebVersion(distro, version string) string {
	if distro == "ubuntu" && len(version) == 4 && !strings.Contains(version, ".") {
		if _, err := strconv.Atoi(version); err == nil {
			return version[:2] + "." + version[2:]
		}
	}
	if distro == "debian" {
		major, _, _ := strings.Cut(version, ".")
		return major
	}
	return version
}

func normalizeMacVersion(version string) (string, error) {
	parts := strings.Split(version, ".")
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", err
	}
	if major == 10 && len(parts) > 1 {
		return "10." + parts[1], nil
	}
	return strconv.Itoa(major), nil
}

func majorOf(version string) (int, error) {
	head, _, _ := strings.Cut(version, ".")
	return strconv.Atoi(head)
}

func rpmDialect(distro string, major int) domain.Dialect {
	switch distro {
	case "fedora":
		return domain.DialectDnf
	case "amazon":
		if major >= 2023 {
			return domain.DialectDnf
		}
		return domain.DialectYum
	default:
		if major >= 8 {
			return domain.DialectDnf
		}
		return domain.DialectYum
	}
}

// normalizeArch renders the architecture the way each family's packages name it.
func normalizeArch(family domain.Family, arch string) string {
	arch = strings.ToLower(strings.TrimSpace(arch))
	if arch == "" {
		arch = "amd64"
	}

	amd64 := arch == "amd64" || arch == "x86_64" || arch == "x64" || arch == "64"
	arm64 := arch == "arm64" || arch == "aarch64"
	x86 := arch == "386" || arch == "i386" || arch == "i686" || arch == "x86" || arch == "32"

	switch family {
	case domain.FamilyDeb:
		switch {
		case amd64:
			return "amd64"
		case arm64:
			return "arm64"
		case x86:
			return "i386"
		}
	case domain.FamilyWindows:
		switch {
		case amd64:
			return "x64"
		case x86:
			return "x86"
		}
	case domain.FamilyMacOS:
		switch {
		case amd64:
			return "x86_64"
		case arm64:
			return "arm64"
		}
	default:
		switch {
		case amd64:
			return "x86_64"
		case arm64:
			return "aarch64"
		case x86:
			return "i386"
		}
	}
	return arch
}
