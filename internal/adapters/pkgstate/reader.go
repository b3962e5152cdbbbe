// Package pkgstate reads the installed agent version from the host.
package pkgstate

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// macOSPackageID is the receipt identifier of the agent package on macOS.
const macOSPackageID = "com.puppetlabs.puppet-agent"

// Reader implements ports.StateReader. The agent's VERSION file is consulted
// first, then the package database of the platform's dialect.
type Reader struct {
	pkg         string
	versionFile string
	runner      ports.CommandRunner
	logger      ports.Logger
	readFile    func(string) ([]byte, error)
	installDir  func() (string, bool)
}

// NewReader creates a Reader. versionFile overrides the VERSION file location when set.
func NewReader(pkg, versionFile string, runner ports.CommandRunner, logger ports.Logger) *Reader {
	return &Reader{
		pkg:         pkg,
		versionFile: versionFile,
		runner:      runner,
		logger:      logger,
		readFile:    os.ReadFile,
		installDir:  windowsInstallDir,
	}
}

// Read returns the installed state of the agent package.
func (r *Reader) Read(ctx context.Context, platform domain.Platform) (domain.InstalledState, error) {
	path := r.versionFilePath(platform)
	fromFile, fileFound := r.readVersionFile(path)
	if fileFound && fromFile.Version != nil {
		return fromFile, nil
	}

	fromDB, err := r.queryDatabase(ctx, platform)
	if err != nil {
		return domain.InstalledState{}, err
	}
	if fromDB.Present || !fileFound {
		return fromDB, nil
	}

	// The VERSION file exists but is unreadable and no package database knows better.
	return fromFile, nil
}

func (r *Reader) versionFilePath(platform domain.Platform) string {
	if r.versionFile != "" {
		return r.versionFile
	}
	if platform.Family != domain.FamilyWindows {
		return domain.UnixVersionFile
	}
	if dir, ok := r.installDir(); ok {
		return domain.WindowsVersionFile(dir)
	}
	return domain.WindowsVersionFile(domain.WindowsInstallDir)
}

// readVersionFile reports whether the file exists and what it says.
func (r *Reader) readVersionFile(path string) (domain.InstalledState, bool) {
	data, err := r.readFile(filepath.Clean(path))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read agent VERSION file", "path", path, "error", err.Error())
		}
		return domain.InstalledState{}, false
	}

	v, err := domain.ParseAgentVersion(string(data))
	if err != nil {
		r.logger.Warn("agent VERSION file is not a version", "path", path, "content", strings.TrimSpace(string(data)))
		return domain.InstalledState{Present: true, Source: path}, true
	}
	return domain.InstalledState{Present: true, Version: v, Source: path}, true
}

func (r *Reader) queryDatabase(ctx context.Context, platform domain.Platform) (domain.InstalledState, error) {
	var (
		tool  string
		args  []string
		parse func(string) (string, bool)
	)

	switch platform.Dialect {
	case domain.DialectApt:
		tool, args, parse = "dpkg-query", []string{"-W", "-f=${Status}\t${Version}", r.pkg}, parseDpkg
	case domain.DialectYum, domain.DialectDnf, domain.DialectZypper:
		tool, args, parse = "rpm", []string{"-q", "--qf", "%{VERSION}", r.pkg}, parseRPM
	case domain.DialectPkg:
		tool, args, parse = "pkgutil", []string{"--pkg-info", macOSPackageID}, parsePkgutil
	case domain.DialectPkgAdd:
		tool, args, parse = "pkginfo", []string{"-l", r.pkg}, parsePkginfo
	default:
		return domain.NotInstalled(""), nil
	}

	res, err := r.runner.Run(ctx, tool, args...)
	switch {
	case err == nil:
	case domain.Matches(err, domain.ErrCommandNotFound):
		r.logger.Warn("package query tool not found, treating agent as not installed", "tool", tool)
		return domain.NotInstalled(tool), nil
	case domain.Matches(err, domain.ErrCommandFailed) && ctx.Err() == nil:
		// Every supported query tool exits non-zero for an unknown package.
		return domain.NotInstalled(tool), nil
	default:
		return domain.InstalledState{}, zerr.With(domain.Wrap(err, domain.ErrStateReadFailed), "tool", tool)
	}

	raw, present := parse(res.Stdout)
	if !present {
		return domain.NotInstalled(tool), nil
	}

	v, err := domain.ParseAgentVersion(raw)
	if err != nil {
		r.logger.Warn("installed package version is not parseable", "tool", tool, "version", raw)
		return domain.InstalledState{Present: true, Source: tool}, nil
	}
	return domain.InstalledState{Present: true, Version: v, Source: tool}, nil
}

// parseDpkg reads "<status>\t<version>" and strips the epoch and Debian revision.
func parseDpkg(out string) (string, bool) {
	status, version, ok := strings.Cut(strings.TrimSpace(out), "\t")
	if !ok || !strings.HasSuffix(status, " installed") {
		return "", false
	}
	if _, rest, found := strings.Cut(version, ":"); found {
		version = rest
	}
	version, _, _ = strings.Cut(version, "-")
	return version, version != ""
}

func parseRPM(out string) (string, bool) {
	v := strings.TrimSpace(out)
	if v == "" || strings.Contains(v, "not installed") {
		return "", false
	}
	return v, true
}

func parsePkgutil(out string) (string, bool) {
	return fieldValue(out, "version:")
}

// parsePkginfo reads "VERSION:  6.19.1,REV=2020.11.05".
func parsePkginfo(out string) (string, bool) {
	v, ok := fieldValue(out, "VERSION:")
	if !ok {
		return "", false
	}
	v, _, _ = strings.Cut(v, ",")
	return v, v != ""
}

func fieldValue(out, field string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, field); ok {
			v := strings.TrimSpace(rest)
			return v, v != ""
		}
	}
	return "", false
}
