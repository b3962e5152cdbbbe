package platform

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"runtime"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

const osReleasePath = "/etc/os-release"

// FactGatherer reads raw platform facts from the running host.
type FactGatherer struct {
	goos     string
	goarch   string
	runner   ports.CommandRunner
	readFile func(string) ([]byte, error)
}

// NewFactGatherer creates a gatherer for the running host.
func NewFactGatherer(runner ports.CommandRunner) *FactGatherer {
	return &FactGatherer{
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		runner:   runner,
		readFile: os.ReadFile,
	}
}

// GatherFacts collects the OS name, version and architecture.
func (g *FactGatherer) GatherFacts(ctx context.Context) (domain.Facts, error) {
	facts := domain.Facts{Arch: g.goarch}

	switch g.goos {
	case "linux":
		data, err := g.readFile(osReleasePath)
		if err != nil {
			return domain.Facts{}, zerr.With(domain.Wrap(err, domain.ErrUnsupportedPlatform), "path", osReleasePath)
		}
		release := parseOSRelease(data)
		facts.OSName = release["ID"]
		facts.OSVersion = release["VERSION_ID"]
	case "darwin":
		res, err := g.runner.Run(ctx, "sw_vers", "-productVersion")
		if err != nil {
			return domain.Facts{}, domain.Wrap(err, domain.ErrUnsupportedPlatform)
		}
		facts.OSName = "osx"
		facts.OSVersion = strings.TrimSpace(res.Stdout)
	case "solaris", "illumos":
		res, err := g.runner.Run(ctx, "uname", "-r")
		if err != nil {
			return domain.Facts{}, domain.Wrap(err, domain.ErrUnsupportedPlatform)
		}
		facts.OSName = "solaris"
		facts.OSVersion = strings.TrimSpace(res.Stdout)
	case "windows":
		facts.OSName = "windows"
	default:
		return domain.Facts{}, domain.With(domain.ErrUnsupportedPlatform, "os", g.goos)
	}
	return facts, nil
}

// parseOSRelease reads KEY=value pairs, stripping optional quotes.
func parseOSRelease(data []byte) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[k] = strings.Trim(v, `"'`)
	}
	return values
}
