package pkgmgr

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// step is one package-manager invocation.
type step struct {
	name string
	args []string
}

// dialect describes how one package manager installs an artifact and reports lock contention.
type dialect struct {
	name domain.Dialect
	// plan returns the invocations that install artifact for the decision.
	plan func(ctx context.Context, in *installer, artifact string, decision domain.Decision) ([]step, func(), error)
	// locked reports whether a failed invocation lost a race for the package-manager lock.
	locked func(res ports.CommandResult) bool
	// successCodes are non-zero exit codes that still mean success.
	successCodes []int
}

func (d dialect) succeeded(code int) bool {
	return slices.Contains(d.successCodes, code)
}

func outputContains(res ports.CommandResult, needles ...string) bool {
	out := strings.ToLower(res.Output())
	for _, n := range needles {
		if strings.Contains(out, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func single(s step) ([]step, func(), error) {
	return []step{s}, func() {}, nil
}

var dialects = map[domain.Dialect]dialect{
	domain.DialectApt: {
		name: domain.DialectApt,
		plan: func(_ context.Context, _ *installer, artifact string, _ domain.Decision) ([]step, func(), error) {
			return single(step{"apt-get", []string{"install", "-y", "--allow-downgrades", artifact}})
		},
		locked: func(res ports.CommandResult) bool {
			return res.ExitCode == 100 && outputContains(res, "Could not get lock", "Unable to acquire the dpkg frontend lock")
		},
	},
	domain.DialectYum: rpmDialect(domain.DialectYum, "yum", "another app is currently holding the yum lock"),
	domain.DialectDnf: rpmDialect(domain.DialectDnf, "dnf", "waiting for process"),
	domain.DialectZypper: {
		name: domain.DialectZypper,
		plan: func(_ context.Context, _ *installer, artifact string, _ domain.Decision) ([]step, func(), error) {
			return single(step{"zypper", []string{
				"--non-interactive", "install", "--oldpackage", "--allow-unsigned-rpm", artifact,
			}})
		},
		locked: func(res ports.CommandResult) bool {
			return res.ExitCode == 7
		},
	},
	domain.DialectMSI: {
		name: domain.DialectMSI,
		plan: func(_ context.Context, _ *installer, artifact string, _ domain.Decision) ([]step, func(), error) {
			logFile := strings.TrimSuffix(artifact, filepath.Ext(artifact)) + "-install.log"
			return single(step{"msiexec", []string{"/qn", "/norestart", "/i", artifact, "/l*v", logFile}})
		},
		locked: func(res ports.CommandResult) bool {
			return res.ExitCode == 1618
		},
		// ERROR_SUCCESS_REBOOT_INITIATED and ERROR_SUCCESS_REBOOT_REQUIRED.
		successCodes: []int{1641, 3010},
	},
	domain.DialectPkg: {
		name: domain.DialectPkg,
		plan: planMacOS,
		locked: func(res ports.CommandResult) bool {
			return outputContains(res, "another installation is in progress")
		},
	},
	domain.DialectPkgAdd: {
		name: domain.DialectPkgAdd,
		plan: planSolaris,
		locked: func(ports.CommandResult) bool {
			return false
		},
	},
}

func rpmDialect(name domain.Dialect, tool, lockMessage string) dialect {
	return dialect{
		name: name,
		plan: func(_ context.Context, _ *installer, artifact string, decision domain.Decision) ([]step, func(), error) {
			verb := "install"
			if decision.Downgrade() {
				verb = "downgrade"
			}
			return single(step{tool, []string{verb, "-y", artifact}})
		},
		locked: func(res ports.CommandResult) bool {
			return outputContains(res, lockMessage)
		},
	}
}
