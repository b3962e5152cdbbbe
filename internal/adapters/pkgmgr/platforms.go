package pkgmgr

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/zerr"
)

// solarisAdmin answers every pkgadd/pkgrm question without prompting.
const solarisAdmin = `mail=
instance=overwrite
partial=nocheck
runlevel=nocheck
idepend=nocheck
rdepend=nocheck
space=quit
setuid=nocheck
conflict=nocheck
action=nocheck
basedir=default
`

// planMacOS installs a .pkg directly or mounts a .dmg and installs the package inside it.
func planMacOS(ctx context.Context, in *installer, artifact string, _ domain.Decision) ([]step, func(), error) {
	if !strings.EqualFold(filepath.Ext(artifact), ".dmg") {
		return single(step{"installer", []string{"-pkg", artifact, "-target", "/"}})
	}

	mountPoint := strings.TrimSuffix(artifact, filepath.Ext(artifact)) + ".mnt"
	if _, err := in.runner.Run(ctx, "hdiutil", "attach", "-nobrowse", "-readonly", "-mountpoint", mountPoint, artifact); err != nil {
		return nil, nil, zerr.With(domain.Wrap(err, domain.ErrInstallFailed), "artifact", artifact)
	}
	detach := func() {
		if _, err := in.runner.Run(context.WithoutCancel(ctx), "hdiutil", "detach", mountPoint, "-force"); err != nil {
			in.logger.Warn("failed to detach disk image", "mountpoint", mountPoint)
		}
	}

	matches, err := filepath.Glob(filepath.Join(mountPoint, "*.pkg"))
	if err != nil || len(matches) == 0 {
		detach()
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrInstallFailed, "disk image contains no package"), "artifact", artifact)
	}
	return []step{{"installer", []string{"-pkg", matches[0], "-target", "/"}}}, detach, nil
}

// planSolaris writes a non-interactive admin file and removes an installed
// package before adding the new one, since pkgadd does not upgrade in place.
func planSolaris(_ context.Context, in *installer, artifact string, decision domain.Decision) ([]step, func(), error) {
	admin := filepath.Join(filepath.Dir(artifact), "agentup.admin")
	if err := os.WriteFile(admin, []byte(solarisAdmin), domain.FilePerm); err != nil {
		return nil, nil, zerr.With(domain.Wrap(err, domain.ErrInstallFailed), "path", admin)
	}
	cleanup := func() {
		_ = os.Remove(admin)
	}

	var steps []step
	if decision.Action == domain.ActionUpgrade {
		steps = append(steps, step{"pkgrm", []string{"-n", "-a", admin, in.pkg}})
	}
	steps = append(steps, step{"pkgadd", []string{"-n", "-a", admin, "-d", artifact, in.pkg}})
	return steps, cleanup, nil
}
