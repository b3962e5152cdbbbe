//go:build !windows

package pkgstate

func windowsInstallDir() (string, bool) {
	return "", false
}
