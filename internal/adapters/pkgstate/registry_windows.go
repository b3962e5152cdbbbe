//go:build windows

package pkgstate

import (
	"go.trai.ch/agentup/internal/core/domain"
	"golang.org/x/sys/windows/registry"
)

// windowsInstallDir returns the install directory remembered by the agent's installer.
func windowsInstallDir() (string, bool) {
	for _, view := range []uint32{registry.WOW64_64KEY, registry.WOW64_32KEY} {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, domain.WindowsRegistryKey, registry.QUERY_VALUE|view)
		if err != nil {
			continue
		}
		for _, name := range []string{"RememberedInstallDir64", "RememberedInstallDir"} {
			if dir, _, err := key.GetStringValue(name); err == nil && dir != "" {
				_ = key.Close()
				return dir, true
			}
		}
		_ = key.Close()
	}
	return "", false
}
