package domain

import (
	"path/filepath"
	"strings"
)

const (
	// PackageName is the name of the managed package.
	PackageName = "puppet-agent"

	// ProductName is the product name used in reported messages.
	ProductName = "Puppet Agent"

	// ManagedService is the service stopped after install when requested.
	ManagedService = "puppet"

	// PXPService is the orchestration agent service shipped with the package.
	PXPService = "pxp-agent"

	// DefaultStateDir is the root directory for caches and downloads on unix hosts.
	DefaultStateDir = "/var/cache/agentup"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// CatalogDirName is the name of the catalog index cache directory.
	CatalogDirName = "catalog"

	// DownloadDirName is the name of the artifact download directory.
	DownloadDirName = "downloads"

	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "agentup"

	// ConfigBaseName is the base name of the configuration file.
	ConfigBaseName = "config"

	// ConfigEnvVar names the environment variable that points to a configuration file.
	ConfigEnvVar = "AGENTUP_CONFIG"

	// UnixVersionFile is the VERSION file written by the agent package on unix hosts.
	UnixVersionFile = "/opt/puppetlabs/puppet/VERSION"

	// WindowsInstallDir is the install directory used when the registry has none.
	WindowsInstallDir = `C:\Program Files\Puppet Labs\Puppet`

	// WindowsRegistryKey is the registry key holding the remembered install directory.
	WindowsRegistryKey = `SOFTWARE\Puppet Labs\Puppet`

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultBlockingServices returns the services that must be stopped before an in-place upgrade.
func DefaultBlockingServices() []string {
	return []string{ManagedService, PXPService}
}

// CatalogCachePath returns the catalog cache directory below stateDir.
// It joins cache and catalog.
func CatalogCachePath(stateDir string) string {
	return filepath.Join(stateDir, CacheDirName, CatalogDirName)
}

// DownloadPath returns the artifact download directory below stateDir.
func DownloadPath(stateDir string) string {
	return filepath.Join(stateDir, DownloadDirName)
}

// WindowsVersionFile returns the VERSION file below a Windows install directory.
func WindowsVersionFile(installDir string) string {
	return strings.TrimRight(installDir, `\/`) + `\puppet\VERSION`
}
