package domain

import "time"

// Settings is the resolved configuration of a run: file values over defaults, flags over both.
type Settings struct {
	Package     string
	Product     string
	StateDir    string
	Platform    string
	VersionFile string
	Catalog     CatalogSettings
	Services    ServiceSettings
	Install     InstallSettings
	Log         LogSettings
	// Source is the configuration file the settings were read from, empty for defaults.
	Source string
}

// CatalogSettings configures the version catalog.
type CatalogSettings struct {
	StableURL  string
	NightlyURL string
	Timeout    time.Duration
	CacheTTL   time.Duration
}

// ServiceSettings names the services touched around an install.
type ServiceSettings struct {
	Managed  string
	Blocking []string
}

// InstallSettings bounds the install and service-stop retry loops.
type InstallSettings struct {
	LockRetries    int
	LockBackoff    time.Duration
	LockBackoffMax time.Duration
	StopChecks     int
	StopInterval   time.Duration
	AllowMajorSkip bool
}

// LogSettings configures the logger.
type LogSettings struct {
	JSON  bool
	Level string
}

// Default catalog locations.
const (
	DefaultStableCatalogURL  = "https://downloads.puppet.com/agentup/catalog"
	DefaultNightlyCatalogURL = "https://nightlies.puppet.com/agentup/catalog"
)

// DefaultSettings returns the settings used when no configuration file exists.
func DefaultSettings() Settings {
	return Settings{
		Package:  PackageName,
		Product:  ProductName,
		StateDir: DefaultStateDir,
		Catalog: CatalogSettings{
			StableURL:  DefaultStableCatalogURL,
			NightlyURL: DefaultNightlyCatalogURL,
			Timeout:    30 * time.Second,
			CacheTTL:   time.Hour,
		},
		Services: ServiceSettings{
			Managed:  ManagedService,
			Blocking: DefaultBlockingServices(),
		},
		Install: InstallSettings{
			LockRetries:    5,
			LockBackoff:    2 * time.Second,
			LockBackoffMax: 30 * time.Second,
			StopChecks:     10,
			StopInterval:   time.Second,
		},
		Log: LogSettings{Level: "info"},
	}
}

// CatalogURL returns the catalog base URL for a track.
func (s Settings) CatalogURL(t Track) string {
	if t == TrackNightly {
		return s.Catalog.NightlyURL
	}
	return s.Catalog.StableURL
}
