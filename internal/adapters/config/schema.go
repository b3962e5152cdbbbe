package config

// File is the on-disk configuration schema shared by the YAML and TOML formats.
// Unset fields keep their defaults.
type File struct {
	Package     string      `yaml:"package" toml:"package"`
	Product     string      `yaml:"product" toml:"product"`
	StateDir    string      `yaml:"state_dir" toml:"state_dir"`
	Platform    string      `yaml:"platform" toml:"platform"`
	VersionFile string      `yaml:"version_file" toml:"version_file"`
	Catalog     CatalogDTO  `yaml:"catalog" toml:"catalog"`
	Services    ServicesDTO `yaml:"services" toml:"services"`
	Install     InstallDTO  `yaml:"install" toml:"install"`
	Log         LogDTO      `yaml:"log" toml:"log"`
}

// CatalogDTO is the catalog section.
type CatalogDTO struct {
	StableURL  string `yaml:"stable_url" toml:"stable_url"`
	NightlyURL string `yaml:"nightly_url" toml:"nightly_url"`
	Timeout    string `yaml:"timeout" toml:"timeout"`
	CacheTTL   string `yaml:"cache_ttl" toml:"cache_ttl"`
}

// ServicesDTO is the services section.
type ServicesDTO struct {
	Managed  string   `yaml:"managed" toml:"managed"`
	Blocking []string `yaml:"blocking" toml:"blocking"`
}

// InstallDTO is the install section.
type InstallDTO struct {
	LockRetries    *int   `yaml:"lock_retries" toml:"lock_retries"`
	LockBackoff    string `yaml:"lock_backoff" toml:"lock_backoff"`
	LockBackoffMax string `yaml:"lock_backoff_max" toml:"lock_backoff_max"`
	StopChecks     *int   `yaml:"stop_checks" toml:"stop_checks"`
	StopInterval   string `yaml:"stop_interval" toml:"stop_interval"`
	AllowMajorSkip *bool  `yaml:"allow_major_skip" toml:"allow_major_skip"`
}

// LogDTO is the log section.
type LogDTO struct {
	JSON  *bool  `yaml:"json" toml:"json"`
	Level string `yaml:"level" toml:"level"`
}
