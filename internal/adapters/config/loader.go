// Package config provides the configuration loader for agentup.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var extensions = []string{".yaml", ".yml", ".toml"}

// Loader implements ports.ConfigLoader over YAML and TOML files.
type Loader struct {
	fs        FileSystem
	home      func() (string, error)
	getenv    func(string) string
	systemDir string
}

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem replaces the filesystem used for discovery and reads.
func WithFileSystem(fsys FileSystem) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithHomeDir replaces home directory lookup.
func WithHomeDir(home func() (string, error)) Option {
	return func(l *Loader) { l.home = home }
}

// WithEnv replaces environment lookup.
func WithEnv(getenv func(string) string) Option {
	return func(l *Loader) { l.getenv = getenv }
}

// WithSystemDir replaces the system-wide configuration directory.
func WithSystemDir(dir string) Option {
	return func(l *Loader) { l.systemDir = dir }
}

// NewLoader creates a Loader reading from the real filesystem.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:        NewOSFS(),
		home:      homedir.Dir,
		getenv:    os.Getenv,
		systemDir: defaultSystemDir(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file at path, or the first discovered file when path is empty.
// An explicit path that does not exist is an error; an unsuccessful discovery is not.
func (l *Loader) Load(path string) (domain.Settings, error) {
	settings := Defaults()

	configPath, err := l.find(path)
	if err != nil {
		return domain.Settings{}, err
	}
	if configPath == "" {
		return settings, nil
	}

	var file File
	if err := l.decode(configPath, &file); err != nil {
		return domain.Settings{}, zerr.With(err, "path", configPath)
	}

	if err := apply(&settings, &file); err != nil {
		return domain.Settings{}, zerr.With(err, "path", configPath)
	}
	settings.Source = configPath

	if err := Validate(settings); err != nil {
		return domain.Settings{}, zerr.With(err, "path", configPath)
	}
	return settings, nil
}

// Candidates lists the discovery locations in priority order.
func (l *Loader) Candidates() []string {
	var dirs []string
	if home, err := l.home(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", domain.ConfigDirName))
	}
	if l.systemDir != "" {
		dirs = append(dirs, l.systemDir)
	}

	candidates := make([]string, 0, len(dirs)*len(extensions))
	for _, dir := range dirs {
		for _, ext := range extensions {
			candidates = append(candidates, filepath.Join(dir, domain.ConfigBaseName+ext))
		}
	}
	return candidates
}

func (l *Loader) find(explicit string) (string, error) {
	if explicit == "" {
		explicit = l.getenv(domain.ConfigEnvVar)
	}

	if explicit != "" {
		expanded, err := homedir.Expand(explicit)
		if err != nil {
			return "", zerr.With(domain.Wrap(err, domain.ErrConfigNotFound), "path", explicit)
		}
		if _, err := l.fs.Stat(expanded); err != nil {
			return "", zerr.With(domain.Wrap(err, domain.ErrConfigNotFound), "path", expanded)
		}
		return expanded, nil
	}

	for _, candidate := range l.Candidates() {
		if _, err := l.fs.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func (l *Loader) decode(configPath string, file *File) error {
	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		return domain.Wrap(err, domain.ErrConfigInvalid)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(file); err != nil {
			return domain.Wrap(err, domain.ErrConfigInvalid)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
			return domain.Wrap(err, domain.ErrConfigInvalid)
		}
	}
	return nil
}

// Defaults returns the built-in settings for the running operating system.
func Defaults() domain.Settings {
	settings := domain.DefaultSettings()
	if runtime.GOOS == "windows" {
		settings.StateDir = filepath.Join(programData(), domain.ConfigDirName)
	}
	return settings
}

func defaultSystemDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(programData(), domain.ConfigDirName)
	}
	return filepath.Join("/etc", domain.ConfigDirName)
}

func programData() string {
	if dir := os.Getenv("ProgramData"); dir != "" {
		return dir
	}
	return `C:\ProgramData`
}

func apply(s *domain.Settings, f *File) error {
	setString(&s.Package, f.Package)
	setString(&s.Product, f.Product)
	setString(&s.StateDir, f.StateDir)
	setString(&s.Platform, f.Platform)
	setString(&s.VersionFile, f.VersionFile)

	setString(&s.Catalog.StableURL, f.Catalog.StableURL)
	setString(&s.Catalog.NightlyURL, f.Catalog.NightlyURL)

	setString(&s.Services.Managed, f.Services.Managed)
	if f.Services.Blocking != nil {
		s.Services.Blocking = f.Services.Blocking
	}

	if f.Install.LockRetries != nil {
		s.Install.LockRetries = *f.Install.LockRetries
	}
	if f.Install.StopChecks != nil {
		s.Install.StopChecks = *f.Install.StopChecks
	}
	if f.Install.AllowMajorSkip != nil {
		s.Install.AllowMajorSkip = *f.Install.AllowMajorSkip
	}

	if f.Log.JSON != nil {
		s.Log.JSON = *f.Log.JSON
	}
	setString(&s.Log.Level, f.Log.Level)

	durations := []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"catalog.timeout", f.Catalog.Timeout, &s.Catalog.Timeout},
		{"catalog.cache_ttl", f.Catalog.CacheTTL, &s.Catalog.CacheTTL},
		{"install.lock_backoff", f.Install.LockBackoff, &s.Install.LockBackoff},
		{"install.lock_backoff_max", f.Install.LockBackoffMax, &s.Install.LockBackoffMax},
		{"install.stop_interval", f.Install.StopInterval, &s.Install.StopInterval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return zerr.With(domain.Wrap(err, domain.ErrConfigInvalid), "field", d.field)
		}
		*d.dst = v
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks the invariants every component relies on.
func Validate(s domain.Settings) error {
	invalid := func(field string, value any) error {
		return zerr.With(domain.With(domain.ErrConfigInvalid, "field", field), "value", value)
	}

	switch {
	case s.Package == "":
		return invalid("package", s.Package)
	case s.StateDir == "":
		return invalid("state_dir", s.StateDir)
	case s.Catalog.StableURL == "":
		return invalid("catalog.stable_url", s.Catalog.StableURL)
	case s.Catalog.NightlyURL == "":
		return invalid("catalog.nightly_url", s.Catalog.NightlyURL)
	case s.Catalog.Timeout <= 0:
		return invalid("catalog.timeout", s.Catalog.Timeout.String())
	case s.Catalog.CacheTTL < 0:
		return invalid("catalog.cache_ttl", s.Catalog.CacheTTL.String())
	case s.Install.LockRetries < 0:
		return invalid("install.lock_retries", s.Install.LockRetries)
	case s.Install.LockBackoff < 0:
		return invalid("install.lock_backoff", s.Install.LockBackoff.String())
	case s.Install.LockBackoffMax < s.Install.LockBackoff:
		return invalid("install.lock_backoff_max", s.Install.LockBackoffMax.String())
	case s.Install.StopChecks < 1:
		return invalid("install.stop_checks", s.Install.StopChecks)
	case s.Install.StopInterval <= 0:
		return invalid("install.stop_interval", s.Install.StopInterval.String())
	}

	for _, name := range s.Services.Blocking {
		if strings.TrimSpace(name) == "" {
			return invalid("services.blocking", s.Services.Blocking)
		}
	}
	return nil
}
