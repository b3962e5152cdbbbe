package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/core/domain"
)

func newLoader(t *testing.T, home, system string, env map[string]string) *config.Loader {
	t.Helper()
	return config.NewLoader(
		config.WithHomeDir(func() (string, error) { return home, nil }),
		config.WithSystemDir(system),
		config.WithEnv(func(k string) string { return env[k] }),
	)
}

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_DefaultsWithoutFile(t *testing.T) {
	loader := newLoader(t, t.TempDir(), t.TempDir(), nil)

	settings, err := loader.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.Defaults(), settings)
	assert.Empty(t, settings.Source)
	assert.Equal(t, []string{"puppet", "pxp-agent"}, settings.Services.Blocking)
	assert.Equal(t, 5, settings.Install.LockRetries)
}

func TestLoader_YAML(t *testing.T) {
	home := t.TempDir()
	path := createFile(t, filepath.Join(home, ".config", "agentup"), "config.yaml", `
state_dir: /tmp/agentup
catalog:
  stable_url: file:///srv/catalog
  cache_ttl: 10m
services:
  blocking: [puppet]
install:
  lock_retries: 0
  allow_major_skip: true
log:
  json: true
  level: debug
`)
	loader := newLoader(t, home, t.TempDir(), nil)

	settings, err := loader.Load("")
	require.NoError(t, err)

	assert.Equal(t, path, settings.Source)
	assert.Equal(t, "/tmp/agentup", settings.StateDir)
	assert.Equal(t, "file:///srv/catalog", settings.Catalog.StableURL)
	assert.Equal(t, domain.DefaultNightlyCatalogURL, settings.Catalog.NightlyURL)
	assert.Equal(t, 10*time.Minute, settings.Catalog.CacheTTL)
	assert.Equal(t, []string{"puppet"}, settings.Services.Blocking)
	assert.Equal(t, 0, settings.Install.LockRetries)
	assert.True(t, settings.Install.AllowMajorSkip)
	assert.True(t, settings.Log.JSON)
	assert.Equal(t, "debug", settings.Log.Level)
}

func TestLoader_TOML(t *testing.T) {
	system := t.TempDir()
	createFile(t, system, "config.toml", `
platform = "el-8-x86_64"

[install]
stop_checks = 3
stop_interval = "250ms"
`)
	loader := newLoader(t, t.TempDir(), system, nil)

	settings, err := loader.Load("")
	require.NoError(t, err)

	assert.Equal(t, "el-8-x86_64", settings.Platform)
	assert.Equal(t, 3, settings.Install.StopChecks)
	assert.Equal(t, 250*time.Millisecond, settings.Install.StopInterval)
}

func TestLoader_DiscoveryOrder(t *testing.T) {
	home := t.TempDir()
	system := t.TempDir()
	createFile(t, filepath.Join(home, ".config", "agentup"), "config.yml", "product: home\n")
	createFile(t, system, "config.yaml", "product: system\n")

	settings, err := newLoader(t, home, system, nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, "home", settings.Product)

	envPath := createFile(t, t.TempDir(), "custom.yaml", "product: env\n")
	settings, err = newLoader(t, home, system, map[string]string{"AGENTUP_CONFIG": envPath}).Load("")
	require.NoError(t, err)
	assert.Equal(t, "env", settings.Product)

	flagPath := createFile(t, t.TempDir(), "flag.toml", "product = \"flag\"\n")
	settings, err = newLoader(t, home, system, map[string]string{"AGENTUP_CONFIG": envPath}).Load(flagPath)
	require.NoError(t, err)
	assert.Equal(t, "flag", settings.Product)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		field   string
	}{
		{name: "unknown yaml key", file: "c.yaml", content: "catalogue: {}\n"},
		{name: "unknown toml key", file: "c.toml", content: "catalogue = 1\n"},
		{name: "malformed yaml", file: "c.yaml", content: "catalog: [\n"},
		{name: "bad duration", file: "c.yaml", content: "catalog:\n  timeout: soon\n", field: "catalog.timeout"},
		{name: "negative retries", file: "c.yaml", content: "install:\n  lock_retries: -1\n", field: "install.lock_retries"},
		{name: "zero stop checks", file: "c.yaml", content: "install:\n  stop_checks: 0\n", field: "install.stop_checks"},
		{name: "backoff max below backoff", file: "c.yaml", content: "install:\n  lock_backoff: 10s\n  lock_backoff_max: 1s\n", field: "install.lock_backoff_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createFile(t, t.TempDir(), tt.file, tt.content)

			_, err := newLoader(t, t.TempDir(), t.TempDir(), nil).Load(path)
			require.Error(t, err)
			assert.True(t, domain.Matches(err, domain.ErrConfigInvalid), "got %v", err)
			assert.Equal(t, domain.KindConfigError, domain.KindOf(err))

			details := domain.Details(err)
			assert.Equal(t, path, details["path"])
			if tt.field != "" {
				assert.Equal(t, tt.field, details["field"])
			}
		})
	}
}

func TestLoader_ExplicitPathMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := newLoader(t, t.TempDir(), t.TempDir(), nil).Load(missing)
	require.Error(t, err)
	assert.True(t, domain.Matches(err, domain.ErrConfigNotFound))
	assert.Equal(t, missing, domain.Details(err)["path"])
}

func TestLoader_EmptyFile(t *testing.T) {
	path := createFile(t, t.TempDir(), "empty.yaml", "")

	settings, err := newLoader(t, t.TempDir(), t.TempDir(), nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, settings.Source)
	assert.Equal(t, domain.PackageName, settings.Package)
}

func TestOverrides_Apply(t *testing.T) {
	base := config.Defaults()

	got := config.Overrides{Platform: "ubuntu-20.04-amd64", LogJSON: true, Verbose: true}.Apply(base)

	assert.Equal(t, "ubuntu-20.04-amd64", got.Platform)
	assert.True(t, got.Log.JSON)
	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, base, config.Overrides{}.Apply(base))
}

func TestCandidates(t *testing.T) {
	loader := newLoader(t, "/home/op", "/etc/agentup", nil)

	assert.Equal(t, []string{
		filepath.Join("/home/op", ".config", "agentup", "config.yaml"),
		filepath.Join("/home/op", ".config", "agentup", "config.yml"),
		filepath.Join("/home/op", ".config", "agentup", "config.toml"),
		filepath.Join("/etc/agentup", "config.yaml"),
		filepath.Join("/etc/agentup", "config.yml"),
		filepath.Join("/etc/agentup", "config.toml"),
	}, loader.Candidates())
}
