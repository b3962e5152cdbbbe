package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/agentup/internal/core/domain"
)

func TestPlatform_Key(t *testing.T) {
	tests := []struct {
		platform domain.Platform
		want     string
	}{
		{domain.Platform{Family: domain.FamilyRPM, Distro: "el", Version: "8", Arch: "x86_64"}, "el-8-x86_64"},
		{domain.Platform{Family: domain.FamilyDeb, Distro: "ubuntu", Version: "20.04", Arch: "amd64"}, "ubuntu-20.04-amd64"},
		{domain.Platform{Family: domain.FamilyWindows, Distro: "windows", Version: "2019", Arch: "x64"}, "windows-x64"},
		{domain.Platform{Family: domain.FamilyMacOS, Distro: "osx", Version: "10.15", Arch: "x86_64"}, "osx-10.15-x86_64"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.platform.Key())
		})
	}
}

func TestFamily(t *testing.T) {
	assert.True(t, domain.FamilyWindows.RequiresStoppedServices())
	assert.False(t, domain.FamilyDeb.RequiresStoppedServices())
	assert.False(t, domain.FamilyRPM.RequiresStoppedServices())
	assert.Equal(t, "linux-rpm", domain.FamilyRPM.String())
	assert.Equal(t, "unknown", domain.FamilyUnknown.String())
}

func TestDecision(t *testing.T) {
	from, _ := domain.ParseExactVersion("6.19.1")
	to, _ := domain.ParseExactVersion("6.4.2")

	down := domain.Decision{Action: domain.ActionUpgrade, From: from, To: &domain.ResolvedVersion{Version: to}}
	assert.True(t, down.Mutates())
	assert.True(t, down.Downgrade())

	degraded := domain.Decision{Action: domain.ActionUpgrade, To: &domain.ResolvedVersion{Version: to}}
	assert.False(t, degraded.Downgrade())

	assert.False(t, domain.Decision{Action: domain.ActionNoOp}.Mutates())
	assert.Equal(t, "upgrade", domain.ActionUpgrade.String())
}

func TestInstalledState(t *testing.T) {
	v, _ := domain.ParseExactVersion("5.5.3")

	assert.False(t, domain.NotInstalled("dpkg-query").Present)
	assert.True(t, domain.InstalledState{Present: true}.Degraded())
	assert.False(t, domain.InstalledState{Present: true, Version: v}.Degraded())
	assert.True(t, domain.ServiceRunning.Blocking())
	assert.False(t, domain.ServiceNotFound.Blocking())
}
