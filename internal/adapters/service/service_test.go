package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/agentup/internal/adapters/service"
)

func TestForOS(t *testing.T) {
	runner, log := newMocks(t)

	assert.IsType(t, &service.Launchd{}, service.ForOS("darwin", runner, log))
	assert.IsType(t, &service.SMF{}, service.ForOS("solaris", runner, log))
	assert.IsType(t, &service.SMF{}, service.ForOS("illumos", runner, log))
	assert.IsType(t, &service.SysV{}, service.ForOS("linux", runner, log))
	assert.IsType(t, &service.SysV{}, service.ForOS("freebsd", runner, log))
}
