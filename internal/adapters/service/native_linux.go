//go:build linux

package service

import (
	"github.com/coreos/go-systemd/v22/util"
	"go.trai.ch/agentup/internal/core/ports"
)

func newNative(logger ports.Logger) (ports.ServiceManager, bool) {
	if !util.IsRunningSystemd() {
		logger.Debug("systemd not detected, using init scripts")
		return nil, false
	}
	return NewSystemd(logger), true
}
