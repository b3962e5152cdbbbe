//go:build !linux && !windows

package service

import "go.trai.ch/agentup/internal/core/ports"

func newNative(ports.Logger) (ports.ServiceManager, bool) {
	return nil, false
}
