//go:build windows

package service

import "go.trai.ch/agentup/internal/core/ports"

func newNative(logger ports.Logger) (ports.ServiceManager, bool) {
	return NewSCM(logger), true
}
