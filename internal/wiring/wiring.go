// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/agentup/internal/adapters/catalog"
	_ "go.trai.ch/agentup/internal/adapters/config"
	_ "go.trai.ch/agentup/internal/adapters/fetch"
	_ "go.trai.ch/agentup/internal/adapters/logger"
	_ "go.trai.ch/agentup/internal/adapters/pkgmgr"
	_ "go.trai.ch/agentup/internal/adapters/pkgstate"
	_ "go.trai.ch/agentup/internal/adapters/platform"
	_ "go.trai.ch/agentup/internal/adapters/service"
	_ "go.trai.ch/agentup/internal/adapters/shell"
	_ "go.trai.ch/agentup/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/agentup/internal/app"
	_ "go.trai.ch/agentup/internal/engine/reconciler"
)
