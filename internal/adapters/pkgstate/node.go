package pkgstate

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/adapters/logger"
	"go.trai.ch/agentup/internal/adapters/shell"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the installed-state reader Graft node.
const NodeID graft.ID = "adapter.pkgstate"

func init() {
	graft.Register(graft.Node[ports.StateReader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.StateReader, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewReader(settings.Package, settings.VersionFile, runner, log), nil
		},
	})
}
