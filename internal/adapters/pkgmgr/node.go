package pkgmgr

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/adapters/fetch"
	"go.trai.ch/agentup/internal/adapters/logger"
	"go.trai.ch/agentup/internal/adapters/shell"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the installer factory Graft node.
const NodeID graft.ID = "adapter.pkgmgr"

func init() {
	graft.Register(graft.Node[ports.InstallerFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, shell.NodeID, fetch.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.InstallerFactory, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(settings, runner, fetcher, log), nil
		},
	})
}
