package catalog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/adapters/logger"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the catalog Graft node.
const NodeID graft.ID = "adapter.catalog"

func init() {
	graft.Register(graft.Node[ports.Catalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Catalog, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings, log), nil
		},
	})
}
