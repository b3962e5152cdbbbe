package platform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/adapters/shell"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the platform detector Graft node.
const NodeID graft.ID = "adapter.platform"

func init() {
	graft.Register(graft.Node[ports.PlatformDetector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, shell.NodeID},
		Run: func(ctx context.Context) (ports.PlatformDetector, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewDetector(settings.Platform, NewFactGatherer(runner)), nil
		},
	})
}
