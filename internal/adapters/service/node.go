package service

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/logger"
	"go.trai.ch/agentup/internal/adapters/shell"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the service manager Graft node.
const NodeID graft.ID = "adapter.service"

func init() {
	graft.Register(graft.Node[ports.ServiceManager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ServiceManager, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner, log), nil
		},
	})
}
