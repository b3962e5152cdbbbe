package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/logger"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the artifact fetcher Graft node.
const NodeID graft.ID = "adapter.fetch"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFetcher(log), nil
		},
	})
}
