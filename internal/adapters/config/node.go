package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config"
	// SettingsNodeID is the unique identifier for the resolved settings Graft node.
	SettingsNodeID graft.ID = "adapter.config.settings"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.ConfigLoader, error) {
			return NewLoader(), nil
		},
	})

	// Settings depend on the flags of the current invocation, so they are never cached.
	graft.Register(graft.Node[domain.Settings]{
		ID:        SettingsNodeID,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (domain.Settings, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return domain.Settings{}, err
			}

			overrides := OverridesFrom(ctx)
			settings, err := loader.Load(overrides.ConfigPath)
			if err != nil {
				return domain.Settings{}, err
			}
			return overrides.Apply(settings), nil
		},
	})
}
