package reconciler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/catalog"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/adapters/pkgmgr"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/adapters/pkgstate"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/adapters/service"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

// NodeID is the unique identifier for the reconciler Graft node.
const NodeID graft.ID = "engine.reconciler"

func init() {
	graft.Register(graft.Node[*Reconciler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			pkgstate.NodeID,
			pkgmgr.NodeID,
			service.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Reconciler, error) {
			cat, err := graft.Dep[ports.Catalog](ctx)
			if err != nil {
				return nil, err
			}

			state, err := graft.Dep[ports.StateReader](ctx)
			if err != nil {
				return nil, err
			}

			installers, err := graft.Dep[ports.InstallerFactory](ctx)
			if err != nil {
				return nil, err
			}

			services, err := graft.Dep[ports.ServiceManager](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return New(cat, state, installers, services, log, tracer, settings), nil
		},
	})
}
