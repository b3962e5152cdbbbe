package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/catalog"   //nolint:depguard // Wired in app layer
	"go.trai.ch/agentup/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/agentup/internal/adapters/pkgstate"  //nolint:depguard // Wired in app layer
	"go.trai.ch/agentup/internal/adapters/platform"  //nolint:depguard // Wired in app layer
	"go.trai.ch/agentup/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/agentup/internal/engine/reconciler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the application with the adapters main needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
	Tracer ports.Tracer
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			platform.NodeID,
			pkgstate.NodeID,
			catalog.NodeID,
			reconciler.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	detector, err := graft.Dep[ports.PlatformDetector](ctx)
	if err != nil {
		return nil, err
	}

	state, err := graft.Dep[ports.StateReader](ctx)
	if err != nil {
		return nil, err
	}

	cat, err := graft.Dep[ports.Catalog](ctx)
	if err != nil {
		return nil, err
	}

	rec, err := graft.Dep[*reconciler.Reconciler](ctx)
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

	return New(detector, state, cat, rec, log, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
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

	return &Components{
		App:    app,
		Logger: log,
		Tracer: tracer,
	}, nil
}
