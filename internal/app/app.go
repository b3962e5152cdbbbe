// Package app implements the task operations of agentup.
package app

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/agentup/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// App runs the version and install tasks against the local host.
type App struct {
	platform   ports.PlatformDetector
	state      ports.StateReader
	catalog    ports.Catalog
	reconciler *reconciler.Reconciler
	logger     ports.Logger
	tracer     ports.Tracer
}

// New creates a new App instance.
func New(
	platform ports.PlatformDetector,
	state ports.StateReader,
	catalog ports.Catalog,
	rec *reconciler.Reconciler,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		platform:   platform,
		state:      state,
		catalog:    catalog,
		reconciler: rec,
		logger:     log,
		tracer:     tracer,
	}
}

// InstallOptions are the parameters of the install task.
type InstallOptions struct {
	Collection     string
	Version        string
	StopService    bool
	AllowMajorSkip bool
}

// Version reports the installed agent version and where it was read from.
// Both fields are null when the agent is not installed.
func (a *App) Version(ctx context.Context) domain.TaskResult {
	ctx, span := a.tracer.Start(ctx, "task.version")
	defer span.End()

	platform, err := a.platform.Detect(ctx)
	if err != nil {
		span.RecordError(err)
		return a.fail(err)
	}

	installed, err := a.state.Read(ctx, platform)
	if err != nil {
		span.RecordError(err)
		return a.fail(err)
	}

	result := map[string]any{"version": nil, "source": nil}
	if installed.Present {
		if installed.Version != nil {
			result["version"] = domain.FormatVersion(installed.Version)
		}
		if installed.Source != "" {
			result["source"] = installed.Source
		}
	}
	return domain.Success(result)
}

// Install reconciles the agent package with the requested collection and version.
func (a *App) Install(ctx context.Context, opts InstallOptions) domain.TaskResult {
	req, err := domain.NewVersionRequest(opts.Collection, opts.Version)
	if err != nil {
		return a.fail(err)
	}

	platform, err := a.platform.Detect(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.logger.Debug("detected platform", "platform", platform.String())

	out, err := a.reconciler.Reconcile(ctx, platform, req, reconciler.Options{
		StopService:    opts.StopService,
		AllowMajorSkip: opts.AllowMajorSkip,
	})
	if err != nil {
		return a.fail(err)
	}
	return domain.Output(out.Decision.Reason)
}

// Versions lists the catalog versions of collection available for this host, newest first.
func (a *App) Versions(ctx context.Context, collection string) ([]domain.ResolvedVersion, error) {
	c, err := domain.ParseCollection(collection)
	if err != nil {
		return nil, err
	}

	platform, err := a.platform.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return a.catalog.List(ctx, c, platform)
}

// Platform returns the detected host platform.
func (a *App) Platform(ctx context.Context) (domain.Platform, error) {
	return a.platform.Detect(ctx)
}

// Task runs a task by name with Bolt-style parameters.
func (a *App) Task(ctx context.Context, name string, params TaskParams) domain.TaskResult {
	switch name {
	case "version":
		return a.Version(ctx)
	case "install":
		if params.Collection == "" {
			return a.fail(zerr.With(zerr.Wrap(domain.ErrInvalidParameters, "collection is required"), "parameter", "collection"))
		}
		return a.Install(ctx, InstallOptions{
			Collection:     params.Collection,
			Version:        params.Version,
			StopService:    params.StopService,
			AllowMajorSkip: params.AllowMajorSkip,
		})
	default:
		return a.fail(domain.With(domain.ErrUnknownTask, "task", name))
	}
}

func (a *App) fail(err error) domain.TaskResult {
	a.logger.Error(err)
	return domain.Failure(err)
}
