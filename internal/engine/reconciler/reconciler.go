// Package reconciler converges the installed agent package on a requested version.
package reconciler

import (
	"context"
	"time"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options are the per-run switches of an install.
type Options struct {
	// StopService stops the managed service after a successful install or upgrade.
	StopService bool
	// AllowMajorSkip permits upgrades across more than one major version.
	AllowMajorSkip bool
}

// Outcome is what a reconcile run did.
type Outcome struct {
	Decision  domain.Decision
	Installed domain.InstalledState
	// ServiceStopped is set when the managed service was stopped and verified.
	ServiceStopped bool
}

// Reconciler decides and performs the package action for one host.
type Reconciler struct {
	catalog   ports.Catalog
	state     ports.StateReader
	installer ports.InstallerFactory
	services  ports.ServiceManager
	logger    ports.Logger
	tracer    ports.Tracer
	settings  domain.Settings
	wait      func(ctx context.Context, d time.Duration) error
}

// New creates a Reconciler with the given dependencies.
func New(
	catalog ports.Catalog,
	state ports.StateReader,
	installer ports.InstallerFactory,
	services ports.ServiceManager,
	logger ports.Logger,
	tracer ports.Tracer,
	settings domain.Settings,
) *Reconciler {
	return &Reconciler{
		catalog:   catalog,
		state:     state,
		installer: installer,
		services:  services,
		logger:    logger,
		tracer:    tracer,
		settings:  settings,
		wait:      sleep,
	}
}

// Reconcile brings the agent on platform to the requested state.
// It reads the installed state, resolves the request, decides, gates on
// running services, installs, verifies and optionally stops the service.
// Cancellation aborts at the next blocking call; nothing is rolled back.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	platform domain.Platform,
	req domain.VersionRequest,
	opts Options,
) (out Outcome, err error) {
	ctx, span := r.tracer.Start(ctx, "reconcile",
		ports.WithAttribute("collection", req.Collection.String()),
		ports.WithAttribute("platform", platform.Key()),
		ports.WithAttribute("stop_service", opts.StopService),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	installed, err := r.readState(ctx, "reconcile.read_state", platform)
	if err != nil {
		return Outcome{}, err
	}
	out.Installed = installed

	decision, err := r.decide(ctx, platform, installed, req, opts)
	if err != nil {
		return out, err
	}
	out.Decision = decision
	span.SetAttribute("action", decision.Action.String())

	if !decision.Mutates() {
		r.logger.Info(decision.Reason)
		return out, nil
	}

	if decision.Downgrade() {
		r.logger.Warn("downgrading agent", "from", domain.FormatVersion(decision.From), "to", decision.To.String())
	}

	if platform.Family.RequiresStoppedServices() {
		if err := r.gate(ctx); err != nil {
			return out, err
		}
	}

	if err := r.install(ctx, platform, decision); err != nil {
		if ctx.Err() != nil {
			r.logger.Warn("install interrupted, the package may be partially installed")
		}
		return out, err
	}

	verified, err := r.verify(ctx, platform, decision)
	if err != nil {
		return out, err
	}
	out.Installed = verified
	r.logger.Info(decision.Reason)

	if opts.StopService {
		if err := r.stopService(ctx); err != nil {
			return out, err
		}
		out.ServiceStopped = true
	}
	return out, nil
}

func (r *Reconciler) readState(ctx context.Context, phase string, platform domain.Platform) (domain.InstalledState, error) {
	ctx, span := r.tracer.Start(ctx, phase)
	defer span.End()

	installed, err := r.state.Read(ctx, platform)
	if err != nil {
		span.RecordError(err)
		return domain.InstalledState{}, err
	}
	span.SetAttribute("present", installed.Present)
	if installed.Version != nil {
		span.SetAttribute("version", domain.FormatVersion(installed.Version))
	}
	return installed, nil
}

func (r *Reconciler) decide(
	ctx context.Context,
	platform domain.Platform,
	installed domain.InstalledState,
	req domain.VersionRequest,
	opts Options,
) (domain.Decision, error) {
	if d, ok := preResolve(installed, req, r.settings.Product); ok {
		return d, nil
	}

	ctx, span := r.tracer.Start(ctx, "reconcile.resolve")
	resolved, err := r.catalog.Resolve(ctx, req, platform)
	if err != nil {
		span.RecordError(err)
		span.End()
		return domain.Decision{}, err
	}
	span.SetAttribute("resolved", resolved.String())
	span.End()

	allowSkip := opts.AllowMajorSkip || r.settings.Install.AllowMajorSkip
	return Decide(installed, req, resolved, r.settings.Product, allowSkip)
}

// gate fails when any blocking service is running. Services are queried concurrently.
func (r *Reconciler) gate(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "reconcile.gate")
	defer span.End()

	names := r.settings.Services.Blocking
	statuses := make([]domain.ServiceStatus, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			status, err := r.services.Status(gctx, name)
			if err != nil {
				return err
			}
			statuses[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	for i, name := range names {
		r.logger.Debug("service state", "service", name, "status", statuses[i].String())
		if statuses[i].Blocking() {
			err := zerr.With(zerr.Wrap(domain.ErrServiceRunning, "service "+name+" is running"), "service", name)
			span.RecordError(err)
			return err
		}
	}
	return nil
}

func (r *Reconciler) install(ctx context.Context, platform domain.Platform, decision domain.Decision) error {
	ctx, span := r.tracer.Start(ctx, "reconcile.install",
		ports.WithAttribute("action", decision.Action.String()),
		ports.WithAttribute("dialect", string(platform.Dialect)),
		ports.WithAttribute("to", decision.To.String()),
	)
	defer span.End()

	inst, err := r.installer.For(platform)
	if err != nil {
		span.RecordError(err)
		return err
	}

	r.logger.Info("installing agent", "action", decision.Action.String(), "version", decision.To.String(), "dialect", string(platform.Dialect))
	if err := inst.Install(ctx, decision); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// verify re-reads the installed state and checks it against the target.
func (r *Reconciler) verify(ctx context.Context, platform domain.Platform, decision domain.Decision) (domain.InstalledState, error) {
	installed, err := r.readState(ctx, "reconcile.verify", platform)
	if err != nil {
		return domain.InstalledState{}, domain.Wrap(err, domain.ErrVerificationFailed)
	}
	if installed.Present && matchesTarget(installed.Version, decision.To.Version) {
		return installed, nil
	}

	actual := "absent"
	if installed.Present {
		actual = domain.FormatVersion(installed.Version)
		if actual == "" {
			actual = "unknown"
		}
	}
	err = domain.With(domain.ErrVerificationFailed, "expected", decision.To.String())
	return installed, zerr.With(err, "actual", actual)
}

// stopService stops the managed service and polls until it is down.
func (r *Reconciler) stopService(ctx context.Context) error {
	name := r.settings.Services.Managed
	ctx, span := r.tracer.Start(ctx, "reconcile.stop_service", ports.WithAttribute("service", name))
	defer span.End()

	if err := r.services.Stop(ctx, name); err != nil {
		span.RecordError(err)
		return err
	}

	checks := max(r.settings.Install.StopChecks, 1)
	last := domain.ServiceUnknown
	for attempt := range checks {
		status, err := r.services.Status(ctx, name)
		if err != nil {
			span.RecordError(err)
			return zerr.With(domain.Wrap(err, domain.ErrServiceStopFailed), "service", name)
		}
		last = status
		if status == domain.ServiceStopped || status == domain.ServiceNotFound {
			r.logger.Info("service stopped", "service", name)
			return nil
		}
		if attempt < checks-1 {
			if err := r.wait(ctx, r.settings.Install.StopInterval); err != nil {
				return zerr.With(domain.Wrap(err, domain.ErrServiceStopFailed), "service", name)
			}
		}
	}

	err := domain.With(domain.ErrServiceStopFailed, "service", name)
	err = zerr.With(err, "status", last.String())
	err = zerr.With(err, "checks", checks)
	span.RecordError(err)
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
