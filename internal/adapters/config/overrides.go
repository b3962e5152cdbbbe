package config

import (
	"context"

	"go.trai.ch/agentup/internal/core/domain"
)

// Overrides are the global command-line flags that take precedence over the file.
type Overrides struct {
	ConfigPath string
	Platform   string
	LogJSON    bool
	Verbose    bool
}

type overridesKey struct{}

// WithOverrides attaches bootstrap overrides to the context the graph is built with.
func WithOverrides(ctx context.Context, o Overrides) context.Context {
	return context.WithValue(ctx, overridesKey{}, o)
}

// OverridesFrom returns the overrides attached to ctx, or none.
func OverridesFrom(ctx context.Context) Overrides {
	o, _ := ctx.Value(overridesKey{}).(Overrides)
	return o
}

// Apply returns s with the overrides applied.
func (o Overrides) Apply(s domain.Settings) domain.Settings {
	if o.Platform != "" {
		s.Platform = o.Platform
	}
	if o.LogJSON {
		s.Log.JSON = true
	}
	if o.Verbose {
		s.Log.Level = "debug"
	}
	return s
}
