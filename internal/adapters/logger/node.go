package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/adapters/detector"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return Configure(New(), settings.Log)
		},
	})
}

// Configure applies log settings to l, choosing JSON output when requested
// or when stderr is not an interactive terminal.
func Configure(l *Logger, settings domain.LogSettings) (*Logger, error) {
	level, err := ParseLevel(settings.Level)
	if err != nil {
		return nil, zerr.With(domain.Wrap(err, domain.ErrConfigInvalid), "field", "log.level")
	}
	l.SetLevel(level)

	format := detector.ResolveFormat(detector.DetectEnvironment(), settings.JSON)
	l.SetJSON(format == detector.FormatJSON)
	return l, nil
}
