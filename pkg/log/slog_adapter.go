package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.Entity != "" {
		attrs = append(attrs, slog.String("entity", event.Entity))
	}

	// Add type-specific attributes
	switch {
	case event.Query != nil:
		attrs = append(attrs,
			slog.String("request_id", event.Query.RequestID),
			slog.String("kind", event.Query.Kind),
		)
		if event.Query.Node != "" {
			attrs = append(attrs, slog.String("node", event.Query.Node))
		}
		if event.Query.Identities > 0 {
			attrs = append(attrs, slog.Int("identities", event.Query.Identities))
		}
		if event.Query.Features > 0 {
			attrs = append(attrs, slog.Int("features", event.Query.Features))
		}
		if event.Query.Items > 0 {
			attrs = append(attrs, slog.Int("items", event.Query.Items))
		}
	case event.Probe != nil:
		attrs = append(attrs,
			slog.String("algo", event.Probe.Algo),
			slog.String("ver", event.Probe.Ver),
			slog.String("outcome", event.Probe.Outcome.String()),
		)
		if event.Probe.Node != "" {
			attrs = append(attrs, slog.String("node", event.Probe.Node))
		}
		if event.Probe.Candidates > 0 {
			attrs = append(attrs, slog.Int("candidates", event.Probe.Candidates))
		}
	case event.Cache != nil:
		attrs = append(attrs,
			slog.String("op", event.Cache.Op.String()),
			slog.String("kind", event.Cache.Kind),
		)
		if event.Cache.Node != "" {
			attrs = append(attrs, slog.String("node", event.Cache.Node))
		}
	case event.Presence != nil:
		if event.Presence.Legacy {
			attrs = append(attrs, slog.Bool("legacy", true))
		} else {
			attrs = append(attrs,
				slog.String("algo", event.Presence.Algo),
				slog.String("ver", event.Presence.Ver),
			)
		}
		if event.Presence.Node != "" {
			attrs = append(attrs, slog.String("node", event.Presence.Node))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
		if event.Error.Condition != "" {
			attrs = append(attrs, slog.String("condition", event.Error.Condition))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
