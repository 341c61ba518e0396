package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful during development to see agent activity on the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter that writes to logger at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("agent_id", event.AgentID),
		slog.String("category", event.Category.String()),
	}
	if event.AgentName != "" {
		attrs = append(attrs, slog.String("agent", event.AgentName))
	}

	switch {
	case event.Change != nil:
		attrs = append(attrs,
			slog.Any("old", event.Change.Old),
			slog.Any("new", event.Change.New),
			slog.Int("notified", event.Change.Notified),
		)
		if event.Change.ExcludeID != 0 {
			attrs = append(attrs,
				slog.Uint64("exclude_id", uint64(event.Change.ExcludeID)),
				slog.Bool("excluded", event.Change.Excluded),
			)
		}
	case event.Subscription != nil:
		attrs = append(attrs,
			slog.String("action", event.Subscription.Action.String()),
			slog.Int("remaining", event.Subscription.Remaining),
		)
		if event.Subscription.SubscriptionID != 0 {
			attrs = append(attrs, slog.Uint64("subscription_id", uint64(event.Subscription.SubscriptionID)))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "agent", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
