package dashboard

import (
	"context"
	"errors"
	"log/slog"
)

// MultiRefreshHook forwards events to every hook and joins their errors.
type MultiRefreshHook []RefreshHook

// ViewUpdated implements RefreshHook.
func (hooks MultiRefreshHook) ViewUpdated(ctx context.Context, event DashboardEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.ViewUpdated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogRefreshHook writes a debug record per event.
type LogRefreshHook struct {
	Logger *slog.Logger
}

// ViewUpdated implements RefreshHook.
func (h LogRefreshHook) ViewUpdated(ctx context.Context, event DashboardEvent) error {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "dashboard view updated",
		slog.String("session_id", event.SessionID),
		slog.String("reason", event.Reason),
		slog.String("timeframe", event.TimeFrame),
		slog.String("active", event.Active),
		slog.Int("entered", event.Stats.Entered),
		slog.Int("updated", event.Stats.Updated),
		slog.Int("exited", event.Stats.Exited),
	)
	return nil
}
