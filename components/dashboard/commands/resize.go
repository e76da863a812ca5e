package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// ResizeInput carries the measured container sizes. A zero size keeps the
// previous measurement.
type ResizeInput struct {
	SessionID string
	Main      dashboard.Size
	Secondary dashboard.Size
}

type resizeService interface {
	Resize(ctx context.Context, sessionID string, main, secondary dashboard.Size) (dashboard.View, error)
}

// ResizeCommand rebuilds a session's charts after a window resize.
type ResizeCommand struct {
	service   resizeService
	telemetry Telemetry
}

// NewResizeCommand creates the command.
func NewResizeCommand(service resizeService, telemetry Telemetry) *ResizeCommand {
	return &ResizeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResizeInput] = (*ResizeCommand)(nil)

// Execute delegates to the dashboard service.
func (c *ResizeCommand) Execute(ctx context.Context, msg ResizeInput) error {
	if c.service == nil {
		return errors.New("resize command requires service")
	}
	if !msg.Main.Valid() && !msg.Secondary.Valid() {
		return errors.New("resize command requires at least one size")
	}
	if _, err := c.service.Resize(ctx, msg.SessionID, msg.Main, msg.Secondary); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.resize", map[string]any{
		"session_id":       msg.SessionID,
		"main_width":       msg.Main.Width,
		"main_height":      msg.Main.Height,
		"secondary_width":  msg.Secondary.Width,
		"secondary_height": msg.Secondary.Height,
	})
	return nil
}
