package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// NavigateTimeFrameInput moves a session's time frame one step.
type NavigateTimeFrameInput struct {
	SessionID string
	Direction string
}

type timeFrameService interface {
	NavigateTimeFrame(ctx context.Context, sessionID string, dir dashboard.Direction) (dashboard.View, error)
}

// NavigateTimeFrameCommand backs the prev/next buttons.
type NavigateTimeFrameCommand struct {
	service   timeFrameService
	telemetry Telemetry
}

// NewNavigateTimeFrameCommand creates the command.
func NewNavigateTimeFrameCommand(service timeFrameService, telemetry Telemetry) *NavigateTimeFrameCommand {
	return &NavigateTimeFrameCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateTimeFrameInput] = (*NavigateTimeFrameCommand)(nil)

// Execute parses the direction and steps the session.
func (c *NavigateTimeFrameCommand) Execute(ctx context.Context, msg NavigateTimeFrameInput) error {
	if c.service == nil {
		return errors.New("navigate command requires service")
	}
	dir, err := dashboard.ParseDirection(msg.Direction)
	if err != nil {
		return err
	}
	view, err := c.service.NavigateTimeFrame(ctx, msg.SessionID, dir)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.timeframe", map[string]any{
		"session_id": msg.SessionID,
		"direction":  string(dir),
		"timeframe":  view.TimeFrame,
	})
	return nil
}
