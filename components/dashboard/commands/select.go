package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// SelectChartInput activates a secondary chart.
type SelectChartInput struct {
	SessionID string
	ChartID   string
}

type selectService interface {
	SelectChart(ctx context.Context, sessionID, chartID string) (dashboard.View, error)
}

// SelectChartCommand backs the chart selector buttons.
type SelectChartCommand struct {
	service   selectService
	telemetry Telemetry
}

// NewSelectChartCommand creates the command.
func NewSelectChartCommand(service selectService, telemetry Telemetry) *SelectChartCommand {
	return &SelectChartCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectChartInput] = (*SelectChartCommand)(nil)

// Execute delegates to the dashboard service.
func (c *SelectChartCommand) Execute(ctx context.Context, msg SelectChartInput) error {
	if c.service == nil {
		return errors.New("select command requires service")
	}
	if msg.ChartID == "" {
		return errors.New("select command requires chart id")
	}
	view, err := c.service.SelectChart(ctx, msg.SessionID, msg.ChartID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.select", map[string]any{
		"session_id": msg.SessionID,
		"chart_id":   view.Active,
	})
	return nil
}
