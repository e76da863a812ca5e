package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// LoadDatasetInput controls start-up.
type LoadDatasetInput struct {
	ManifestPath string
	Prerender    bool
	Locale       string
}

// LoadDatasetCommand loads the chart manifest and the station dataset.
type LoadDatasetCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

// NewLoadDatasetCommand wires dependencies.
func NewLoadDatasetCommand(service *dashboard.Service, telemetry Telemetry) *LoadDatasetCommand {
	return &LoadDatasetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadDatasetInput] = (*LoadDatasetCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *LoadDatasetCommand) Execute(ctx context.Context, msg LoadDatasetInput) error {
	if c.service == nil {
		return errors.New("load command requires service")
	}
	if err := dashboard.Bootstrap(ctx, c.service, dashboard.BootstrapOptions{
		ManifestPath: msg.ManifestPath,
		Prerender:    msg.Prerender,
		Locale:       msg.Locale,
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.load", map[string]any{
		"manifest":  msg.ManifestPath,
		"prerender": msg.Prerender,
	})
	return nil
}
