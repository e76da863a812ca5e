package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// PrerenderInput selects the charts to warm. Empty lists mean every chart or
// every time frame.
type PrerenderInput struct {
	ChartIDs   []string
	TimeFrames []dashboard.TimeFrame
	Locale     string
}

type prerenderService interface {
	Registry() *dashboard.Registry
	Prerender(ctx context.Context, reqs []dashboard.ChartRequest) ([]dashboard.ChartResult, error)
}

// PrerenderCommand fills the render cache ahead of requests.
type PrerenderCommand struct {
	service   prerenderService
	telemetry Telemetry
}

// NewPrerenderCommand creates the command.
func NewPrerenderCommand(service prerenderService, telemetry Telemetry) *PrerenderCommand {
	return &PrerenderCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PrerenderInput] = (*PrerenderCommand)(nil)

// Execute expands the input into chart requests and renders them.
func (c *PrerenderCommand) Execute(ctx context.Context, msg PrerenderInput) error {
	if c.service == nil {
		return errors.New("prerender command requires service")
	}
	ids := msg.ChartIDs
	if len(ids) == 0 {
		for _, desc := range c.service.Registry().Descriptors() {
			ids = append(ids, desc.ID)
		}
	}
	frames := msg.TimeFrames
	if len(frames) == 0 {
		frames = dashboard.TimeFrames()
	}
	reqs := make([]dashboard.ChartRequest, 0, len(ids)*len(frames))
	for _, id := range ids {
		for _, tf := range frames {
			reqs = append(reqs, dashboard.ChartRequest{ChartID: id, TimeFrame: tf, Locale: msg.Locale})
		}
	}
	results, err := c.service.Prerender(ctx, reqs)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.prerender", map[string]any{"charts": len(results)})
	return nil
}
