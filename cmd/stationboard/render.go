package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	core "github.com/goliatone/go-stationboard/components/dashboard"
	dashboardpkg "github.com/goliatone/go-stationboard/pkg/dashboard"
	"github.com/goliatone/go-stationboard/pkg/export"
)

type renderCmd struct {
	Chart     []string `help:"Chart ids to render (default: every chart)."`
	TimeFrame []string `name:"timeframe" help:"Time frames to render (default: all five)."`
	Format    string   `enum:"svg,echarts,png" default:"svg" help:"Output format."`
	Out       string   `type:"path" default:"charts" help:"Output directory."`
	Width     float64  `help:"Surface width (default: per chart)."`
	Height    float64  `help:"Surface height (default: per chart)."`
	Locale    string   `help:"Title and label locale (en, es)."`
	Limit     int      `default:"4" help:"Concurrent renders."`
}

func (cmd *renderCmd) Run(ctx context.Context, g *globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	app, err := dashboardpkg.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	written, err := cmd.render(ctx, app.Service)
	if err != nil {
		return err
	}
	printf("✓ Rendered %d %s files into %s\n", written, cmd.Format, cmd.Out)
	return nil
}

func (cmd *renderCmd) requests(service *core.Service) ([]core.ChartRequest, error) {
	registry := service.Registry()
	var descriptors []core.ChartDescriptor
	if len(cmd.Chart) == 0 {
		descriptors = registry.Descriptors()
	}
	for _, id := range cmd.Chart {
		desc, ok := registry.Descriptor(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownChart, id)
		}
		descriptors = append(descriptors, desc)
	}
	frames := core.TimeFrames()
	if len(cmd.TimeFrame) > 0 {
		frames = nil
		for _, value := range cmd.TimeFrame {
			tf, err := core.ParseTimeFrame(value)
			if err != nil {
				return nil, err
			}
			frames = append(frames, tf)
		}
	}
	var size core.Size
	if cmd.Width > 0 && cmd.Height > 0 {
		size = core.Size{Width: cmd.Width, Height: cmd.Height}
	}
	reqs := make([]core.ChartRequest, 0, len(descriptors)*len(frames))
	for _, desc := range descriptors {
		for _, tf := range frames {
			reqs = append(reqs, core.ChartRequest{ChartID: desc.ID, TimeFrame: tf, Size: size, Locale: cmd.Locale})
		}
	}
	return reqs, nil
}

func (cmd *renderCmd) render(ctx context.Context, service *core.Service) (int, error) {
	reqs, err := cmd.requests(service)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(cmd.Out, 0o755); err != nil {
		return 0, fmt.Errorf("stationboard: mkdir %s: %w", cmd.Out, err)
	}
	ds, err := service.Dataset()
	if err != nil {
		return 0, err
	}

	group, gctx := errgroup.WithContext(ctx)
	if cmd.Limit > 0 {
		group.SetLimit(cmd.Limit)
	}
	for _, req := range reqs {
		group.Go(func() error {
			path := filepath.Join(cmd.Out, fmt.Sprintf("%s-%s.%s", req.ChartID, req.TimeFrame, cmd.extension()))
			switch cmd.Format {
			case "png":
				desc, _ := service.Registry().Descriptor(req.ChartID)
				f, err := os.Create(path) //nolint:gosec
				if err != nil {
					return err
				}
				defer f.Close()
				return export.WritePNG(f, desc, ds, req.TimeFrame, export.PNGOptions{
					Width:  int(req.Size.Width),
					Height: int(req.Size.Height),
					Locale: req.Locale,
					Theme:  service.Theme(),
				})
			case "echarts":
				markup, err := service.RenderBackend(gctx, "echarts", req)
				if err != nil {
					return err
				}
				return os.WriteFile(path, []byte(markup), 0o644)
			default:
				result, err := service.RenderChart(gctx, req)
				if err != nil {
					return err
				}
				return os.WriteFile(path, []byte(result.SVG), 0o644)
			}
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}
	return len(reqs), nil
}

func (cmd *renderCmd) extension() string {
	if cmd.Format == "echarts" {
		return "html"
	}
	return cmd.Format
}
