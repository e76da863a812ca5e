package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-stationboard/pkg/config"
)

type globals struct {
	Config   string `type:"path" help:"Path to a stationboard YAML config file."`
	Dataset  string `type:"path" help:"Override dataset.path (and ignore dataset.url)."`
	Manifest string `type:"path" help:"Override the chart manifest."`
}

type cli struct {
	globals

	Serve    serveCmd    `cmd:"" help:"Serve the station statistics dashboard over HTTP."`
	Render   renderCmd   `cmd:"" help:"Render charts to SVG, ECharts HTML or PNG files."`
	Validate validateCmd `cmd:"" help:"Validate a dataset file and an optional chart manifest."`
	Export   exportCmd   `cmd:"" help:"Export the dataset as an XLSX workbook, one sheet per time frame."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("stationboard"),
		kong.Description("Station statistics dashboard."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(&c.globals),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}

func (g *globals) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.Dataset != "" {
		cfg.Dataset.Path = g.Dataset
		cfg.Dataset.URL = ""
	}
	if g.Manifest != "" {
		cfg.Manifest = g.Manifest
	}
	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
