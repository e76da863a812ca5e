package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	core "github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/components/dashboard/gorouter"
	dashboardpkg "github.com/goliatone/go-stationboard/pkg/dashboard"
)

type serveCmd struct {
	Addr      string `help:"Listen address (overrides server.addr)."`
	BasePath  string `name:"base-path" help:"Route prefix (overrides server.base_path)."`
	Transport string `enum:",http,fiber" default:"" help:"http (net/http) or fiber (go-router)."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.BasePath != "" {
		cfg.Server.BasePath = cmd.BasePath
	}
	if cmd.Transport != "" {
		cfg.Server.Transport = cmd.Transport
	}

	app, err := dashboardpkg.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil && !errors.Is(err, core.ErrDatasetLoad) {
		return err
	}

	logger.Info("stationboard listening",
		slog.String("addr", cfg.Server.Addr),
		slog.String("base_path", cfg.Server.BasePath),
		slog.String("transport", cfg.Server.Transport),
		slog.Bool("ready", app.Service.Ready()),
	)
	if cfg.Server.Transport == "fiber" {
		return serveFiber(app)
	}
	return serveHTTP(ctx, app)
}

func serveHTTP(ctx context.Context, app *dashboardpkg.App) error {
	server := &http.Server{
		Addr:              app.Config.Server.Addr,
		Handler:           app.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- server.ListenAndServe() }()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdown)
	}
}

func serveFiber(app *dashboardpkg.App) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		Service:   app.Service,
		Renderer:  app.Renderer,
		Telemetry: app.Telemetry,
		Broadcast: app.Broadcast,
		BasePath:  app.Config.Server.BasePath,
		Page: core.PageOptions{
			BasePath:      app.Config.Server.BasePath,
			Locale:        app.Config.Render.Locale,
			MainSize:      app.Config.Render.MainSize(),
			SecondarySize: app.Config.Render.SecondarySize(),
		},
		Logger: app.Logger,
	}); err != nil {
		return err
	}
	return server.Serve(app.Config.Server.Addr)
}
