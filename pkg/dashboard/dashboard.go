package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	core "github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/components/dashboard/httpapi"
	"github.com/goliatone/go-stationboard/pkg/config"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// App bundles a configured service with the pieces every transport needs.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Service   *Service
	Broadcast *core.BroadcastHook
	Renderer  core.Renderer
	Telemetry core.Telemetry
}

// New wires an App from loaded settings. The dataset is not read until Start.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("dashboard: config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	source, err := cfg.Dataset.Source()
	if err != nil {
		return nil, err
	}
	renderer, err := core.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	telemetry := core.NewSlogTelemetry(logger)
	broadcast := core.NewBroadcastHook()
	theme := core.DefaultTheme()
	service := core.NewService(Options{
		Source:      source,
		Cache:       core.NewChartCache(cfg.Render.CacheTTL),
		RefreshHook: broadcast,
		Telemetry:   telemetry,
		Logger:      logger,
		Theme:       theme,
		Backends:    []core.ChartBackend{core.NewEChartsBackend(core.WithEChartsStyle(theme))},
	})
	return &App{
		Config:    cfg,
		Logger:    logger,
		Service:   service,
		Broadcast: broadcast,
		Renderer:  renderer,
		Telemetry: telemetry,
	}, nil
}

// Start loads the manifest and dataset. A dataset failure is logged and
// returned, and the app keeps serving in its not-ready state.
func (a *App) Start(ctx context.Context) error {
	return core.Bootstrap(ctx, a.Service, core.BootstrapOptions{
		ManifestPath: a.Config.Manifest,
		Prerender:    a.Config.Render.Prerender,
		Locale:       a.Config.Render.Locale,
	})
}

// Handlers returns the net/http handler set for the app.
func (a *App) Handlers() *httpapi.Handlers {
	h := httpapi.NewHandlers(a.Service, a.Renderer, a.Telemetry)
	h.Broadcast = a.Broadcast
	h.Logger = a.Logger
	h.Page = core.PageOptions{
		BasePath:      a.Config.Server.BasePath,
		Locale:        a.Config.Render.Locale,
		MainSize:      a.Config.Render.MainSize(),
		SecondarySize: a.Config.Render.SecondarySize(),
	}
	if a.Config.Dataset.URL == "" {
		h.DatasetPath = a.Config.Dataset.Path
	}
	return h
}

// HTTPHandler serves every dashboard route under the configured base path.
func (a *App) HTTPHandler() http.Handler {
	return a.Handlers().Routes(a.Config.Server.BasePath)
}
