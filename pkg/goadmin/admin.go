package goadmin

import (
	"context"
	"errors"

	core "github.com/goliatone/go-stationboard/components/dashboard"
	dashboardpkg "github.com/goliatone/go-stationboard/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the station board app + feature flags into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	App             *dashboardpkg.App
	DefaultMenuItem MenuItem
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed dashboard menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.App == nil {
		return nil, errors.New("goadmin: station board app is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Station statistics"
	}
	if cfg.DefaultMenuItem.Route == "" && cfg.App != nil {
		cfg.DefaultMenuItem.Route = cfg.App.Config.Server.BasePath + "/"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "bar-chart"
	}
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.App.Service
}

// MenuItem is the entry seeded by Bootstrap.
func (a *Admin) MenuItem() MenuItem {
	return a.cfg.DefaultMenuItem
}

// Bootstrap loads the station data and seeds the menu entry. A dataset that
// fails to load does not block the admin shell: the page renders empty.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard {
		return nil
	}
	if err := a.cfg.App.Start(ctx); err != nil && !errors.Is(err, core.ErrDatasetLoad) {
		return err
	}
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	return a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem)
}
