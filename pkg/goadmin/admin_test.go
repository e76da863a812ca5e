package goadmin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-stationboard/pkg/config"
	dashboardpkg "github.com/goliatone/go-stationboard/pkg/dashboard"
	"github.com/goliatone/go-stationboard/pkg/goadmin"
)

type stubMenuBuilder struct {
	calls int
	menu  string
	item  goadmin.MenuItem
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, menu string, item goadmin.MenuItem) error {
	s.calls++
	s.menu = menu
	s.item = item
	return nil
}

func newApp(t *testing.T, dataset string) *dashboardpkg.App {
	t.Helper()
	t.Setenv("STATIONBOARD_DATASET_PATH", dataset)
	t.Setenv("STATIONBOARD_SERVER_BASE_PATH", "/admin/stations")
	cfg, err := config.Load("")
	require.NoError(t, err)
	app, err := dashboardpkg.New(cfg, nil)
	require.NoError(t, err)
	return app
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		App:             newApp(t, "../../components/dashboard/testdata/stations.json"),
		MenuBuilder:     builder,
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))

	assert.Equal(t, 1, builder.calls)
	assert.Equal(t, "admin.main", builder.menu)
	assert.Equal(t, goadmin.MenuItem{Label: "Station statistics", Route: "/admin/stations/", Icon: "bar-chart"}, builder.item)
	require.NotNil(t, admin.Dashboard())
	assert.True(t, admin.Dashboard().Ready())
}

func TestAdminBootstrapToleratesMissingDataset(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		App:             newApp(t, "missing.json"),
		MenuBuilder:     builder,
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))
	assert.Equal(t, 1, builder.calls)
	assert.False(t, admin.Dashboard().Ready())
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: false,
		MenuBuilder:     builder,
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))
	assert.Equal(t, 0, builder.calls)
	assert.Nil(t, admin.Dashboard())
}

func TestAdminRequiresApp(t *testing.T) {
	_, err := goadmin.New(goadmin.Config{EnableDashboard: true})
	require.Error(t, err)
}
