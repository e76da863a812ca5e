package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/pkg/config"
)

func testConfig(t *testing.T, dataset string) *config.Config {
	t.Helper()
	t.Setenv("STATIONBOARD_DATASET_PATH", dataset)
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestAppServesLoadedDataset(t *testing.T) {
	cfg := testConfig(t, "../../components/dashboard/testdata/stations.json")
	app, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, app.Start(context.Background()))
	assert.True(t, app.Service.Ready())

	events, cancel := app.Broadcast.Subscribe()
	defer cancel()

	handler := app.HTTPHandler()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stationboard/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var view struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stationboard/sessions/"+view.SessionID+"/timeframe/next", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	event := <-events
	assert.Equal(t, view.SessionID, event.SessionID)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stationboard/data/StationsInfo1.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppStartFailureKeepsServing(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t, "missing.json")
	app, err := New(cfg, slog.New(slog.NewJSONHandler(&logs, nil)))
	require.NoError(t, err)
	require.Error(t, app.Start(context.Background()))
	assert.Contains(t, logs.String(), "dashboard dataset load failed")

	rec := httptest.NewRecorder()
	app.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stationboard/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-ready="false"`)
}

func TestAppEChartsBackendUsesTheme(t *testing.T) {
	cfg := testConfig(t, "../../components/dashboard/testdata/stations.json")
	app, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, app.Start(context.Background()))

	html, err := app.Service.RenderBackend(context.Background(), "echarts", core.ChartRequest{ChartID: "rejected", TimeFrame: core.TimeFrameDaily})
	require.NoError(t, err)
	assert.Contains(t, html, core.Pastel1[0])
	assert.Contains(t, html, core.DefaultTheme().ChartTheme)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}
