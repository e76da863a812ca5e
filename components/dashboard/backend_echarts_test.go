package dashboard

import (
	"context"
	"testing"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderWithECharts(t *testing.T, backend *EChartsBackend, chartID string) string {
	t.Helper()
	service := newLoadedService(t, Options{Backends: []ChartBackend{backend}})
	html, err := service.RenderBackend(context.Background(), "echarts", ChartRequest{ChartID: chartID, TimeFrame: TimeFrameDaily})
	require.NoError(t, err)
	return html
}

func TestEChartsAreaUsesThemeOpacity(t *testing.T) {
	html := renderWithECharts(t, NewEChartsBackend(), "occupancy")
	assert.Contains(t, html, `"opacity":0.7`)

	theme := DefaultTheme()
	theme.AreaOpacity = 0.25
	html = renderWithECharts(t, NewEChartsBackend(WithEChartsStyle(theme)), "occupancy")
	assert.Contains(t, html, `"opacity":0.25`)
}

func TestEChartsPieUsesPalette(t *testing.T) {
	html := renderWithECharts(t, NewEChartsBackend(), "rejected")
	assert.Contains(t, html, Pastel1[0])
	assert.Contains(t, html, Pastel1[1])

	theme := DefaultTheme()
	theme.Palette = []string{"#123456"}
	theme.ChartTheme = types.ThemeChalk
	html = renderWithECharts(t, NewEChartsBackend(WithEChartsStyle(theme)), "rejected")
	assert.Contains(t, html, "#123456")
	assert.NotContains(t, html, Pastel1[0])
	assert.Contains(t, html, types.ThemeChalk)
}
