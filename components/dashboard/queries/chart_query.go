package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

type chartService interface {
	RenderChart(ctx context.Context, req dashboard.ChartRequest) (dashboard.ChartResult, error)
	RenderBackend(ctx context.Context, backend string, req dashboard.ChartRequest) (string, error)
}

// ChartQuery renders one chart without a session.
type ChartQuery struct {
	service chartService
}

// NewChartQuery builds the query.
func NewChartQuery(service chartService) *ChartQuery {
	return &ChartQuery{service: service}
}

var _ gocommand.Querier[dashboard.ChartRequest, dashboard.ChartResult] = (*ChartQuery)(nil)

// Query renders the requested chart as SVG.
func (q *ChartQuery) Query(ctx context.Context, req dashboard.ChartRequest) (dashboard.ChartResult, error) {
	return q.service.RenderChart(ctx, req)
}

// BackendChartInput asks a named backend for chart markup.
type BackendChartInput struct {
	Backend string
	Request dashboard.ChartRequest
}

// BackendChartQuery renders one chart through a named backend.
type BackendChartQuery struct {
	service chartService
}

// NewBackendChartQuery builds the query.
func NewBackendChartQuery(service chartService) *BackendChartQuery {
	return &BackendChartQuery{service: service}
}

var _ gocommand.Querier[BackendChartInput, string] = (*BackendChartQuery)(nil)

// Query renders the chart with the selected backend.
func (q *BackendChartQuery) Query(ctx context.Context, input BackendChartInput) (string, error) {
	return q.service.RenderBackend(ctx, input.Backend, input.Request)
}
