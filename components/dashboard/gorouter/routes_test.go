package gorouter

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	router "github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/components/dashboard/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	require.Error(t, Register(Config[struct{}]{}))
	require.Error(t, Mount(nil, nil, RouteConfig{}, nil))
}

func TestMountRegistersRoutes(t *testing.T) {
	mock := newMockRegistrar()
	h := newTestHandlers(t)
	require.NoError(t, Mount(mock, h, RouteConfig{WebSocket: "/live"}, dashboard.NewBroadcastHook()))

	for _, key := range []string{
		"GET:/",
		"GET:/data/StationsInfo1.json",
		"GET:/events",
		"POST:/sessions",
		"GET:/sessions/:id",
		"DELETE:/sessions/:id",
		"POST:/sessions/:id/timeframe/:direction",
		"POST:/sessions/:id/charts/:chart",
		"POST:/sessions/:id/resize",
		"GET:/charts/:file",
		"GET:/charts/:chart/:backend",
	} {
		assert.Contains(t, mock.routes, key)
	}
	assert.Contains(t, mock.ws, "/live")

	mock = newMockRegistrar()
	require.NoError(t, Mount(mock, h, RouteConfig{}, nil))
	assert.Empty(t, mock.ws)
	assert.NotContains(t, mock.routes, "GET:/events")
}

func TestRoutesSessionFlow(t *testing.T) {
	routes := routeTable(newTestHandlers(t))

	ctx := newMockRequest()
	ctx.body = []byte(`{"main":{"width":900,"height":500}}`)
	ctx.headers["Accept-Language"] = "es;q=0.9,en"
	require.NoError(t, routes["POST:/sessions"](ctx))
	require.Equal(t, http.StatusCreated, ctx.status)
	view := ctx.view(t)
	assert.Equal(t, "Diario", view.TimeFrameLabel)

	ctx = newMockRequest()
	ctx.params["id"] = view.SessionID
	ctx.params["direction"] = "prev"
	require.NoError(t, routes["POST:/sessions/:id/timeframe/:direction"](ctx))
	assert.Equal(t, http.StatusOK, ctx.status)
	assert.Equal(t, "year", ctx.view(t).TimeFrame)

	ctx = newMockRequest()
	ctx.params["id"] = view.SessionID
	ctx.params["chart"] = "accidents"
	require.NoError(t, routes["POST:/sessions/:id/charts/:chart"](ctx))
	assert.Equal(t, "accidents", ctx.view(t).Active)

	ctx = newMockRequest()
	ctx.params["id"] = view.SessionID
	ctx.body = []byte(`{"main":{"width":1000,"height":600}}`)
	require.NoError(t, routes["POST:/sessions/:id/resize"](ctx))
	assert.Contains(t, ctx.view(t).MainSVG, `viewBox="0 0 1000 600"`)

	ctx = newMockRequest()
	ctx.params["id"] = view.SessionID
	require.NoError(t, routes["DELETE:/sessions/:id"](ctx))
	assert.Equal(t, http.StatusNoContent, ctx.status)
	assert.Empty(t, ctx.body)

	ctx = newMockRequest()
	ctx.params["id"] = view.SessionID
	require.NoError(t, routes["GET:/sessions/:id"](ctx))
	assert.Equal(t, http.StatusNotFound, ctx.status)
}

func TestRoutesErrors(t *testing.T) {
	routes := routeTable(newTestHandlers(t))

	ctx := newMockRequest()
	ctx.params["id"] = "missing"
	ctx.params["direction"] = "sideways"
	require.NoError(t, routes["POST:/sessions/:id/timeframe/:direction"](ctx))
	assert.Equal(t, http.StatusBadRequest, ctx.status)

	ctx = newMockRequest()
	ctx.params["id"] = "missing"
	ctx.params["direction"] = "next"
	require.NoError(t, routes["POST:/sessions/:id/timeframe/:direction"](ctx))
	assert.Equal(t, http.StatusNotFound, ctx.status)

	ctx = newMockRequest()
	ctx.params["id"] = "missing"
	ctx.body = []byte(`{}`)
	require.NoError(t, routes["POST:/sessions/:id/resize"](ctx))
	assert.Equal(t, http.StatusBadRequest, ctx.status)

	ctx = newMockRequest()
	ctx.body = []byte(`{`)
	require.NoError(t, routes["POST:/sessions"](ctx))
	assert.Equal(t, http.StatusBadRequest, ctx.status)
}

func TestRoutesPageAndCharts(t *testing.T) {
	routes := routeTable(newTestHandlers(t))

	ctx := newMockRequest()
	ctx.locals["locale"] = "es"
	require.NoError(t, routes["GET:/"](ctx))
	assert.Equal(t, "text/html; charset=utf-8", ctx.headers["Content-Type"])
	assert.Contains(t, string(ctx.body), `data-ready="true"`)
	assert.Contains(t, string(ctx.body), "Diario")

	ctx = newMockRequest()
	ctx.params["file"] = "rejected.svg"
	ctx.query["timeframe"] = "quarter"
	require.NoError(t, routes["GET:/charts/:file"](ctx))
	assert.Equal(t, "image/svg+xml", ctx.headers["Content-Type"])
	assert.Contains(t, string(ctx.body), `class="wedge"`)

	ctx = newMockRequest()
	ctx.params["file"] = "rejected.gif"
	require.NoError(t, routes["GET:/charts/:file"](ctx))
	assert.Equal(t, http.StatusNotFound, ctx.status)

	ctx = newMockRequest()
	ctx.params["chart"] = "delay"
	ctx.params["backend"] = "echarts"
	require.NoError(t, routes["GET:/charts/:chart/:backend"](ctx))
	assert.Equal(t, "text/html; charset=utf-8", ctx.headers["Content-Type"])
	assert.NotEmpty(t, ctx.body)
}

func TestRoutesServeDataset(t *testing.T) {
	h := newTestHandlers(t)
	h.DatasetPath = "missing/StationsInfo1.json"
	routes := routeTable(h)

	ctx := newMockRequest()
	require.NoError(t, routes["GET:/data/StationsInfo1.json"](ctx))
	assert.Equal(t, http.StatusNotFound, ctx.status)

	h.DatasetPath = "../testdata/stations.json"
	ctx = newMockRequest()
	require.NoError(t, routes["GET:/data/StationsInfo1.json"](ctx))
	assert.Equal(t, "application/json", ctx.headers["Content-Type"])
	var records []map[string]any
	require.NoError(t, json.Unmarshal(ctx.body, &records))
	assert.Len(t, records, 3)
}

func TestRoutesStreamEvents(t *testing.T) {
	h := newTestHandlers(t)
	assert.NotContains(t, routeTable(h), "GET:/events")

	hook := dashboard.NewBroadcastHook()
	h.Broadcast = hook
	routes := routeTable(h)

	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx := newMockRequest()
	ctx.ctx = reqCtx
	ctx.query["session"] = "s2"
	require.NoError(t, routes["GET:/events"](ctx))
	require.NotNil(t, ctx.stream)
	assert.Equal(t, "text/event-stream", ctx.headers["Content-Type"])

	require.NoError(t, hook.ViewUpdated(context.Background(), dashboard.DashboardEvent{SessionID: "s1", Reason: dashboard.ReasonSelect}))
	require.NoError(t, hook.ViewUpdated(context.Background(), dashboard.DashboardEvent{SessionID: "s2", Reason: dashboard.ReasonResize}))

	reader := bufio.NewReader(ctx.stream)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: resize\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, `data: {"session_id":"s2"`), line)

	cancel()
	_, err = io.ReadAll(reader)
	require.NoError(t, err)
}

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, "es-mx", parseAcceptLanguage("es-MX,es;q=0.9"))
	assert.Equal(t, "en", parseAcceptLanguage(" ;q=1, en"))
	assert.Equal(t, "", parseAcceptLanguage(""))
}

// --- Test helpers ---

func newTestHandlers(t *testing.T) *httpapi.Handlers {
	t.Helper()
	service := dashboard.NewService(dashboard.Options{
		Source:   dashboard.FileSource{Path: "../testdata/stations.json"},
		Backends: []dashboard.ChartBackend{dashboard.NewEChartsBackend()},
	})
	require.NoError(t, service.Load(context.Background()))
	renderer, err := dashboard.NewTemplateRenderer()
	require.NoError(t, err)
	return httpapi.NewHandlers(service, renderer, nil)
}

func routeTable(h *httpapi.Handlers) map[string]HandlerFunc {
	out := map[string]HandlerFunc{}
	for _, route := range Routes(h, RouteConfig{}) {
		out[string(route.Method)+":"+route.Path] = route.Handler
	}
	return out
}

type mockRegistrar struct {
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRegistrar() *mockRegistrar {
	return &mockRegistrar{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRegistrar) record(method router.HTTPMethod, path string, handler router.HandlerFunc) router.RouteInfo {
	m.routes[string(method)+":"+path] = handler
	return nil
}

func (m *mockRegistrar) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return m.record(router.GET, path, handler)
}

func (m *mockRegistrar) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return m.record(router.POST, path, handler)
}

func (m *mockRegistrar) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return m.record(router.DELETE, path, handler)
}

func (m *mockRegistrar) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[path] = handler
	return nil
}

type mockRequest struct {
	ctx     context.Context
	headers map[string]string
	body    []byte
	locals  map[any]any
	params  map[string]string
	query   map[string]string
	status  int
	stream  io.Reader
}

func newMockRequest() *mockRequest {
	return &mockRequest{
		ctx:     context.Background(),
		headers: map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
		query:   map[string]string{},
	}
}

func (m *mockRequest) view(t *testing.T) dashboard.View {
	t.Helper()
	var view dashboard.View
	require.NoError(t, json.Unmarshal(m.body, &view), string(m.body))
	return view
}

func (m *mockRequest) Context() context.Context { return m.ctx }

func (m *mockRequest) Body() []byte { return m.body }

func (m *mockRequest) Header(key string) string { return m.headers[key] }

func (m *mockRequest) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return nil
}

func (m *mockRequest) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockRequest) SendStream(r io.Reader) error {
	m.stream = r
	return nil
}

func (m *mockRequest) NoContent(code int) error {
	m.status = code
	m.body = nil
	return nil
}

func (m *mockRequest) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockRequest) Param(name string, defaultValue ...string) string {
	return lookup(m.params, name, defaultValue)
}

func (m *mockRequest) Query(name string, defaultValue ...string) string {
	return lookup(m.query, name, defaultValue)
}

func (m *mockRequest) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

func lookup(values map[string]string, name string, defaultValue []string) string {
	if v, ok := values[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}
