package gorouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/components/dashboard/commands"
	"github.com/goliatone/go-stationboard/components/dashboard/httpapi"
	"github.com/goliatone/go-stationboard/components/dashboard/queries"
)

// Config wires go-router with the station dashboard service and hooks.
type Config[T any] struct {
	Router    router.Router[T]
	Service   *dashboard.Service
	Renderer  dashboard.Renderer
	Telemetry dashboard.Telemetry
	Broadcast *dashboard.BroadcastHook
	BasePath  string
	Routes    RouteConfig
	Page      dashboard.PageOptions
	Logger    *slog.Logger
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Dataset   string
	Session   string
	SessionID string
	TimeFrame string
	Select    string
	Resize    string
	ChartSVG  string
	Backend   string
	WebSocket string
	Events    string
}

// Registrar is the part of router.Router the dashboard mounts routes on.
type Registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// Request is the part of router.Context the dashboard handlers use.
type Request interface {
	Context() context.Context
	Body() []byte
	Param(name string, defaultValue ...string) string
	Query(name string, defaultValue ...string) string
	Header(key string) string
	SetHeader(key, value string) router.Context
	Send(body []byte) error
	SendStream(r io.Reader) error
	NoContent(code int) error
	JSON(code int, v any) error
	Locals(key any, value ...any) any
}

// HandlerFunc handles one dashboard request.
type HandlerFunc func(Request) error

// Route is one mounted dashboard endpoint.
type Route struct {
	Method  router.HTTPMethod
	Path    string
	Handler HandlerFunc
}

// Register mounts the dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: service is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/stationboard"
	}
	return Mount(cfg.Router.Group(base), cfg.handlers(), cfg.Routes, cfg.Broadcast)
}

// Mount registers every dashboard route on r.
func Mount(r Registrar, h *httpapi.Handlers, routes RouteConfig, broadcast *dashboard.BroadcastHook) error {
	if r == nil || h == nil {
		return errors.New("gorouter: registrar and handlers are required")
	}
	if broadcast != nil && h.Broadcast != broadcast {
		scoped := *h
		scoped.Broadcast = broadcast
		h = &scoped
	}
	for _, route := range Routes(h, routes) {
		handler := route.Handler
		wrapped := router.WrapHandler(func(ctx router.Context) error { return handler(ctx) })
		switch route.Method {
		case router.GET:
			r.Get(route.Path, wrapped)
		case router.POST:
			r.Post(route.Path, wrapped)
		case router.DELETE:
			r.Delete(route.Path, wrapped)
		}
	}
	if broadcast != nil {
		registerWebSocket(r, broadcast, defaultRouteConfig(routes).WebSocket)
	}
	return nil
}

// Routes lists the dashboard endpoints backed by h. The event stream is
// only listed when h has a broadcast hook.
func Routes(h *httpapi.Handlers, cfg RouteConfig) []Route {
	routes := defaultRouteConfig(cfg)
	out := []Route{
		{router.GET, routes.HTML, pageHandler(h)},
		{router.GET, routes.Dataset, datasetHandler(h)},
		{router.POST, routes.Session, createSessionHandler(h)},
		{router.GET, routes.SessionID, viewHandler(h)},
		{router.DELETE, routes.SessionID, closeSessionHandler(h)},
		{router.POST, routes.TimeFrame, timeFrameHandler(h)},
		{router.POST, routes.Select, selectHandler(h)},
		{router.POST, routes.Resize, resizeHandler(h)},
		{router.GET, routes.ChartSVG, chartSVGHandler(h)},
		{router.GET, routes.Backend, backendHandler(h)},
	}
	if h.Broadcast != nil {
		out = append(out, Route{router.GET, routes.Events, eventsHandler(h.Broadcast)})
	}
	return out
}

func pageHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		if h.Renderer == nil {
			return respondError(ctx, h, errors.New("page renderer is not configured"))
		}
		opts := h.Page
		opts.Ready = h.Service.Ready()
		if opts.Locale == "" {
			opts.Locale = inferLocale(ctx)
		}
		html, err := h.Renderer.Render(dashboard.PageTemplate, dashboard.PageData(h.Service.Registry(), h.Service.Theme(), nil, opts))
		if err != nil {
			return respondError(ctx, h, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}
}

func datasetHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		path := h.DatasetPath
		if path == "" {
			path = dashboard.DefaultDatasetPath
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		ctx.SetHeader("Content-Type", "application/json")
		return ctx.Send(data)
	}
}

// eventsHandler streams dashboard events as SSE through a piped body stream.
// The stream ends when the request context is done or the adapter closes
// the reader.
func eventsHandler(hook *dashboard.BroadcastHook) HandlerFunc {
	return func(ctx Request) error {
		ctx.SetHeader("Content-Type", "text/event-stream")
		ctx.SetHeader("Cache-Control", "no-cache")
		ctx.SetHeader("Connection", "keep-alive")

		events, cancel := hook.Subscribe()
		filter := ctx.Query("session")
		reqCtx := ctx.Context()
		pr, pw := io.Pipe()
		go func() {
			defer cancel()
			pw.CloseWithError(dashboard.StreamSSE(reqCtx, pw, events, filter, nil))
		}()
		return ctx.SendStream(pr)
	}
}

func createSessionHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		var payload httpapi.SessionPayload
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return badRequest(ctx, err)
			}
		}
		if payload.Locale == "" {
			payload.Locale = inferLocale(ctx)
		}
		view, err := h.Service.NewSession(ctx.Context(), dashboard.NewSessionRequest{
			Locale:        payload.Locale,
			MainSize:      payload.Main,
			SecondarySize: payload.Secondary,
		})
		if err != nil {
			return respondError(ctx, h, err)
		}
		return ctx.JSON(http.StatusCreated, view)
	}
}

func viewHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		return respondView(ctx, h, ctx.Param("id"))
	}
}

func closeSessionHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		if err := h.Close.Execute(ctx.Context(), commands.CloseSessionInput{SessionID: ctx.Param("id")}); err != nil {
			return respondError(ctx, h, err)
		}
		return ctx.NoContent(http.StatusNoContent)
	}
}

func timeFrameHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		input := commands.NavigateTimeFrameInput{SessionID: ctx.Param("id"), Direction: ctx.Param("direction")}
		if _, err := dashboard.ParseDirection(input.Direction); err != nil {
			return badRequest(ctx, err)
		}
		if err := h.Navigate.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, h, err)
		}
		return respondView(ctx, h, input.SessionID)
	}
}

func selectHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		input := commands.SelectChartInput{SessionID: ctx.Param("id"), ChartID: ctx.Param("chart")}
		if err := h.Select.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, h, err)
		}
		return respondView(ctx, h, input.SessionID)
	}
}

func resizeHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		var payload httpapi.ResizePayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return badRequest(ctx, err)
		}
		input := commands.ResizeInput{SessionID: ctx.Param("id"), Main: payload.Main, Secondary: payload.Secondary}
		if !input.Main.Valid() && !input.Secondary.Valid() {
			return badRequest(ctx, errors.New("resize needs a main or secondary size"))
		}
		if err := h.Resize.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, h, err)
		}
		return respondView(ctx, h, input.SessionID)
	}
}

func chartSVGHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		file := ctx.Param("file")
		if !strings.HasSuffix(file, ".svg") {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		req, err := chartRequest(ctx, strings.TrimSuffix(file, ".svg"))
		if err != nil {
			return badRequest(ctx, err)
		}
		result, err := h.Charts.Query(ctx.Context(), req)
		if err != nil {
			return respondError(ctx, h, err)
		}
		ctx.SetHeader("Content-Type", "image/svg+xml")
		return ctx.Send([]byte(result.SVG))
	}
}

func backendHandler(h *httpapi.Handlers) HandlerFunc {
	return func(ctx Request) error {
		req, err := chartRequest(ctx, ctx.Param("chart"))
		if err != nil {
			return badRequest(ctx, err)
		}
		backend := ctx.Param("backend")
		markup, err := h.Backends.Query(ctx.Context(), queries.BackendChartInput{Backend: backend, Request: req})
		if err != nil {
			return respondError(ctx, h, err)
		}
		contentType := "text/html; charset=utf-8"
		if backend == "svg" {
			contentType = "image/svg+xml"
		}
		ctx.SetHeader("Content-Type", contentType)
		return ctx.Send([]byte(markup))
	}
}

func chartRequest(ctx Request, chart string) (dashboard.ChartRequest, error) {
	locale := ctx.Query("locale")
	if locale == "" {
		locale = inferLocale(ctx)
	}
	return httpapi.ParseChartRequest(chart, ctx.Query("timeframe"), ctx.Query("width"), ctx.Query("height"), locale)
}

func respondView(ctx Request, h *httpapi.Handlers, id string) error {
	view, err := h.Views.Query(ctx.Context(), queries.ViewInput{SessionID: id})
	if err != nil {
		return respondError(ctx, h, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

func registerWebSocket(r Registrar, hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func inferLocale(ctx Request) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func badRequest(ctx Request, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func respondError(ctx Request, h *httpapi.Handlers, err error) error {
	status := httpapi.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(ctx.Context(), "dashboard request failed", slog.Int("status", status), slog.Any("error", err))
	}
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) handlers() *httpapi.Handlers {
	h := httpapi.NewHandlers(cfg.Service, cfg.Renderer, cfg.Telemetry)
	h.Broadcast = cfg.Broadcast
	h.Page = cfg.Page
	h.Logger = cfg.Logger
	return h
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.Dataset == "" {
		routes.Dataset = "/data/StationsInfo1.json"
	}
	if routes.Session == "" {
		routes.Session = "/sessions"
	}
	if routes.SessionID == "" {
		routes.SessionID = "/sessions/:id"
	}
	if routes.TimeFrame == "" {
		routes.TimeFrame = "/sessions/:id/timeframe/:direction"
	}
	if routes.Select == "" {
		routes.Select = "/sessions/:id/charts/:chart"
	}
	if routes.Resize == "" {
		routes.Resize = "/sessions/:id/resize"
	}
	if routes.ChartSVG == "" {
		routes.ChartSVG = "/charts/:file"
	}
	if routes.Backend == "" {
		routes.Backend = "/charts/:chart/:backend"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	if routes.Events == "" {
		routes.Events = "/events"
	}
	return routes
}
