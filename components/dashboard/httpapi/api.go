package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/components/dashboard/commands"
	"github.com/goliatone/go-stationboard/components/dashboard/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Service  *dashboard.Service
	Renderer dashboard.Renderer

	Navigate gocommand.Commander[commands.NavigateTimeFrameInput]
	Select   gocommand.Commander[commands.SelectChartInput]
	Resize   gocommand.Commander[commands.ResizeInput]
	Close    gocommand.Commander[commands.CloseSessionInput]
	Views    gocommand.Querier[queries.ViewInput, dashboard.View]
	Charts   gocommand.Querier[dashboard.ChartRequest, dashboard.ChartResult]
	Backends gocommand.Querier[queries.BackendChartInput, string]

	Broadcast   *dashboard.BroadcastHook
	Page        dashboard.PageOptions
	DatasetPath string
	Logger      *slog.Logger
}

// NewHandlers wires the default commands and queries around service.
func NewHandlers(service *dashboard.Service, renderer dashboard.Renderer, telemetry dashboard.Telemetry) *Handlers {
	return &Handlers{
		Service:     service,
		Renderer:    renderer,
		Navigate:    commands.NewNavigateTimeFrameCommand(service, telemetry),
		Select:      commands.NewSelectChartCommand(service, telemetry),
		Resize:      commands.NewResizeCommand(service, telemetry),
		Close:       commands.NewCloseSessionCommand(service, telemetry),
		Views:       queries.NewViewQuery(service),
		Charts:      queries.NewChartQuery(service),
		Backends:    queries.NewBackendChartQuery(service),
		DatasetPath: dashboard.DefaultDatasetPath,
	}
}

// SessionPayload opens a session with the measured container sizes.
type SessionPayload struct {
	Main      dashboard.Size `json:"main"`
	Secondary dashboard.Size `json:"secondary"`
	Locale    string         `json:"locale"`
}

// ResizePayload carries new container sizes.
type ResizePayload struct {
	Main      dashboard.Size `json:"main"`
	Secondary dashboard.Size `json:"secondary"`
}

// Routes returns a mux serving every endpoint under basePath.
func (h *Handlers) Routes(basePath string) http.Handler {
	base := strings.TrimRight(basePath, "/")
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base+"/{$}", h.HandlePage)
	mux.HandleFunc("GET "+base+"/data/StationsInfo1.json", h.HandleDataset)
	mux.HandleFunc("POST "+base+"/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET "+base+"/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("DELETE "+base+"/sessions/{id}", h.HandleCloseSession)
	mux.HandleFunc("POST "+base+"/sessions/{id}/timeframe/{direction}", h.HandleTimeFrame)
	mux.HandleFunc("POST "+base+"/sessions/{id}/charts/{chart}", h.HandleSelectChart)
	mux.HandleFunc("POST "+base+"/sessions/{id}/resize", h.HandleResize)
	mux.HandleFunc("GET "+base+"/charts/{file}", h.HandleChartSVG)
	mux.HandleFunc("GET "+base+"/charts/{chart}/{backend}", h.HandleChartBackend)
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+base+"/ws", h.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET "+base+"/events", h.Broadcast.ServeSSE)
	}
	return WithRequestMeta("http", mux)
}

// WithRequestMeta tags every request context with a request id.
func WithRequestMeta(transport string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := dashboard.ContextWithRequest(r.Context(), dashboard.RequestMeta{
			RequestID:  id,
			RemoteAddr: r.RemoteAddr,
			Transport:  transport,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandlePage renders the host page. A service that failed to load still
// gets the page, with empty chart containers.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Renderer == nil {
		h.writeError(w, r, errors.New("page renderer is not configured"))
		return
	}
	opts := h.Page
	opts.Ready = h.Service.Ready()
	html, err := h.Renderer.Render(dashboard.PageTemplate, dashboard.PageData(h.Service.Registry(), h.Service.Theme(), nil, opts))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// HandleDataset serves the raw dataset file the dashboard was built from.
func (h *Handlers) HandleDataset(w http.ResponseWriter, r *http.Request) {
	path := h.DatasetPath
	if path == "" {
		path = dashboard.DefaultDatasetPath
	}
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}

// HandleCreateSession opens a session and returns its first view.
func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload SessionPayload
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err))
			return
		}
	}
	view, err := h.Service.NewSession(r.Context(), dashboard.NewSessionRequest{
		Locale:        payload.Locale,
		MainSize:      payload.Main,
		SecondarySize: payload.Secondary,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGetSession returns the current view of a session.
func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, r.PathValue("id"), http.StatusOK)
}

// HandleCloseSession forgets a session.
func (h *Handlers) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Close.Execute(r.Context(), commands.CloseSessionInput{SessionID: r.PathValue("id")}); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTimeFrame steps the session's time frame.
func (h *Handlers) HandleTimeFrame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	input := commands.NavigateTimeFrameInput{SessionID: id, Direction: r.PathValue("direction")}
	if _, err := dashboard.ParseDirection(input.Direction); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if err := h.Navigate.Execute(r.Context(), input); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondView(w, r, id, http.StatusOK)
}

// HandleSelectChart activates a secondary chart.
func (h *Handlers) HandleSelectChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Select.Execute(r.Context(), commands.SelectChartInput{SessionID: id, ChartID: r.PathValue("chart")}); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondView(w, r, id, http.StatusOK)
}

// HandleResize rebuilds the session's charts for new sizes.
func (h *Handlers) HandleResize(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var payload ResizePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	input := commands.ResizeInput{SessionID: id, Main: payload.Main, Secondary: payload.Secondary}
	if !input.Main.Valid() && !input.Secondary.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody(errors.New("resize needs a main or secondary size")))
		return
	}
	if err := h.Resize.Execute(r.Context(), input); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondView(w, r, id, http.StatusOK)
}

// HandleChartSVG renders /charts/{chart}.svg statelessly.
func (h *Handlers) HandleChartSVG(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if !strings.HasSuffix(file, ".svg") {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query()
	req, err := ParseChartRequest(strings.TrimSuffix(file, ".svg"), query.Get("timeframe"), query.Get("width"), query.Get("height"), query.Get("locale"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	result, err := h.Charts.Query(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(result.SVG))
}

// HandleChartBackend renders a chart through a named backend (echarts or svg).
func (h *Handlers) HandleChartBackend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req, err := ParseChartRequest(r.PathValue("chart"), query.Get("timeframe"), query.Get("width"), query.Get("height"), query.Get("locale"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	backend := r.PathValue("backend")
	markup, err := h.Backends.Query(r.Context(), queries.BackendChartInput{Backend: backend, Request: req})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	contentType := "text/html; charset=utf-8"
	if backend == "svg" {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write([]byte(markup))
}

func (h *Handlers) respondView(w http.ResponseWriter, r *http.Request, id string, status int) {
	view, err := h.Views.Query(r.Context(), queries.ViewInput{SessionID: id})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "dashboard request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}
	writeJSON(w, status, errorBody(err))
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, dashboard.ErrUnknownChart), errors.Is(err, dashboard.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownTimeFrame):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ParseChartRequest builds a chart request from string parameters. Empty
// values fall back to the daily time frame and the default size for the chart.
func ParseChartRequest(chart, timeframe, width, height, locale string) (dashboard.ChartRequest, error) {
	req := dashboard.ChartRequest{ChartID: chart, Locale: locale}
	if chart == "" {
		return req, errors.New("chart id is required")
	}
	if timeframe != "" {
		tf, err := dashboard.ParseTimeFrame(timeframe)
		if err != nil {
			return req, err
		}
		req.TimeFrame = tf
	}
	if width != "" || height != "" {
		w, err := strconv.ParseFloat(width, 64)
		if err != nil {
			return req, fmt.Errorf("invalid width %q", width)
		}
		h, err := strconv.ParseFloat(height, 64)
		if err != nil {
			return req, fmt.Errorf("invalid height %q", height)
		}
		req.Size = dashboard.Size{Width: w, Height: h}
	}
	return req, nil
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
