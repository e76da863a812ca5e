package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Direction moves the time-frame cursor.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// ParseDirection accepts next/prev (and the long forms forward/previous).
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "next", "forward":
		return DirectionNext, nil
	case "prev", "previous", "back":
		return DirectionPrev, nil
	}
	return "", fmt.Errorf("dashboard: unknown direction %q", value)
}

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Source         DatasetSource
	Registry       *Registry
	Sessions       SessionStore
	Cache          RenderCache
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	Logger         *slog.Logger
	Theme          Theme
	Backends       []ChartBackend
	PrerenderLimit int
}

// Service owns the dataset, the chart registry and the interaction sessions.
type Service struct {
	opts     Options
	backends map[string]ChartBackend

	mu         sync.RWMutex
	dataset    *Dataset
	controller *Controller
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Source == nil {
		opts.Source = FileSource{Path: DefaultDatasetPath}
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Sessions == nil {
		opts.Sessions = NewInMemorySessionStore()
	}
	if opts.Cache == nil {
		opts.Cache = NewChartCache(0)
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PrerenderLimit <= 0 {
		opts.PrerenderLimit = 4
	}
	opts.Theme = opts.Theme.withDefaults()
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	s := &Service{opts: opts, backends: map[string]ChartBackend{}}
	s.addBackend(NewSVGBackend(opts.Theme))
	for _, backend := range opts.Backends {
		s.addBackend(backend)
	}
	return s
}

func (s *Service) addBackend(backend ChartBackend) {
	if backend == nil {
		return
	}
	s.backends[strings.ToLower(backend.Name())] = backend
}

// Load reads the dataset once. On failure the error is logged and returned and
// the service stays not ready; there is no retry.
func (s *Service) Load(ctx context.Context) error {
	started := time.Now()
	ds, err := s.opts.Source.Load(ctx)
	if err != nil {
		s.opts.Logger.ErrorContext(ctx, "dashboard dataset load failed", slog.Any("error", err))
		s.recordTelemetry(ctx, "dashboard.dataset.load_error", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	if err := s.opts.Registry.Validate(); err != nil {
		s.opts.Logger.ErrorContext(ctx, "dashboard chart registry invalid", slog.Any("error", err))
		return err
	}
	s.mu.Lock()
	s.dataset = ds
	s.controller = NewController(ds, s.opts.Registry, WithControllerTheme(s.opts.Theme))
	s.mu.Unlock()

	s.opts.Logger.InfoContext(ctx, "dashboard dataset loaded",
		slog.Int("records", ds.Len()),
		slog.Duration("elapsed", time.Since(started)),
	)
	s.recordTelemetry(ctx, "dashboard.dataset.loaded", map[string]any{"records": ds.Len()})
	return nil
}

// Ready reports whether the dataset has been loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// Dataset returns the loaded dataset.
func (s *Service) Dataset() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNotReady
	}
	return s.dataset, nil
}

// Registry exposes the chart registry.
func (s *Service) Registry() *Registry {
	return s.opts.Registry
}

// Theme returns the resolved theme.
func (s *Service) Theme() Theme {
	return s.opts.Theme
}

// Sessions returns the session store.
func (s *Service) Sessions() SessionStore {
	return s.opts.Sessions
}

func (s *Service) ctrl() (*Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.controller == nil {
		return nil, ErrNotReady
	}
	return s.controller, nil
}

// NewSessionRequest opens an interaction session.
type NewSessionRequest struct {
	Locale        string
	MainSize      Size
	SecondarySize Size
}

// NewSession creates a session with the main chart drawn at the first time frame.
func (s *Service) NewSession(ctx context.Context, req NewSessionRequest) (View, error) {
	ctrl, err := s.ctrl()
	if err != nil {
		return View{}, err
	}
	session := &Session{
		Locale:        req.Locale,
		MainSize:      req.MainSize,
		SecondarySize: req.SecondarySize,
	}
	stats, err := ctrl.Start(session)
	if err != nil {
		return View{}, err
	}
	if err := s.opts.Sessions.Create(ctx, session); err != nil {
		return View{}, err
	}
	view := ctrl.View(session)
	s.publish(ctx, ReasonSession, view, stats)
	return view, nil
}

// NavigateTimeFrame moves the session's time frame one step.
func (s *Service) NavigateTimeFrame(ctx context.Context, sessionID string, dir Direction) (View, error) {
	return s.mutate(ctx, sessionID, ReasonTimeFrame, func(ctrl *Controller, session *Session) (RenderStats, error) {
		switch dir {
		case DirectionNext:
			return ctrl.Next(session)
		case DirectionPrev:
			return ctrl.Prev(session)
		}
		return RenderStats{}, fmt.Errorf("dashboard: unknown direction %q", dir)
	})
}

// SelectChart activates a secondary chart for the session.
func (s *Service) SelectChart(ctx context.Context, sessionID, chartID string) (View, error) {
	return s.mutate(ctx, sessionID, ReasonSelect, func(ctrl *Controller, session *Session) (RenderStats, error) {
		return ctrl.Select(session, chartID)
	})
}

// Resize rebuilds the session's visible charts for new container sizes.
func (s *Service) Resize(ctx context.Context, sessionID string, main, secondary Size) (View, error) {
	return s.mutate(ctx, sessionID, ReasonResize, func(ctrl *Controller, session *Session) (RenderStats, error) {
		return ctrl.Resize(session, main, secondary)
	})
}

// View returns the current page state of a session.
func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	ctrl, err := s.ctrl()
	if err != nil {
		return View{}, err
	}
	session, err := s.opts.Sessions.Get(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	session.Lock()
	defer session.Unlock()
	return ctrl.View(session), nil
}

// CloseSession forgets a session.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	if _, err := s.opts.Sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.opts.Sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.session.closed", map[string]any{"session_id": sessionID})
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID, reason string, fn func(*Controller, *Session) (RenderStats, error)) (View, error) {
	ctrl, err := s.ctrl()
	if err != nil {
		return View{}, err
	}
	session, err := s.opts.Sessions.Get(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	session.Lock()
	stats, err := fn(ctrl, session)
	view := ctrl.View(session)
	session.Unlock()
	if err != nil {
		return View{}, err
	}
	s.publish(ctx, reason, view, stats)
	return view, nil
}

func (s *Service) publish(ctx context.Context, reason string, view View, stats RenderStats) {
	event := DashboardEvent{
		SessionID: view.SessionID,
		Reason:    reason,
		TimeFrame: view.TimeFrame,
		Active:    view.Active,
		Stats:     stats,
		View:      &view,
		At:        time.Now().UTC(),
	}
	if err := s.opts.RefreshHook.ViewUpdated(ctx, event); err != nil {
		s.opts.Logger.WarnContext(ctx, "dashboard refresh hook failed", slog.String("reason", reason), slog.Any("error", err))
	}
	s.recordTelemetry(ctx, "dashboard.session."+reason, map[string]any{
		"session_id": view.SessionID,
		"timeframe":  view.TimeFrame,
		"active":     view.Active,
		"entered":    stats.Entered,
		"updated":    stats.Updated,
		"exited":     stats.Exited,
	})
}

// RenderChart renders one chart statelessly with the scene engine.
func (s *Service) RenderChart(ctx context.Context, req ChartRequest) (ChartResult, error) {
	if err := ctx.Err(); err != nil {
		return ChartResult{}, err
	}
	ctrl, err := s.ctrl()
	if err != nil {
		return ChartResult{}, err
	}
	var result ChartResult
	svg, err := s.opts.Cache.GetOrRender(renderKey("svg", req), func() (string, error) {
		rendered, err := ctrl.RenderChart(req)
		if err != nil {
			return "", err
		}
		result = rendered
		return rendered.SVG, nil
	})
	if err != nil {
		return ChartResult{}, err
	}
	if result.SVG == "" {
		desc, _ := s.opts.Registry.Descriptor(req.ChartID)
		result = ChartResult{Descriptor: desc, TimeFrame: req.TimeFrame.String(), SVG: svg}
	}
	return result, nil
}

// RenderBackend renders one chart with a named backend (svg or echarts).
func (s *Service) RenderBackend(ctx context.Context, backend string, req ChartRequest) (string, error) {
	ds, err := s.Dataset()
	if err != nil {
		return "", err
	}
	b, ok := s.backends[strings.ToLower(backend)]
	if !ok {
		return "", fmt.Errorf("dashboard: unknown chart backend %q", backend)
	}
	desc, ok := s.opts.Registry.Descriptor(req.ChartID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, req.ChartID)
	}
	return s.opts.Cache.GetOrRender(renderKey(b.Name(), req), func() (string, error) {
		return b.RenderChart(ctx, desc, ds, req)
	})
}

// Prerender renders every request concurrently, bounded by PrerenderLimit.
// Results keep the order of reqs.
func (s *Service) Prerender(ctx context.Context, reqs []ChartRequest) ([]ChartResult, error) {
	if _, err := s.ctrl(); err != nil {
		return nil, err
	}
	results := make([]ChartResult, len(reqs))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.PrerenderLimit)
	for i, req := range reqs {
		group.Go(func() error {
			result, err := s.RenderChart(gctx, req)
			if err != nil {
				return fmt.Errorf("render %s/%s: %w", req.ChartID, req.TimeFrame, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	s.recordTelemetry(ctx, "dashboard.prerender", map[string]any{"count": len(reqs)})
	return results, nil
}

// AllChartRequests lists every registered chart at every time frame.
func (s *Service) AllChartRequests(locale string) []ChartRequest {
	var reqs []ChartRequest
	for _, desc := range s.opts.Registry.Descriptors() {
		for _, tf := range TimeFrames() {
			reqs = append(reqs, ChartRequest{ChartID: desc.ID, TimeFrame: tf, Locale: locale})
		}
	}
	return reqs
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, RequestFromContext(ctx).annotate(payload))
}

// IsClientError reports whether err was caused by the request rather than the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownChart) ||
		errors.Is(err, ErrUnknownSession) ||
		errors.Is(err, ErrUnknownTimeFrame)
}

type noopRefreshHook struct{}

func (noopRefreshHook) ViewUpdated(context.Context, DashboardEvent) error {
	return nil
}
