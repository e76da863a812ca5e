package dashboard

import (
	"fmt"
	"sync"
)

// PlaceholderID is the element shown until a secondary chart is selected.
const PlaceholderID = "chart-placeholder"

// Session is the interaction state of one page: the time-frame cursor, the
// active secondary chart and the surfaces currently drawn.
type Session struct {
	ID             string
	Locale         string
	TimeFrameIndex int
	Active         string
	MainSize       Size
	SecondarySize  Size
	Main           Surface
	Secondary      *Surface

	mu sync.Mutex
}

// TimeFrame returns the selected time frame.
func (s *Session) TimeFrame() TimeFrame {
	return TimeFrameAt(s.TimeFrameIndex)
}

// Lock serializes work on the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Controller drives sessions over a loaded dataset and chart registry.
type Controller struct {
	dataset  *Dataset
	registry *Registry
	theme    Theme
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithControllerTheme sets the theme used for every surface.
func WithControllerTheme(theme Theme) ControllerOption {
	return func(c *Controller) {
		c.theme = theme.withDefaults()
	}
}

// NewController wires a dataset and registry into a controller.
func NewController(ds *Dataset, registry *Registry, opts ...ControllerOption) *Controller {
	if registry == nil {
		registry = NewRegistry()
	}
	c := &Controller{dataset: ds, registry: registry, theme: DefaultTheme()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Start lays out and renders the main chart of a new session at the first time frame.
func (c *Controller) Start(session *Session) (RenderStats, error) {
	if !session.MainSize.Valid() {
		session.MainSize = DefaultMainSize
	}
	if !session.SecondarySize.Valid() {
		session.SecondarySize = DefaultSecondarySize
	}
	session.TimeFrameIndex = TimeFrameAt(session.TimeFrameIndex).Index()
	return c.rebuildMain(session)
}

// Next advances the time frame and re-renders the visible charts.
func (c *Controller) Next(session *Session) (RenderStats, error) {
	return c.step(session, 1)
}

// Prev moves the time frame back and re-renders the visible charts.
func (c *Controller) Prev(session *Session) (RenderStats, error) {
	return c.step(session, -1)
}

func (c *Controller) step(session *Session, delta int) (RenderStats, error) {
	session.TimeFrameIndex = TimeFrameAt(session.TimeFrameIndex + delta).Index()
	tf := session.TimeFrame()

	main, stats, err := Render(session.Main, c.dataset, tf)
	if err != nil {
		return RenderStats{}, err
	}
	session.Main = main
	if session.Secondary != nil {
		secondary, secondaryStats, err := Render(*session.Secondary, c.dataset, tf)
		if err != nil {
			return RenderStats{}, err
		}
		session.Secondary = &secondary
		stats.Add(secondaryStats.JoinStats)
	}
	return stats, nil
}

// Select makes id the active secondary chart. The previous secondary surface
// is discarded and the selected one is laid out from scratch.
func (c *Controller) Select(session *Session, id string) (RenderStats, error) {
	desc, ok := c.registry.Descriptor(id)
	if !ok || desc.Main {
		return RenderStats{}, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
	surface := BuildSurface(desc, session.SecondarySize, c.dataset, c.layoutOptions(session)...)
	rendered, stats, err := Render(surface, c.dataset, session.TimeFrame())
	if err != nil {
		return RenderStats{}, err
	}
	session.Active = desc.ID
	session.Secondary = &rendered
	return stats, nil
}

// Resize rebuilds the main chart, and the active secondary chart if any, for
// new container sizes. Zero sizes keep the previous measurement.
func (c *Controller) Resize(session *Session, main, secondary Size) (RenderStats, error) {
	if main.Valid() {
		session.MainSize = main
	}
	if secondary.Valid() {
		session.SecondarySize = secondary
	}
	stats, err := c.rebuildMain(session)
	if err != nil {
		return RenderStats{}, err
	}
	if session.Active == "" {
		return stats, nil
	}
	selectStats, err := c.Select(session, session.Active)
	if err != nil {
		return RenderStats{}, err
	}
	stats.Add(selectStats.JoinStats)
	return stats, nil
}

// View reports what the page shows for session.
func (c *Controller) View(session *Session) View {
	tf := session.TimeFrame()
	view := View{
		SessionID:      session.ID,
		TimeFrame:      tf.String(),
		TimeFrameIndex: tf.Index(),
		TimeFrameLabel: tf.LabelForLocale(session.Locale),
		Active:         session.Active,
		Visibility:     map[string]bool{PlaceholderID: session.Active == ""},
	}
	if main, ok := c.registry.Main(); ok {
		view.MainSurface = main.Surface()
		view.Visibility[view.MainSurface] = true
	}
	if session.Main.Scene != nil {
		view.MainSVG = session.Main.SVG()
	}
	if session.Secondary != nil {
		view.ActiveSurface = session.Secondary.ID()
		view.SecondarySVG = session.Secondary.SVG()
	}
	for _, desc := range c.registry.Secondary() {
		active := desc.ID == session.Active
		view.Visibility[desc.Surface()] = active
		view.Buttons = append(view.Buttons, ButtonView{
			Chart:   desc.ID,
			Label:   desc.TitleForLocale(session.Locale),
			Surface: desc.Surface(),
			Active:  active,
		})
	}
	return view
}

// RenderChart lays out and renders one chart without touching any session.
func (c *Controller) RenderChart(req ChartRequest) (ChartResult, error) {
	desc, ok := c.registry.Descriptor(req.ChartID)
	if !ok {
		return ChartResult{}, fmt.Errorf("%w: %q", ErrUnknownChart, req.ChartID)
	}
	size := req.Size
	if !size.Valid() {
		size = DefaultSecondarySize
		if desc.Main {
			size = DefaultMainSize
		}
	}
	surface := BuildSurface(desc, size, c.dataset, WithTheme(c.theme), WithLocale(req.Locale))
	rendered, stats, err := Render(surface, c.dataset, req.TimeFrame)
	if err != nil {
		return ChartResult{}, err
	}
	return ChartResult{
		Descriptor: desc,
		TimeFrame:  req.TimeFrame.String(),
		SVG:        rendered.SVG(),
		Stats:      stats,
	}, nil
}

func (c *Controller) rebuildMain(session *Session) (RenderStats, error) {
	desc, ok := c.registry.Main()
	if !ok {
		return RenderStats{}, fmt.Errorf("%w: no main chart registered", ErrUnknownChart)
	}
	surface := BuildSurface(desc, session.MainSize, c.dataset, c.layoutOptions(session)...)
	rendered, stats, err := Render(surface, c.dataset, session.TimeFrame())
	if err != nil {
		return RenderStats{}, err
	}
	session.Main = rendered
	return stats, nil
}

func (c *Controller) layoutOptions(session *Session) []LayoutOption {
	return []LayoutOption{WithTheme(c.theme), WithLocale(session.Locale)}
}
