package dashboard

import (
	"fmt"
	"strconv"
	"sync"
)

// ValueHeadroom scales the largest value to get the top of the value domain.
const ValueHeadroom = 1.1

// RenderStats describes one render pass.
type RenderStats struct {
	JoinStats
	TimeFrame TimeFrame  `json:"timeframe"`
	Domain    [2]float64 `json:"domain"`
}

// Frame is the data slice handed to a KindRenderer. Surface is already a
// private clone; renderers mutate its scene freely.
type Frame struct {
	Surface *Surface
	Names   []string
	Keys    []string
	Values  []float64
	Animate bool
}

// KindRenderer draws the marks of one chart kind.
type KindRenderer interface {
	RenderKind(f *Frame) JoinStats
}

// KindRendererFunc adapts a function into a KindRenderer.
type KindRendererFunc func(f *Frame) JoinStats

// RenderKind implements KindRenderer.
func (fn KindRendererFunc) RenderKind(f *Frame) JoinStats {
	return fn(f)
}

var (
	kindRenderersMu sync.RWMutex
	kindRenderers   = map[ChartKind]KindRenderer{
		ChartBar:  KindRendererFunc(renderBar),
		ChartPie:  KindRendererFunc(renderPie),
		ChartLine: KindRendererFunc(renderLine),
		ChartArea: KindRendererFunc(renderArea),
	}
	axislessKinds = map[ChartKind]bool{ChartPie: true}
)

// RegisterKindRenderer replaces the renderer used for kind.
func RegisterKindRenderer(kind ChartKind, renderer KindRenderer) {
	if renderer == nil {
		return
	}
	kindRenderersMu.Lock()
	defer kindRenderersMu.Unlock()
	kindRenderers[kind] = renderer
}

func lookupKindRenderer(kind ChartKind) (KindRenderer, bool) {
	kindRenderersMu.RLock()
	defer kindRenderersMu.RUnlock()
	r, ok := kindRenderers[kind]
	return r, ok
}

// Render draws ds sliced by tf onto a copy of surface and returns the copy.
// The first render after BuildSurface places marks directly; later renders
// animate every attribute that changed.
func Render(surface Surface, ds *Dataset, tf TimeFrame) (Surface, RenderStats, error) {
	if !tf.Valid() {
		return surface, RenderStats{}, fmt.Errorf("%w: %d", ErrUnknownTimeFrame, int(tf))
	}
	if surface.Scene == nil || surface.Plot() == nil {
		return surface, RenderStats{}, fmt.Errorf("dashboard: surface %s has no layout", surface.ID())
	}
	renderer, ok := lookupKindRenderer(surface.Descriptor.Kind)
	if !ok {
		return surface, RenderStats{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, surface.Descriptor.Kind)
	}

	out := surface.Clone()
	metric := out.Descriptor.Metric
	peak := ds.Max(tf, metric)
	out.Y = out.Y.WithDomain(0, peak*ValueHeadroom)

	frame := &Frame{
		Surface: &out,
		Names:   ds.Names(),
		Keys:    recordKeys(ds.Names()),
		Values:  ds.Values(tf, metric),
		Animate: surface.Rendered,
	}
	stats := RenderStats{
		JoinStats: renderer.RenderKind(frame),
		TimeFrame: tf,
		Domain:    [2]float64{out.Y.D0, out.Y.D1},
	}
	if !axislessKinds[out.Descriptor.Kind] {
		if plot := out.Plot(); plot.Find("y-axis") != nil {
			drawLeftAxis(plot, out.Y, out.Height, out.Descriptor.UnitLabel, out.Theme, frame.Animate)
		}
	}
	out.TimeFrame = tf
	out.Rendered = true
	return out, stats, nil
}

// recordKeys derives join keys from record names. Repeated names get an
// ordinal suffix so every record keeps its own marks.
func recordKeys(names []string) []string {
	keys := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			keys[i] = name
			continue
		}
		keys[i] = name + "#" + strconv.Itoa(n)
	}
	return keys
}

func (f *Frame) x(i int) float64 {
	return f.Surface.X.Position(f.Names[i])
}

func (f *Frame) cx(i int) float64 {
	return f.Surface.X.Center(f.Names[i])
}

func (f *Frame) y(i int) float64 {
	return f.Surface.Y.Scale(f.Values[i])
}
