package dashboard

import "fmt"

// Margin is the space reserved around a chart's drawing area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

var (
	// MainMargin leaves room for the rotated labels and the large title of the main chart.
	MainMargin = Margin{Top: 60, Right: 40, Bottom: 100, Left: 100}
	// SecondaryMargin is used by every toggled chart.
	SecondaryMargin = Margin{Top: 40, Right: 20, Bottom: 60, Left: 60}
)

// MarginFor returns the margin for the main or a secondary chart.
func MarginFor(main bool) Margin {
	if main {
		return MainMargin
	}
	return SecondaryMargin
}

// Size is the measured client box of a chart container.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var (
	DefaultMainSize      = Size{Width: 960, Height: 520}
	DefaultSecondarySize = Size{Width: 640, Height: 400}
)

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Surface is the render context of one chart: its geometry, scales and the
// scene drawn so far. Render takes a Surface by value and returns the next one.
type Surface struct {
	Descriptor ChartDescriptor
	Theme      Theme
	Locale     string
	Margin     Margin
	Size       Size
	Width      float64
	Height     float64
	X          BandScale
	Y          LinearScale
	Scene      *Node
	TimeFrame  TimeFrame
	Rendered   bool
}

// LayoutOption customizes BuildSurface.
type LayoutOption func(*Surface)

// WithTheme overrides the default theme.
func WithTheme(theme Theme) LayoutOption {
	return func(s *Surface) {
		s.Theme = theme.withDefaults()
	}
}

// WithLocale selects the locale used for the chart title.
func WithLocale(locale string) LayoutOption {
	return func(s *Surface) {
		s.Locale = locale
	}
}

// BuildSurface lays out a fresh surface for desc inside a container of the
// given size. Width and Height are derived by subtracting the margins and are
// not clamped, so an undersized container yields a degenerate range.
func BuildSurface(desc ChartDescriptor, size Size, ds *Dataset, opts ...LayoutOption) Surface {
	s := Surface{
		Descriptor: desc,
		Theme:      DefaultTheme(),
		Margin:     MarginFor(desc.Main),
		Size:       size,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	s.Width = size.Width - s.Margin.Left - s.Margin.Right
	s.Height = size.Height - s.Margin.Top - s.Margin.Bottom
	s.X = NewBandScale(ds.Names(), 0, s.Width, BandPadding)
	s.Y = NewLinearScale(s.Height, 0)
	s.Scene = s.buildScene()
	return s
}

// ID is the container element id the surface is drawn into.
func (s Surface) ID() string {
	return s.Descriptor.Surface()
}

// Plot returns the translated drawing group.
func (s Surface) Plot() *Node {
	if s.Scene == nil {
		return nil
	}
	return s.Scene.Find("plot")
}

// Clone returns a copy whose scene can be mutated without touching s.
func (s Surface) Clone() Surface {
	out := s
	out.Scene = s.Scene.Clone()
	return out
}

// SVG serializes the current scene.
func (s Surface) SVG() string {
	return SVGString(s.Scene)
}

func (s Surface) buildScene() *Node {
	outerW := s.Width + s.Margin.Left + s.Margin.Right
	outerH := s.Height + s.Margin.Top + s.Margin.Bottom
	root := NewNode("svg", "")
	root.Set("xmlns", svgNamespace).
		Set("data-surface", s.ID()).
		Set("data-kind", string(s.Descriptor.Kind)).
		Set("width", "100%").
		Set("height", "100%").
		Set("viewBox", fmt.Sprintf("0 0 %s %s", formatCoord(outerW), formatCoord(outerH))).
		Set("preserveAspectRatio", "xMidYMid meet").
		Style("background", s.Theme.Background)

	plot := root.Append(NewNode("g", "plot"))
	plot.Set("transform", translate(s.Margin.Left, s.Margin.Top))

	drawBottomAxis(plot, s.X, s.Height, s.Width, s.Theme)
	drawLeftAxis(plot, s.Y, s.Height, s.Descriptor.UnitLabel, s.Theme, false)

	fontSize, y := "18px", -15.0
	if s.Descriptor.Main {
		fontSize, y = "24px", -30.0
	}
	title := plot.Append(NewNode("text", "chart-title"))
	title.Set("x", formatCoord(s.Width/2)).
		Set("y", formatCoord(y)).
		Style("text-anchor", "middle").
		Style("fill", s.Theme.Accent).
		Style("font-size", fontSize).
		Style("font-family", s.Theme.FontFamily)
	title.Text = s.Descriptor.TitleForLocale(s.Locale)
	return root
}

func translate(x, y float64) string {
	return "translate(" + formatCoord(x) + "," + formatCoord(y) + ")"
}
