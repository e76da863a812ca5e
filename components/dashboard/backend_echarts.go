package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// envEChartsCDN overrides the host the ECharts runtime is loaded from.
const envEChartsCDN = "STATIONBOARD_ECHARTS_CDN"

// ChartBackend renders a chart descriptor into embeddable markup.
type ChartBackend interface {
	Name() string
	RenderChart(ctx context.Context, desc ChartDescriptor, ds *Dataset, req ChartRequest) (string, error)
}

// EChartsBackend renders charts as go-echarts HTML snippets.
type EChartsBackend struct {
	theme      string
	style      Theme
	assetsHost string
}

// EChartsOption customizes the backend.
type EChartsOption func(*EChartsBackend)

// WithEChartsTheme sets the ECharts theme (defaults to Westeros).
func WithEChartsTheme(theme string) EChartsOption {
	return func(b *EChartsBackend) {
		b.theme = theme
	}
}

// WithEChartsStyle applies the dashboard theme: pie slices take the palette,
// areas the fill opacity, and a non-empty ChartTheme replaces the ECharts theme.
func WithEChartsStyle(theme Theme) EChartsOption {
	return func(b *EChartsBackend) {
		b.style = theme.withDefaults()
		if theme.ChartTheme != "" {
			b.theme = theme.ChartTheme
		}
	}
}

// WithEChartsAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithEChartsAssetsHost(host string) EChartsOption {
	return func(b *EChartsBackend) {
		b.assetsHost = ensureTrailingSlash(host)
	}
}

// NewEChartsBackend builds the go-echarts backend.
func NewEChartsBackend(options ...EChartsOption) *EChartsBackend {
	b := &EChartsBackend{
		theme:      types.ThemeWesteros,
		style:      DefaultTheme(),
		assetsHost: DefaultEChartsAssetsHost(),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Name implements ChartBackend.
func (b *EChartsBackend) Name() string { return "echarts" }

// RenderChart implements ChartBackend.
func (b *EChartsBackend) RenderChart(ctx context.Context, desc ChartDescriptor, ds *Dataset, req ChartRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tf := req.TimeFrame
	if !tf.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownTimeFrame, int(tf))
	}
	names := ds.Names()
	values := ds.Values(tf, desc.Metric)
	title := desc.TitleForLocale(req.Locale)
	subtitle := tf.LabelForLocale(req.Locale)
	global := b.globalOptions(title, subtitle, req.Size)

	switch desc.Kind {
	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(append(global, b.yAxis(desc, ds, tf))...)
		bar.SetXAxis(names)
		bar.AddSeries(desc.TitleForLocale(req.Locale), toBarData(names, values),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: desc.Color}))
		return renderEChart(bar)
	case ChartLine, ChartArea:
		line := charts.NewLine()
		line.SetGlobalOptions(append(global, b.yAxis(desc, ds, tf))...)
		line.SetXAxis(names)
		series := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: desc.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: desc.Color}),
		}
		if desc.Kind == ChartArea {
			series = append(series, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: float32(b.style.AreaOpacity)}))
		}
		line.AddSeries(title, toLineData(names, values), series...)
		return renderEChart(line)
	case ChartPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		pie.AddSeries(title, toPieData(names, values, b.style)).
			SetSeriesOptions(
				charts.WithPieChartOpts(opts.PieChart{
					Radius: []string{"0%", "75%"},
					Center: []string{"40%", "50%"},
				}),
			)
		return renderEChart(pie)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, desc.Kind)
	}
}

func (b *EChartsBackend) globalOptions(title, subtitle string, size Size) []charts.GlobalOpts {
	height := "360px"
	if size.Valid() {
		height = fmt.Sprintf("%dpx", int(size.Height))
	}
	initOpts := opts.Initialization{
		Theme:  b.theme,
		Width:  "100%",
		Height: height,
	}
	if b.assetsHost != "" {
		initOpts.AssetsHost = b.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func (b *EChartsBackend) yAxis(desc ChartDescriptor, ds *Dataset, tf TimeFrame) charts.GlobalOpts {
	axis := opts.YAxis{Name: desc.UnitLabel}
	if peak := ds.Max(tf, desc.Metric); peak > 0 {
		axis.Max = peak * ValueHeadroom
	}
	return charts.WithYAxisOpts(axis)
}

func renderEChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toBarData(names []string, values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, value := range values {
		data[i] = opts.BarData{Name: names[i], Value: value}
	}
	return data
}

func toLineData(names []string, values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, value := range values {
		data[i] = opts.LineData{Name: names[i], Value: value}
	}
	return data
}

func toPieData(names []string, values []float64, theme Theme) []opts.PieData {
	data := make([]opts.PieData, len(values))
	for i, value := range values {
		name := names[i]
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{
			Name:      name,
			Value:     value,
			ItemStyle: &opts.ItemStyle{Color: theme.PaletteColor(i)},
		}
	}
	return data
}

// DefaultEChartsAssetsHost returns the assets host, respecting STATIONBOARD_ECHARTS_CDN if set.
// An empty result keeps the go-echarts default.
func DefaultEChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return ""
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}

// SVGBackend renders charts with the built-in scene engine.
type SVGBackend struct {
	theme Theme
}

// NewSVGBackend builds the SVG backend with theme.
func NewSVGBackend(theme Theme) *SVGBackend {
	return &SVGBackend{theme: theme.withDefaults()}
}

// Name implements ChartBackend.
func (b *SVGBackend) Name() string { return "svg" }

// RenderChart implements ChartBackend.
func (b *SVGBackend) RenderChart(ctx context.Context, desc ChartDescriptor, ds *Dataset, req ChartRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	size := req.Size
	if !size.Valid() {
		size = DefaultSecondarySize
		if desc.Main {
			size = DefaultMainSize
		}
	}
	surface := BuildSurface(desc, size, ds, WithTheme(b.theme), WithLocale(req.Locale))
	rendered, _, err := Render(surface, ds, req.TimeFrame)
	if err != nil {
		return "", err
	}
	return rendered.SVG(), nil
}
