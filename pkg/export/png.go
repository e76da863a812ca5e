// Package export writes station charts and tables to files outside the browser:
// PNG snapshots through go-chart and XLSX workbooks through excelize.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("export: chart has no data")

// PNGOptions sizes a snapshot.
type PNGOptions struct {
	Width  int
	Height int
	Locale string
	Theme  dashboard.Theme
}

func (o PNGOptions) withDefaults(desc dashboard.ChartDescriptor) PNGOptions {
	if o.Width <= 0 || o.Height <= 0 {
		size := dashboard.DefaultSecondarySize
		if desc.Main {
			size = dashboard.DefaultMainSize
		}
		o.Width, o.Height = int(size.Width), int(size.Height)
	}
	if len(o.Theme.Palette) == 0 {
		o.Theme = dashboard.DefaultTheme()
	}
	return o
}

// WritePNG renders one chart for one time frame as a PNG image.
func WritePNG(w io.Writer, desc dashboard.ChartDescriptor, ds *dashboard.Dataset, tf dashboard.TimeFrame, opts PNGOptions) error {
	if !tf.Valid() {
		return fmt.Errorf("%w: %d", dashboard.ErrUnknownTimeFrame, tf)
	}
	if ds == nil || ds.Len() == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults(desc)
	names := ds.Names()
	values := ds.Values(tf, desc.Metric)
	title := fmt.Sprintf("%s (%s)", desc.TitleForLocale(opts.Locale), tf.LabelForLocale(opts.Locale))

	var renderable interface {
		Render(chart.RendererProvider, io.Writer) error
	}
	switch desc.Kind {
	case dashboard.ChartPie:
		pie, err := pieChart(title, names, values, opts)
		if err != nil {
			return err
		}
		renderable = pie
	case dashboard.ChartLine, dashboard.ChartArea:
		if len(values) < 2 {
			renderable = barChart(title, desc, names, values, ds.Max(tf, desc.Metric), opts)
			break
		}
		renderable = lineChart(title, desc, names, values, ds.Max(tf, desc.Metric), opts)
	default:
		renderable = barChart(title, desc, names, values, ds.Max(tf, desc.Metric), opts)
	}
	if err := renderable.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("export: render %s: %w", desc.ID, err)
	}
	return nil
}

func barChart(title string, desc dashboard.ChartDescriptor, names []string, values []float64, max float64, opts PNGOptions) *chart.BarChart {
	color := hexColor(desc.Color)
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: names[i],
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	return &chart.BarChart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth(opts.Width, len(values)),
		Background: chart.Style{FillColor: hexColor(opts.Theme.Background), Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Range: valueRange(max),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
}

func lineChart(title string, desc dashboard.ChartDescriptor, names []string, values []float64, max float64, opts PNGOptions) *chart.Chart {
	color := hexColor(desc.Color)
	xs := make([]float64, len(values))
	ticks := make([]chart.Tick, len(values))
	for i := range values {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: names[i]}
	}
	style := chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 4}
	if desc.Kind == dashboard.ChartArea {
		style.FillColor = color.WithAlpha(178)
	}
	return &chart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{FillColor: hexColor(opts.Theme.Background), Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis:      chart.YAxis{Range: valueRange(max)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    desc.TitleForLocale(opts.Locale),
				XValues: xs,
				YValues: values,
				Style:   style,
			},
		},
	}
}

func pieChart(title string, names []string, values []float64, opts PNGOptions) (*chart.PieChart, error) {
	slices := make([]chart.Value, 0, len(values))
	for i, v := range values {
		if v <= 0 {
			continue
		}
		slices = append(slices, chart.Value{
			Label: names[i],
			Value: v,
			Style: chart.Style{FillColor: hexColor(opts.Theme.PaletteColor(i))},
		})
	}
	if len(slices) == 0 {
		return nil, ErrNoData
	}
	return &chart.PieChart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: slices,
	}, nil
}

func valueRange(max float64) *chart.ContinuousRange {
	if max <= 0 {
		max = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: max * dashboard.ValueHeadroom}
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	w := width / (n * 2)
	if w > 120 {
		w = 120
	}
	if w < 4 {
		w = 4
	}
	return w
}

func hexColor(value string) drawing.Color {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if value == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(value)
}
