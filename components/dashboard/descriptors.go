package dashboard

import (
	"fmt"
	"strings"
)

// ChartKind selects the renderer used for a descriptor.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
	ChartLine ChartKind = "line"
	ChartArea ChartKind = "area"
)

// Valid reports whether k has a renderer.
func (k ChartKind) Valid() bool {
	switch k {
	case ChartBar, ChartPie, ChartLine, ChartArea:
		return true
	}
	return false
}

const surfacePrefix = "chart-"

// ChartDescriptor is the static configuration of one chart.
type ChartDescriptor struct {
	ID             string            `json:"id" yaml:"id"`
	SurfaceID      string            `json:"surface_id,omitempty" yaml:"surface_id,omitempty"`
	Metric         MetricName        `json:"metric" yaml:"metric"`
	Title          string            `json:"title" yaml:"title"`
	TitleLocalized map[string]string `json:"title_localized,omitempty" yaml:"title_localized,omitempty"`
	UnitLabel      string            `json:"unit_label" yaml:"unit_label"`
	Color          string            `json:"color" yaml:"color"`
	Kind           ChartKind         `json:"kind" yaml:"kind"`
	Main           bool              `json:"main,omitempty" yaml:"main,omitempty"`
}

// Surface returns the container element id, derived from the chart id when unset.
func (d ChartDescriptor) Surface() string {
	if d.SurfaceID != "" {
		return d.SurfaceID
	}
	return surfacePrefix + d.ID
}

// TitleForLocale returns the localized title with fallback to Title.
func (d ChartDescriptor) TitleForLocale(locale string) string {
	return ResolveLocalizedValue(d.TitleLocalized, locale, d.Title)
}

// Validate checks the descriptor fields needed for rendering.
func (d ChartDescriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("dashboard: chart descriptor id is required")
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("%w: %q (chart %s)", ErrUnsupportedKind, d.Kind, d.ID)
	}
	if !KnownMetric(d.Metric) {
		return fmt.Errorf("dashboard: chart %s references unknown metric %q", d.ID, d.Metric)
	}
	return nil
}

var defaultChartDescriptors = []ChartDescriptor{
	{
		ID:             "production",
		Metric:         MetricProduction,
		Title:          "Production",
		TitleLocalized: map[string]string{"es": "Producción"},
		UnitLabel:      "units",
		Color:          "#ffb6c1",
		Kind:           ChartBar,
		Main:           true,
	},
	{
		ID:             "rejected",
		Metric:         MetricRejectedUnits,
		Title:          "Rejected Units",
		TitleLocalized: map[string]string{"es": "Unidades rechazadas"},
		UnitLabel:      "units",
		Color:          "#ff94c2",
		Kind:           ChartPie,
	},
	{
		ID:             "delay",
		Metric:         MetricAvgDelayMinutes,
		Title:          "Average Delay",
		TitleLocalized: map[string]string{"es": "Retraso promedio"},
		UnitLabel:      "minutes",
		Color:          "#ffc3a0",
		Kind:           ChartBar,
	},
	{
		ID:             "accidents",
		Metric:         MetricAccidents,
		Title:          "Accidents",
		TitleLocalized: map[string]string{"es": "Accidentes"},
		UnitLabel:      "incidents",
		Color:          "#add8e6",
		Kind:           ChartLine,
	},
	{
		ID:             "occupancy",
		Metric:         MetricOccupancyHours,
		Title:          "Occupancy Hours",
		TitleLocalized: map[string]string{"es": "Horas de ocupación"},
		UnitLabel:      "hours",
		Color:          "#c3b1e1",
		Kind:           ChartArea,
	},
	{
		ID:             "rejection-percentage",
		Metric:         MetricRejectionPercentage,
		Title:          "Rejection Percentage",
		TitleLocalized: map[string]string{"es": "Porcentaje de rechazo"},
		UnitLabel:      "%",
		Color:          "#f0e68c",
		Kind:           ChartPie,
	},
}

// DefaultChartDescriptors returns the six charts of the station dashboard.
func DefaultChartDescriptors() []ChartDescriptor {
	out := make([]ChartDescriptor, len(defaultChartDescriptors))
	for i, desc := range defaultChartDescriptors {
		out[i] = cloneDescriptor(desc)
	}
	return out
}

func cloneDescriptor(desc ChartDescriptor) ChartDescriptor {
	if len(desc.TitleLocalized) > 0 {
		localized := make(map[string]string, len(desc.TitleLocalized))
		for k, v := range desc.TitleLocalized {
			localized[k] = v
		}
		desc.TitleLocalized = localized
	}
	return desc
}
