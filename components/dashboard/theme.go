package dashboard

import "strings"

// Theme holds the colors and typography shared by every chart surface.
type Theme struct {
	Name        string
	Background  string
	Accent      string
	LegendText  string
	FontFamily  string
	Palette     []string
	ChartTheme  string
	BarRadius   float64
	StrokeWidth float64
	PointRadius float64
	AreaOpacity float64
}

// Pastel1 is the categorical palette used for pie slices.
var Pastel1 = []string{
	"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6",
	"#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2",
}

// DefaultTheme returns the pink dashboard theme.
func DefaultTheme() Theme {
	return Theme{
		Name:        "stationboard",
		Background:  "#fffafc",
		Accent:      "#ff69b4",
		LegendText:  "#333",
		FontFamily:  "'Poppins', cursive",
		Palette:     append([]string(nil), Pastel1...),
		ChartTheme:  "westeros",
		BarRadius:   12,
		StrokeWidth: 3,
		PointRadius: 5,
		AreaOpacity: 0.7,
	}
}

// PaletteColor returns the palette entry for index i, cycling.
func (t Theme) PaletteColor(i int) string {
	if len(t.Palette) == 0 {
		return t.Accent
	}
	if i < 0 {
		i = -i
	}
	return t.Palette[i%len(t.Palette)]
}

// CSSVariables exposes the theme to the host page stylesheet.
func (t Theme) CSSVariables() map[string]string {
	vars := map[string]string{
		"--stationboard-background": t.Background,
		"--stationboard-accent":     t.Accent,
		"--stationboard-legend":     t.LegendText,
		"--stationboard-font":       t.FontFamily,
	}
	for key, value := range vars {
		if strings.TrimSpace(value) == "" {
			delete(vars, key)
		}
	}
	return vars
}

func (t Theme) withDefaults() Theme {
	def := DefaultTheme()
	if t.Background == "" {
		t.Background = def.Background
	}
	if t.Accent == "" {
		t.Accent = def.Accent
	}
	if t.LegendText == "" {
		t.LegendText = def.LegendText
	}
	if t.FontFamily == "" {
		t.FontFamily = def.FontFamily
	}
	if len(t.Palette) == 0 {
		t.Palette = def.Palette
	}
	if t.ChartTheme == "" {
		t.ChartTheme = def.ChartTheme
	}
	if t.BarRadius == 0 {
		t.BarRadius = def.BarRadius
	}
	if t.StrokeWidth == 0 {
		t.StrokeWidth = def.StrokeWidth
	}
	if t.PointRadius == 0 {
		t.PointRadius = def.PointRadius
	}
	if t.AreaOpacity == 0 {
		t.AreaOpacity = def.AreaOpacity
	}
	if t.Name == "" {
		t.Name = def.Name
	}
	return t
}
