package dashboard

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"

	template "github.com/goliatone/go-template"
)

// PageTemplate is the name of the host page template.
const PageTemplate = "dashboard.html"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer describes the template renderer contract needed by the transports.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer backed by the embedded templates.
func NewTemplateRenderer() (Renderer, error) {
	root, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("dashboard: embedded templates: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(root),
		template.WithExtension(".html"),
	)
}

// PageOptions carries the host page settings that do not come from a session.
type PageOptions struct {
	// Ready marks the dataset as loaded so the page script opens a session.
	Ready           bool
	Title           string
	BasePath        string
	Locale          string
	PlaceholderText string
	MainSize        Size
	SecondarySize   Size
}

// PageData builds the template context for the host page. view may be nil
// when the dataset is not loaded; the page then renders empty containers.
func PageData(registry *Registry, theme Theme, view *View, opts PageOptions) map[string]any {
	if opts.Title == "" {
		opts.Title = "Station Statistics"
	}
	if opts.PlaceholderText == "" {
		opts.PlaceholderText = "Select a chart"
	}
	if !opts.MainSize.Valid() {
		opts.MainSize = DefaultMainSize
	}
	if !opts.SecondarySize.Valid() {
		opts.SecondarySize = DefaultSecondarySize
	}
	theme = theme.withDefaults()

	mainSurface := ""
	if main, ok := registry.Main(); ok {
		mainSurface = main.Surface()
	}
	data := map[string]any{
		"title":               opts.Title,
		"base_path":           opts.BasePath,
		"locale":              opts.Locale,
		"ready":               opts.Ready || view != nil,
		"placeholder_text":    opts.PlaceholderText,
		"placeholder_visible": true,
		"main_surface":        mainSurface,
		"main_svg":            "",
		"timeframe_label":     TimeFrameDaily.LabelForLocale(opts.Locale),
		"main_height":         int(opts.MainSize.Height),
		"secondary_height":    int(opts.SecondarySize.Height),
		"css_vars":            cssVarList(theme),
	}

	var buttons, surfaces []map[string]any
	for _, desc := range registry.Secondary() {
		button := map[string]any{
			"chart":  desc.ID,
			"label":  desc.TitleForLocale(opts.Locale),
			"active": false,
		}
		surface := map[string]any{
			"id":      desc.Surface(),
			"visible": false,
			"svg":     "",
		}
		if view != nil {
			button["active"] = desc.ID == view.Active
			surface["visible"] = view.Visible(desc.Surface())
			if desc.Surface() == view.ActiveSurface {
				surface["svg"] = view.SecondarySVG
			}
		}
		buttons = append(buttons, button)
		surfaces = append(surfaces, surface)
	}
	data["buttons"] = buttons
	data["surfaces"] = surfaces

	if view != nil {
		data["main_svg"] = view.MainSVG
		data["timeframe_label"] = view.TimeFrameLabel
		data["placeholder_visible"] = view.Visible(PlaceholderID)
		data["session_id"] = view.SessionID
	}
	return data
}

func cssVarList(theme Theme) []map[string]string {
	vars := theme.CSSVariables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]map[string]string, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]string{"name": name, "value": vars[name]})
	}
	return out
}
