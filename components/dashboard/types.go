package dashboard

import (
	"context"
	"time"
)

// SessionStore keeps interaction sessions for the lifetime of the process.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Len() int
}

// RefreshHook notifies transports (WebSocket/SSE) about re-rendered views.
type RefreshHook interface {
	ViewUpdated(ctx context.Context, event DashboardEvent) error
}

// DashboardEvent is pushed to subscribers after a session changes.
type DashboardEvent struct {
	SessionID string      `json:"session_id"`
	Reason    string      `json:"reason"`
	TimeFrame string      `json:"timeframe"`
	Active    string      `json:"active,omitempty"`
	Stats     RenderStats `json:"stats"`
	View      *View       `json:"view,omitempty"`
	At        time.Time   `json:"at"`
}

// Event reasons.
const (
	ReasonSession   = "session"
	ReasonTimeFrame = "timeframe"
	ReasonSelect    = "select"
	ReasonResize    = "resize"
)

// View is the page state of one session: what the host page must show.
type View struct {
	SessionID      string          `json:"session_id"`
	TimeFrame      string          `json:"timeframe"`
	TimeFrameIndex int             `json:"timeframe_index"`
	TimeFrameLabel string          `json:"timeframe_label"`
	Active         string          `json:"active,omitempty"`
	MainSurface    string          `json:"main_surface"`
	MainSVG        string          `json:"main_svg"`
	ActiveSurface  string          `json:"active_surface,omitempty"`
	SecondarySVG   string          `json:"secondary_svg,omitempty"`
	Visibility     map[string]bool `json:"visibility"`
	Buttons        []ButtonView    `json:"buttons"`
}

// ButtonView describes one chart selector button.
type ButtonView struct {
	Chart   string `json:"chart"`
	Label   string `json:"label"`
	Surface string `json:"surface"`
	Active  bool   `json:"active"`
}

// Visible reports whether the element with id is shown.
func (v View) Visible(id string) bool {
	return v.Visibility[id]
}

// ChartRequest asks for a stateless render of one chart.
type ChartRequest struct {
	ChartID   string
	TimeFrame TimeFrame
	Size      Size
	Locale    string
}

// ChartResult is a rendered chart.
type ChartResult struct {
	Descriptor ChartDescriptor `json:"descriptor"`
	TimeFrame  string          `json:"timeframe"`
	SVG        string          `json:"svg"`
	Stats      RenderStats     `json:"stats"`
}
