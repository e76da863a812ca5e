package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// ViewInput identifies a session.
type ViewInput struct {
	SessionID string
}

type viewService interface {
	View(ctx context.Context, sessionID string) (dashboard.View, error)
}

// ViewQuery returns the current page state of a session.
type ViewQuery struct {
	service viewService
}

// NewViewQuery builds the query.
func NewViewQuery(service viewService) *ViewQuery {
	return &ViewQuery{service: service}
}

var _ gocommand.Querier[ViewInput, dashboard.View] = (*ViewQuery)(nil)

// Query resolves the view for the session.
func (q *ViewQuery) Query(ctx context.Context, input ViewInput) (dashboard.View, error) {
	return q.service.View(ctx, input.SessionID)
}
