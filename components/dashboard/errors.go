package dashboard

import "errors"

var (
	// ErrNotReady is returned while the dataset has not been loaded (or failed to load).
	ErrNotReady = errors.New("dashboard: dataset not loaded")
	// ErrDatasetLoad wraps every failure of the dataset source.
	ErrDatasetLoad = errors.New("dashboard: dataset load failed")
	// ErrInvalidDataset wraps every dataset schema violation.
	ErrInvalidDataset = errors.New("dashboard: invalid dataset")
	// ErrUnknownChart is returned for chart ids that are not registered secondary charts.
	ErrUnknownChart = errors.New("dashboard: unknown chart")
	// ErrUnknownSession is returned when a session id has no interaction state.
	ErrUnknownSession = errors.New("dashboard: unknown session")
	// ErrUnknownTimeFrame is returned when a time frame cannot be parsed.
	ErrUnknownTimeFrame = errors.New("dashboard: unknown time frame")
	// ErrUnsupportedKind is returned for chart kinds without a renderer.
	ErrUnsupportedKind = errors.New("dashboard: unsupported chart kind")

	errMissingSource = errors.New("dashboard: dataset source not configured")
)
