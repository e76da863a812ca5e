package stationdata

import (
	"context"
	"sync"
	"time"

	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// Config picks where the dataset comes from. URL wins over Path.
type Config struct {
	Path    string
	URL     string
	APIKey  string
	Timeout time.Duration
}

// NewSource returns the dataset source described by cfg.
func NewSource(cfg Config) (dashboard.DatasetSource, error) {
	if cfg.URL != "" {
		return NewHTTPSource(HTTPConfig{BaseURL: cfg.URL, Path: cfg.Path, APIKey: cfg.APIKey, Timeout: cfg.Timeout})
	}
	return dashboard.FileSource{Path: cfg.Path}, nil
}

// StaticSource serves in-memory records, for tests and local demos.
type StaticSource struct {
	mu      sync.RWMutex
	records []dashboard.StationRecord
	err     error
}

// NewStaticSource builds a source from fixed records.
func NewStaticSource(records []dashboard.StationRecord) *StaticSource {
	return &StaticSource{records: append([]dashboard.StationRecord(nil), records...)}
}

// Fail makes every subsequent Load return err.
func (s *StaticSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Load implements dashboard.DatasetSource.
func (s *StaticSource) Load(ctx context.Context) (*dashboard.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return dashboard.NewDataset(append([]dashboard.StationRecord(nil), s.records...)), nil
}
