package dashboard

import (
	"context"
	"fmt"
	"io/fs"
	"os"
)

// DefaultDatasetPath is the location of the dataset relative to the dashboard root.
const DefaultDatasetPath = "data/StationsInfo1.json"

// DatasetSource loads the station dataset once at startup.
type DatasetSource interface {
	Load(ctx context.Context) (*Dataset, error)
}

// DatasetSourceFunc adapts a function into a DatasetSource.
type DatasetSourceFunc func(ctx context.Context) (*Dataset, error)

// Load implements DatasetSource.
func (f DatasetSourceFunc) Load(ctx context.Context) (*Dataset, error) {
	return f(ctx)
}

// FileSource reads the dataset from a path on disk.
type FileSource struct {
	Path string
}

// Load implements DatasetSource.
func (s FileSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path
	if path == "" {
		path = DefaultDatasetPath
	}
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open dataset %s: %w", path, err)
	}
	defer f.Close()
	ds, err := DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: load %s: %w", path, err)
	}
	return ds, nil
}

// FSSource reads the dataset from an fs.FS, e.g. an embedded fixture.
type FSSource struct {
	FS   fs.FS
	Path string
}

// Load implements DatasetSource.
func (s FSSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FS == nil {
		return nil, errMissingSource
	}
	path := s.Path
	if path == "" {
		path = DefaultDatasetPath
	}
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dashboard: open dataset %s: %w", path, err)
	}
	defer f.Close()
	ds, err := DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: load %s: %w", path, err)
	}
	return ds, nil
}
