package main

import (
	"context"
	"fmt"
	"os"

	core "github.com/goliatone/go-stationboard/components/dashboard"
)

type validateCmd struct {
	Path string `arg:"" optional:"" type:"path" help:"Dataset file (default: dataset.path from config)."`
}

func (cmd *validateCmd) Run(_ context.Context, g *globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	path := cmd.Path
	if path == "" {
		path = cfg.Dataset.Path
	}
	records, err := validateDataset(path)
	if err != nil {
		return err
	}
	printf("✓ %s: %d stations\n", path, records)

	if cfg.Manifest == "" {
		return nil
	}
	charts, err := validateManifest(cfg.Manifest)
	if err != nil {
		return err
	}
	printf("✓ %s: %d charts\n", cfg.Manifest, charts)
	return nil
}

func validateDataset(path string) (int, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return 0, fmt.Errorf("stationboard: read dataset: %w", err)
	}
	if err := core.NewDatasetValidator().Validate(raw); err != nil {
		return 0, fmt.Errorf("stationboard: %s: %w", path, err)
	}
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return 0, err
	}
	defer f.Close()
	ds, err := core.DecodeDataset(f)
	if err != nil {
		return 0, err
	}
	return ds.Len(), nil
}

func validateManifest(path string) (int, error) {
	registry := core.NewRegistry()
	if _, err := registry.LoadManifestFile(path); err != nil {
		return 0, err
	}
	if err := registry.Validate(); err != nil {
		return 0, fmt.Errorf("stationboard: %s: %w", path, err)
	}
	return len(registry.Descriptors()), nil
}
