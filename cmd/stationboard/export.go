package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-stationboard/pkg/export"
)

type exportCmd struct {
	Out    string `type:"path" default:"stations.xlsx" help:"Workbook path."`
	Locale string `help:"Sheet name locale (en, es)."`
}

func (cmd *exportCmd) Run(ctx context.Context, g *globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	source, err := cfg.Dataset.Source()
	if err != nil {
		return err
	}
	ds, err := source.Load(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(cmd.Out) //nolint:gosec
	if err != nil {
		return fmt.Errorf("stationboard: create %s: %w", cmd.Out, err)
	}
	defer f.Close()
	if err := export.WriteWorkbook(f, ds, export.WorkbookOptions{Locale: cmd.Locale}); err != nil {
		return err
	}
	printf("✓ Exported %d stations to %s\n", ds.Len(), cmd.Out)
	return nil
}
