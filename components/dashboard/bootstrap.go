package dashboard

import (
	"context"
	"fmt"
)

// BootstrapOptions controls service start-up.
type BootstrapOptions struct {
	// ManifestPath optionally overrides or extends the chart descriptors.
	ManifestPath string
	// Prerender warms the render cache with every chart at every time frame.
	Prerender bool
	Locale    string
}

// Bootstrap loads the manifest and the dataset. A dataset failure is returned
// but leaves the service usable in its not-ready state.
func Bootstrap(ctx context.Context, service *Service, opts BootstrapOptions) error {
	if service == nil {
		return fmt.Errorf("dashboard: service is required to bootstrap")
	}
	if opts.ManifestPath != "" {
		if _, err := service.Registry().LoadManifestFile(opts.ManifestPath); err != nil {
			return fmt.Errorf("load manifest %s: %w", opts.ManifestPath, err)
		}
	}
	if err := service.Load(ctx); err != nil {
		return err
	}
	if !opts.Prerender {
		return nil
	}
	if _, err := service.Prerender(ctx, service.AllChartRequests(opts.Locale)); err != nil {
		return fmt.Errorf("prerender charts: %w", err)
	}
	return nil
}
