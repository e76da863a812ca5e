package dashboard

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapLoadsManifestAndDataset(t *testing.T) {
	service := NewService(Options{Source: FileSource{Path: "testdata/stations.json"}})

	err := Bootstrap(context.Background(), service, BootstrapOptions{ManifestPath: "testdata/charts.yaml"})
	require.NoError(t, err)
	assert.True(t, service.Ready())
	_, ok := service.Registry().Descriptor("throughput")
	assert.True(t, ok)
}

func TestBootstrapPrerendersEveryChart(t *testing.T) {
	cache := NewChartCache(0)
	var renders atomic.Int64
	service := NewService(Options{
		Source: FSSource{FS: os.DirFS("testdata"), Path: "stations.json"},
		Cache:  countingCache{cache: cache, calls: &renders},
	})

	require.NoError(t, Bootstrap(context.Background(), service, BootstrapOptions{Prerender: true, Locale: "es"}))
	assert.EqualValues(t, 6*TimeFrameCount, renders.Load())
}

func TestBootstrapReportsMissingDataset(t *testing.T) {
	service := NewService(Options{Source: FileSource{Path: "testdata/missing.json"}})

	err := Bootstrap(context.Background(), service, BootstrapOptions{Prerender: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, service.Ready())
}

func TestBootstrapRejectsBadManifest(t *testing.T) {
	service := NewService(Options{Source: FileSource{Path: "testdata/stations.json"}})
	err := Bootstrap(context.Background(), service, BootstrapOptions{ManifestPath: "testdata/none.yaml"})
	assert.Error(t, err)
	assert.False(t, service.Ready())
}

func TestBootstrapRequiresService(t *testing.T) {
	assert.Error(t, Bootstrap(context.Background(), nil, BootstrapOptions{}))
}

type countingCache struct {
	cache *ChartCache
	calls *atomic.Int64
}

func (c countingCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	return c.cache.GetOrRender(key, func() (string, error) {
		c.calls.Add(1)
		return render()
	})
}
