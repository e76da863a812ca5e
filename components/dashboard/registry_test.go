package dashboard

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryDefaults(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Validate())

	ids := make([]string, 0, 6)
	for _, desc := range reg.Descriptors() {
		ids = append(ids, desc.ID)
	}
	assert.Equal(t, []string{"production", "rejected", "delay", "accidents", "occupancy", "rejection-percentage"}, ids)

	main, ok := reg.Main()
	require.True(t, ok)
	assert.Equal(t, "production", main.ID)
	assert.Equal(t, ChartBar, main.Kind)
	assert.Len(t, reg.Secondary(), 5)
}

func TestRegistryDescriptorNormalizesIDs(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"rejection-percentage", "chart-rejection-percentage", "rejectionPercentage", " rejection_percentage "} {
		desc, ok := reg.Descriptor(id)
		require.True(t, ok, id)
		assert.Equal(t, "chart-rejection-percentage", desc.Surface())
	}
}

func TestRegistryDescriptorReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	desc, _ := reg.Descriptor("production")
	desc.TitleLocalized["es"] = "changed"

	again, _ := reg.Descriptor("production")
	assert.Equal(t, "Producción", again.TitleForLocale("es"))
}

func TestRegistryRegisterReplacesAndKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(ChartDescriptor{ID: "delay", Metric: "avgDelayMinutes", Kind: "LINE", Color: "#000"}))

	desc, ok := reg.Descriptor("delay")
	require.True(t, ok)
	assert.Equal(t, ChartLine, desc.Kind)
	assert.Equal(t, MetricAvgDelayMinutes, desc.Metric)
	assert.Equal(t, "Delay", desc.Title)
	assert.Equal(t, "delay", reg.Descriptors()[2].ID)
}

func TestRegistryKeepsSingleMain(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(ChartDescriptor{ID: "accidents", Metric: MetricAccidents, Kind: ChartBar, Main: true}))

	main, ok := reg.Main()
	require.True(t, ok)
	assert.Equal(t, "accidents", main.ID)
	assert.NoError(t, reg.Validate())

	prod, _ := reg.Descriptor("production")
	assert.False(t, prod.Main)
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := NewEmptyRegistry()
	assert.Error(t, reg.Register(ChartDescriptor{Metric: MetricProduction, Kind: ChartBar}))
	assert.ErrorIs(t, reg.Register(ChartDescriptor{ID: "x", Metric: MetricProduction, Kind: "radar"}), ErrUnsupportedKind)
	assert.Error(t, reg.Register(ChartDescriptor{ID: "x", Metric: "throughput", Kind: ChartBar}))
	assert.Error(t, reg.Validate(), "an empty registry has no main chart")
}

func withChartHooks(t *testing.T, hooks ...ChartHook) {
	t.Helper()
	globalHookMu.Lock()
	saved := globalHooks
	globalHooks = append([]ChartHook(nil), hooks...)
	globalHookMu.Unlock()
	t.Cleanup(func() {
		globalHookMu.Lock()
		globalHooks = saved
		globalHookMu.Unlock()
	})
}

func TestNewRegistryEReportsHookErrors(t *testing.T) {
	boom := errors.New("boom")
	withChartHooks(t,
		func(reg *Registry) error {
			return reg.Register(ChartDescriptor{ID: "downtime", Metric: MetricAccidents, Kind: ChartBar})
		},
		func(*Registry) error { return boom },
	)

	reg, err := NewRegistryE()
	require.ErrorIs(t, err, boom)
	require.NotNil(t, reg)
	_, ok := reg.Descriptor("downtime")
	assert.True(t, ok, "hooks before the failure still apply")
	assert.Len(t, reg.Descriptors(), 7)
}

func TestNewRegistryLogsHookErrors(t *testing.T) {
	withChartHooks(t, func(*Registry) error { return errors.New("bad manifest hook") })
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	reg := NewRegistry()
	require.NoError(t, reg.Validate())
	assert.Contains(t, buf.String(), "chart registry setup failed")
	assert.Contains(t, buf.String(), "bad manifest hook")
}
