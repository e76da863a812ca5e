package dashboard

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDatasetFixture(t *testing.T) {
	ds := loadFixture(t)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"A", "B", "C"}, ds.Names())
	assert.Equal(t, []float64{10, 30, 20}, ds.Values(TimeFrameDaily, MetricProduction))
	assert.Equal(t, 9800.0, ds.Max(TimeFrameYearly, MetricProduction))

	v, ok := ds.Record(1).Metric(TimeFrameQuarterly, MetricRejectedUnits)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestDecodeDatasetEmptyArray(t *testing.T) {
	ds, err := DecodeDataset(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
	assert.Zero(t, ds.Max(TimeFrameDaily, MetricProduction))
}

func TestDecodeDatasetRejectsMissingMetric(t *testing.T) {
	payload := `[{"name":"A",
		"daily_data":{"production":1,"rejected_units":1,"avg_delay_minutes":1,"accidents":1,"occupancy_hours":1},
		"weekly_data":{"production":1,"rejected_units":1,"avg_delay_minutes":1,"accidents":1,"occupancy_hours":1,"rejection_percentage":1},
		"monthly_data":{"production":1,"rejected_units":1,"avg_delay_minutes":1,"accidents":1,"occupancy_hours":1,"rejection_percentage":1},
		"quarterly_data":{"production":1,"rejected_units":1,"avg_delay_minutes":1,"accidents":1,"occupancy_hours":1,"rejection_percentage":1},
		"yearly_data":{"production":1,"rejected_units":1,"avg_delay_minutes":1,"accidents":1,"occupancy_hours":1,"rejection_percentage":1}}]`

	_, err := DecodeDataset(strings.NewReader(payload))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDataset))
	assert.Contains(t, err.Error(), "/0/daily_data")
	assert.Contains(t, err.Error(), "rejection_percentage")
}

func TestDecodeDatasetRejectsMissingBucket(t *testing.T) {
	_, err := DecodeDataset(strings.NewReader(`[{"name":"A"}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestDecodeDatasetRejectsNonNumeric(t *testing.T) {
	ds := loadFixture(t)
	raw, err := json.Marshal(ds.Records())
	require.NoError(t, err)
	broken := strings.Replace(string(raw), `"production":10,`, `"production":"10",`, 1)
	require.NotEqual(t, string(raw), broken)

	_, err = DecodeDataset(strings.NewReader(broken))
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestStationRecordRoundTripsOptionalFields(t *testing.T) {
	raw := `{"workstation_id":"WS-111","name":"Station A",
		"daily_data":{"production":5,"avg_production_time_min":7},
		"weekly_data":{},"monthly_data":{},"quarterly_data":{},"yearly_data":{}}`
	var rec StationRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, "WS-111", rec.WorkstationID)
	v, ok := rec.Metric(TimeFrameDaily, MetricAvgProductionTime)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = rec.Metric(TimeFrame(9), MetricProduction)
	assert.False(t, ok)
}

func TestTimeFrameCycle(t *testing.T) {
	assert.Equal(t, TimeFrameDaily, TimeFrameAt(5))
	assert.Equal(t, TimeFrameYearly, TimeFrameAt(-1))
	assert.Equal(t, TimeFrameQuarterly, TimeFrameAt(-7))

	for _, tf := range TimeFrames() {
		assert.True(t, tf.Valid())
		parsed, err := ParseTimeFrame(tf.String())
		require.NoError(t, err)
		assert.Equal(t, tf, parsed)
	}
	assert.Equal(t, "quarterly_data", TimeFrameQuarterly.BucketKey())
	assert.Equal(t, "Yearly", TimeFrameYearly.Label())
}

func TestParseTimeFrameAcceptsLabelsAndBuckets(t *testing.T) {
	tf, err := ParseTimeFrame("Quarterly")
	require.NoError(t, err)
	assert.Equal(t, TimeFrameQuarterly, tf)

	tf, err = ParseTimeFrame("monthly_data")
	require.NoError(t, err)
	assert.Equal(t, TimeFrameMonthly, tf)

	_, err = ParseTimeFrame("hourly")
	assert.ErrorIs(t, err, ErrUnknownTimeFrame)
}
