package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// TimeFrame selects which metrics bucket of a station record is read.
type TimeFrame int

const (
	TimeFrameDaily TimeFrame = iota
	TimeFrameWeekly
	TimeFrameMonthly
	TimeFrameQuarterly
	TimeFrameYearly
)

// TimeFrameCount is the size of the time-frame cycle.
const TimeFrameCount = 5

var timeFrameMeta = [TimeFrameCount]struct {
	code   string
	label  string
	bucket string
}{
	{code: "daily", label: "Daily", bucket: "daily_data"},
	{code: "weekly", label: "Weekly", bucket: "weekly_data"},
	{code: "monthly", label: "Monthly", bucket: "monthly_data"},
	{code: "quarter", label: "Quarterly", bucket: "quarterly_data"},
	{code: "year", label: "Yearly", bucket: "yearly_data"},
}

// TimeFrames returns every time frame in cycle order.
func TimeFrames() []TimeFrame {
	return []TimeFrame{TimeFrameDaily, TimeFrameWeekly, TimeFrameMonthly, TimeFrameQuarterly, TimeFrameYearly}
}

// TimeFrameAt maps any integer onto the cycle (negative values wrap).
func TimeFrameAt(index int) TimeFrame {
	return TimeFrame(((index % TimeFrameCount) + TimeFrameCount) % TimeFrameCount)
}

// ParseTimeFrame accepts the code ("quarter"), the label ("Quarterly") or the bucket key ("quarterly_data").
func ParseTimeFrame(value string) (TimeFrame, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for i, meta := range timeFrameMeta {
		if value == meta.code || value == strings.ToLower(meta.label) || value == meta.bucket {
			return TimeFrame(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTimeFrame, value)
}

// Valid reports whether t is one of the five known time frames.
func (t TimeFrame) Valid() bool {
	return t >= 0 && t < TimeFrameCount
}

// Index returns the position of t in the cycle.
func (t TimeFrame) Index() int { return int(t) }

func (t TimeFrame) String() string {
	if !t.Valid() {
		return fmt.Sprintf("timeframe(%d)", int(t))
	}
	return timeFrameMeta[t].code
}

// Label is the english display label shown next to the navigation buttons.
func (t TimeFrame) Label() string {
	if !t.Valid() {
		return ""
	}
	return timeFrameMeta[t].label
}

// BucketKey is the JSON key holding the metrics for t.
func (t TimeFrame) BucketKey() string {
	if !t.Valid() {
		return ""
	}
	return timeFrameMeta[t].bucket
}

// MetricName identifies a numeric field inside a metrics bucket.
type MetricName string

const (
	MetricProduction          MetricName = "production"
	MetricRejectedUnits       MetricName = "rejected_units"
	MetricAvgDelayMinutes     MetricName = "avg_delay_minutes"
	MetricAccidents           MetricName = "accidents"
	MetricOccupancyHours      MetricName = "occupancy_hours"
	MetricRejectionPercentage MetricName = "rejection_percentage"
	MetricAvgProductionTime   MetricName = "avg_production_time_min"
)

// RequiredMetrics lists the metrics every bucket must carry.
func RequiredMetrics() []MetricName {
	return []MetricName{
		MetricProduction,
		MetricRejectedUnits,
		MetricAvgDelayMinutes,
		MetricAccidents,
		MetricOccupancyHours,
		MetricRejectionPercentage,
	}
}

// KnownMetric reports whether name is a metric the dataset can provide.
func KnownMetric(name MetricName) bool {
	switch name {
	case MetricProduction, MetricRejectedUnits, MetricAvgDelayMinutes, MetricAccidents,
		MetricOccupancyHours, MetricRejectionPercentage, MetricAvgProductionTime:
		return true
	}
	return false
}

// Metrics is one time-frame bucket of a station record.
type Metrics struct {
	Production          float64 `json:"production"`
	RejectedUnits       float64 `json:"rejected_units"`
	AvgDelayMinutes     float64 `json:"avg_delay_minutes"`
	Accidents           float64 `json:"accidents"`
	OccupancyHours      float64 `json:"occupancy_hours"`
	RejectionPercentage float64 `json:"rejection_percentage"`
	AvgProductionTime   float64 `json:"avg_production_time_min,omitempty"`
}

// Value returns the named metric.
func (m Metrics) Value(name MetricName) (float64, bool) {
	switch name {
	case MetricProduction:
		return m.Production, true
	case MetricRejectedUnits:
		return m.RejectedUnits, true
	case MetricAvgDelayMinutes:
		return m.AvgDelayMinutes, true
	case MetricAccidents:
		return m.Accidents, true
	case MetricOccupancyHours:
		return m.OccupancyHours, true
	case MetricRejectionPercentage:
		return m.RejectionPercentage, true
	case MetricAvgProductionTime:
		return m.AvgProductionTime, true
	}
	return 0, false
}

// StationRecord holds the metrics of one workstation for every time frame.
type StationRecord struct {
	WorkstationID string
	Name          string
	Buckets       [TimeFrameCount]Metrics
}

// Metric returns the value of metric for the given time frame.
func (r StationRecord) Metric(tf TimeFrame, metric MetricName) (float64, bool) {
	if !tf.Valid() {
		return 0, false
	}
	return r.Buckets[tf].Value(metric)
}

type stationRecordJSON struct {
	WorkstationID string  `json:"workstation_id,omitempty"`
	Name          string  `json:"name"`
	Daily         Metrics `json:"daily_data"`
	Weekly        Metrics `json:"weekly_data"`
	Monthly       Metrics `json:"monthly_data"`
	Quarterly     Metrics `json:"quarterly_data"`
	Yearly        Metrics `json:"yearly_data"`
}

// MarshalJSON writes the record in the StationsInfo file layout.
func (r StationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(stationRecordJSON{
		WorkstationID: r.WorkstationID,
		Name:          r.Name,
		Daily:         r.Buckets[TimeFrameDaily],
		Weekly:        r.Buckets[TimeFrameWeekly],
		Monthly:       r.Buckets[TimeFrameMonthly],
		Quarterly:     r.Buckets[TimeFrameQuarterly],
		Yearly:        r.Buckets[TimeFrameYearly],
	})
}

// UnmarshalJSON reads a record from the StationsInfo file layout. It does not
// validate; use DecodeDataset for schema-checked input.
func (r *StationRecord) UnmarshalJSON(data []byte) error {
	var raw stationRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.WorkstationID = raw.WorkstationID
	r.Name = raw.Name
	r.Buckets = [TimeFrameCount]Metrics{raw.Daily, raw.Weekly, raw.Monthly, raw.Quarterly, raw.Yearly}
	return nil
}

// Dataset is the ordered, read-only list of station records.
type Dataset struct {
	records []StationRecord
}

// NewDataset copies records into a dataset. Order is preserved.
func NewDataset(records []StationRecord) *Dataset {
	return &Dataset{records: append([]StationRecord(nil), records...)}
}

// DecodeDataset reads and validates a StationsInfo JSON array.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dashboard: read dataset: %w", err)
	}
	if err := defaultDatasetValidator.Validate(raw); err != nil {
		return nil, err
	}
	var records []StationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("dashboard: decode dataset: %w", err)
	}
	return NewDataset(records), nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in axis order.
func (d *Dataset) Records() []StationRecord {
	if d == nil {
		return nil
	}
	return append([]StationRecord(nil), d.records...)
}

// Record returns the record at index i.
func (d *Dataset) Record(i int) StationRecord {
	return d.records[i]
}

// Names returns the record names in axis order.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.records))
	for i, rec := range d.records {
		names[i] = rec.Name
	}
	return names
}

// Values slices the dataset by time frame and metric.
func (d *Dataset) Values(tf TimeFrame, metric MetricName) []float64 {
	if d == nil {
		return nil
	}
	values := make([]float64, len(d.records))
	for i, rec := range d.records {
		v, _ := rec.Metric(tf, metric)
		values[i] = v
	}
	return values
}

// Max returns the largest metric value for tf, or 0 for an empty dataset.
func (d *Dataset) Max(tf TimeFrame, metric MetricName) float64 {
	values := d.Values(tf, metric)
	if len(values) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
