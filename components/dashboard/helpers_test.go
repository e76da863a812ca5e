package dashboard

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	f, err := os.Open("testdata/stations.json")
	require.NoError(t, err)
	defer f.Close()
	ds, err := DecodeDataset(f)
	require.NoError(t, err)
	return ds
}

func metrics(production, rejected float64) Metrics {
	return Metrics{
		Production:          production,
		RejectedUnits:       rejected,
		AvgDelayMinutes:     production / 2,
		Accidents:           1,
		OccupancyHours:      production * 2,
		RejectionPercentage: rejected,
	}
}

func twoStations() *Dataset {
	var a, b StationRecord
	a.Name, b.Name = "A", "B"
	for i := range a.Buckets {
		a.Buckets[i] = metrics(10*float64(i+1), float64(i+1))
		b.Buckets[i] = metrics(30, 3)
	}
	return NewDataset([]StationRecord{a, b})
}

func parseSVG(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func mustDescriptor(t *testing.T, id string) ChartDescriptor {
	t.Helper()
	desc, ok := NewRegistry().Descriptor(id)
	require.True(t, ok, "descriptor %s", id)
	return desc
}
