package dashboard

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderAt(t *testing.T, id string, size Size, ds *Dataset, tf TimeFrame) (Surface, RenderStats) {
	t.Helper()
	surface := BuildSurface(mustDescriptor(t, id), size, ds)
	out, stats, err := Render(surface, ds, tf)
	require.NoError(t, err)
	return out, stats
}

func attrFloat(t *testing.T, sel *goquery.Selection, attr string) float64 {
	t.Helper()
	raw, ok := sel.Attr(attr)
	require.True(t, ok, "missing %s", attr)
	v, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	return v
}

func TestRenderMainBarChart(t *testing.T) {
	ds := twoStations()
	surface, stats := renderAt(t, "production", DefaultMainSize, ds, TimeFrameDaily)

	assert.Zero(t, stats.Domain[0])
	assert.InDelta(t, 33, stats.Domain[1], 1e-9)
	assert.Equal(t, TimeFrameDaily, stats.TimeFrame)
	assert.Equal(t, 4, stats.Entered, "two bars and two value labels")
	assert.True(t, surface.Rendered)

	doc := parseSVG(t, surface.SVG())
	bars := doc.Find("rect.bar")
	require.Equal(t, 2, bars.Length())

	hA := attrFloat(t, bars.Eq(0), "height")
	hB := attrFloat(t, bars.Eq(1), "height")
	assert.InDelta(t, 3, hB/hA, 1e-3)
	assert.InDelta(t, 360-30.0/33*360, attrFloat(t, bars.Eq(1), "y"), 1e-3)
	assert.Equal(t, "12", bars.Eq(0).AttrOr("rx", ""))
	assert.Equal(t, "#ffb6c1", bars.Eq(0).AttrOr("fill", ""))

	labels := doc.Find("text.value-label")
	require.Equal(t, 2, labels.Length())
	assert.Equal(t, "10", labels.Eq(0).Text())
	assert.Equal(t, "30", labels.Eq(1).Text())
	assert.InDelta(t, attrFloat(t, bars.Eq(0), "y")-10, attrFloat(t, labels.Eq(0), "y"), 1e-3)

	ticks := doc.Find("g.y-axis g.tick")
	require.Equal(t, 7, ticks.Length())
	assert.Equal(t, "0 units", strings.TrimSpace(ticks.First().Text()))
	assert.Equal(t, "30 units", strings.TrimSpace(ticks.Last().Text()))

	title := doc.Find("text.chart-title")
	assert.Equal(t, "Production", title.Text())
	assert.Equal(t, "-30", title.AttrOr("y", ""))
	assert.Equal(t, 0, doc.Find("animate").Length(), "first render places marks directly")
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	ds := twoStations()
	surface := BuildSurface(mustDescriptor(t, "production"), DefaultMainSize, ds)
	_, _, err := Render(surface, ds, TimeFrameDaily)
	require.NoError(t, err)

	assert.Empty(t, surface.Plot().FindAll("bar"))
	assert.False(t, surface.Rendered)
}

func TestRenderAnimatesChangedMarks(t *testing.T) {
	ds := twoStations()
	first, _ := renderAt(t, "production", DefaultMainSize, ds, TimeFrameDaily)

	second, stats, err := Render(first, ds, TimeFrameWeekly)
	require.NoError(t, err)
	assert.Equal(t, JoinStats{Updated: 4}, stats.JoinStats)

	bars := second.Plot().FindAll("bar")
	require.Len(t, bars, 2)
	animated := map[string]bool{}
	for _, anim := range bars[0].Animations {
		animated[anim.Attr] = true
		assert.Equal(t, TransitionDuration, anim.Duration)
	}
	assert.True(t, animated["y"])
	assert.True(t, animated["height"])
	assert.Empty(t, bars[1].Animations, "B keeps its value so nothing moves")
	assert.Equal(t, "20", second.Plot().FindAll("value-label")[0].Text)

	third, _, err := Render(second, ds, TimeFrameWeekly)
	require.NoError(t, err)
	assert.NotContains(t, third.SVG(), "<animate")
}

func TestRenderSecondaryBarHasNoValueLabels(t *testing.T) {
	surface, _ := renderAt(t, "delay", DefaultSecondarySize, twoStations(), TimeFrameDaily)
	doc := parseSVG(t, surface.SVG())

	assert.Equal(t, 2, doc.Find("rect.bar").Length())
	assert.Equal(t, 0, doc.Find("text.value-label").Length())
	assert.Equal(t, "-15", doc.Find("text.chart-title").AttrOr("y", ""))
}

func TestPieLayout(t *testing.T) {
	slices := PieLayout([]float64{1, 3, 0})

	total := 0.0
	for _, s := range slices {
		total += s.Angle()
	}
	assert.InDelta(t, 2*math.Pi, total, 1e-9)
	assert.InDelta(t, 3, slices[1].Angle()/slices[0].Angle(), 1e-9)
	assert.Equal(t, 0.0, slices[1].StartAngle, "largest slice starts at twelve o'clock")
	assert.InDelta(t, slices[1].EndAngle, slices[0].StartAngle, 1e-9)
	assert.Zero(t, slices[2].Angle())

	for _, s := range PieLayout([]float64{0, 0}) {
		assert.Zero(t, s.Angle())
	}
	negative := PieLayout([]float64{-5, math.NaN(), 2})
	assert.InDelta(t, 2*math.Pi, negative[2].Angle(), 1e-9)
}

func TestArcPath(t *testing.T) {
	assert.Equal(t, "M0,0Z", arcPath(10, 1, 1))
	assert.Equal(t, "M0,-10A10,10,0,1,1,0,10A10,10,0,1,1,0,-10Z", arcPath(10, 0, 2*math.Pi))
	assert.Equal(t, "M0,-10A10,10,0,0,1,10,0L0,0Z", arcPath(10, 0, math.Pi/2))
	assert.Contains(t, arcPath(10, 0, 1.5*math.Pi), ",0,1,1,")
}

func TestRenderPieChart(t *testing.T) {
	surface, stats := renderAt(t, "rejected", DefaultSecondarySize, twoStations(), TimeFrameDaily)
	assert.Equal(t, 4, stats.Entered, "two wedges and two legend rows")

	doc := parseSVG(t, surface.SVG())
	assert.Equal(t, 0, doc.Find("g.x-axis").Length())
	assert.Equal(t, 0, doc.Find("g.y-axis").Length())

	wedges := doc.Find("g.pie-group path.wedge")
	require.Equal(t, 2, wedges.Length())
	assert.Equal(t, Pastel1[0], wedges.Eq(0).AttrOr("fill", ""))
	assert.Equal(t, Pastel1[1], wedges.Eq(1).AttrOr("fill", ""))

	// 640x400 minus margins: 560x300, radius 150, legend block 500 wide.
	assert.Equal(t, "translate(180,150)", doc.Find("g.pie-group").AttrOr("transform", ""))

	rows := doc.Find("g.legend")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "translate(370,130)", rows.Eq(0).AttrOr("transform", ""))
	assert.Equal(t, "translate(370,150)", rows.Eq(1).AttrOr("transform", ""))
	assert.Equal(t, "A: 1", rows.Eq(0).Find("text.legend-label").Text())
	assert.Equal(t, "B: 3", rows.Eq(1).Find("text.legend-label").Text())
}

func TestRenderPieUpdatesLegendText(t *testing.T) {
	ds := twoStations()
	first, _ := renderAt(t, "rejected", DefaultSecondarySize, ds, TimeFrameDaily)
	second, _, err := Render(first, ds, TimeFrameMonthly)
	require.NoError(t, err)

	rows := second.Plot().FindAll("legend")
	require.Len(t, rows, 2)
	assert.Equal(t, "A: 3", rows[0].Find("legend-label").Text)

	wedge := second.Plot().Find("pie-group").FindAll("wedge")[0]
	require.Len(t, wedge.Animations, 1)
	assert.Equal(t, "d", wedge.Animations[0].Attr)
}

func TestRenderLineChart(t *testing.T) {
	surface, _ := renderAt(t, "accidents", DefaultSecondarySize, twoStations(), TimeFrameDaily)
	doc := parseSVG(t, surface.SVG())

	line := doc.Find("path.line")
	require.Equal(t, 1, line.Length())
	d := line.AttrOr("d", "")
	assert.True(t, strings.HasPrefix(d, "M"))
	assert.Equal(t, 1, strings.Count(d, "L"))
	assert.Equal(t, "none", line.AttrOr("fill", ""))
	assert.Equal(t, "3", line.AttrOr("stroke-width", ""))

	points := doc.Find("circle.data-point")
	require.Equal(t, 2, points.Length())
	assert.Equal(t, "5", points.First().AttrOr("r", ""))
}

func TestRenderAreaChart(t *testing.T) {
	surface, _ := renderAt(t, "occupancy", DefaultSecondarySize, twoStations(), TimeFrameDaily)
	doc := parseSVG(t, surface.SVG())

	area := doc.Find("path.area")
	require.Equal(t, 1, area.Length())
	d := area.AttrOr("d", "")
	assert.True(t, strings.HasSuffix(d, ",300Z"), d)
	assert.Equal(t, "0.7", area.AttrOr("fill-opacity", ""))
}

func TestRenderDuplicateNamesKeepOwnMarks(t *testing.T) {
	ds := twoStations()
	records := ds.Records()
	records[1].Name = records[0].Name
	surface, stats := renderAt(t, "delay", DefaultSecondarySize, NewDataset(records), TimeFrameDaily)

	assert.Equal(t, 2, stats.Entered)
	bars := surface.Plot().FindAll("bar")
	require.Len(t, bars, 2)
	assert.Equal(t, "A", bars[0].Key)
	assert.Equal(t, "A#1", bars[1].Key)
}

func TestRenderEmptyDataset(t *testing.T) {
	surface, stats := renderAt(t, "production", DefaultMainSize, NewDataset(nil), TimeFrameDaily)
	assert.Equal(t, [2]float64{0, 0}, stats.Domain)
	assert.Empty(t, surface.Plot().FindAll("bar"))
}

func TestRenderRejectsBadInput(t *testing.T) {
	ds := twoStations()
	surface := BuildSurface(mustDescriptor(t, "production"), DefaultMainSize, ds)

	_, _, err := Render(surface, ds, TimeFrame(7))
	assert.ErrorIs(t, err, ErrUnknownTimeFrame)

	radar := mustDescriptor(t, "delay")
	radar.Kind = "radar"
	_, _, err = Render(BuildSurface(radar, DefaultSecondarySize, ds), ds, TimeFrameDaily)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, _, err = Render(Surface{}, ds, TimeFrameDaily)
	assert.Error(t, err)
}

func TestRegisterKindRendererOverridesKind(t *testing.T) {
	const kind ChartKind = "bar"
	called := false
	RegisterKindRenderer(kind, KindRendererFunc(func(f *Frame) JoinStats {
		called = true
		return renderBar(f)
	}))
	t.Cleanup(func() { RegisterKindRenderer(kind, KindRendererFunc(renderBar)) })

	renderAt(t, "delay", DefaultSecondarySize, twoStations(), TimeFrameDaily)
	assert.True(t, called)
}
