package dashboard

import (
	"math"
	"sort"
	"strings"
)

const (
	legendReserve  = 200
	legendGap      = 40
	legendRow      = 20
	legendSwatch   = 14
	legendTextX    = 20
	legendTextY    = 12
	arcEpsilon     = 1e-12
	fullCircle     = 2 * math.Pi
	legendFontSize = "12px"
)

// PieSlice is the angular extent of one record, clockwise from 12 o'clock.
type PieSlice struct {
	Index      int
	Value      float64
	StartAngle float64
	EndAngle   float64
}

// Angle is EndAngle - StartAngle.
func (p PieSlice) Angle() float64 {
	return p.EndAngle - p.StartAngle
}

// PieLayout computes slice angles for values, in input order. Slices are laid
// around the circle largest first; equal values keep input order. Negative and
// NaN values count as zero. A zero total yields zero-angle slices.
func PieLayout(values []float64) []PieSlice {
	slices := make([]PieSlice, len(values))
	order := make([]int, len(values))
	total := 0.0
	for i, v := range values {
		if math.IsNaN(v) || v < 0 {
			v = 0
		}
		slices[i] = PieSlice{Index: i, Value: v}
		order[i] = i
		total += v
	}
	sort.SliceStable(order, func(a, b int) bool {
		return slices[order[a]].Value > slices[order[b]].Value
	})
	k := 0.0
	if total > 0 {
		k = fullCircle / total
	}
	angle := 0.0
	for _, i := range order {
		slices[i].StartAngle = angle
		angle += slices[i].Value * k
		slices[i].EndAngle = angle
	}
	return slices
}

// arcPath draws a wedge of radius r centered at the origin.
func arcPath(r, a0, a1 float64) string {
	da := a1 - a0
	if r <= 0 || da < arcEpsilon {
		return "M0,0Z"
	}
	var b strings.Builder
	if da >= fullCircle-arcEpsilon {
		rs := formatCoord(r)
		b.WriteString("M0,-" + rs)
		b.WriteString("A" + rs + "," + rs + ",0,1,1,0," + rs)
		b.WriteString("A" + rs + "," + rs + ",0,1,1,0,-" + rs)
		b.WriteString("Z")
		return b.String()
	}
	x0, y0 := r*math.Sin(a0), -r*math.Cos(a0)
	x1, y1 := r*math.Sin(a1), -r*math.Cos(a1)
	large := "0"
	if da > math.Pi {
		large = "1"
	}
	rs := formatCoord(r)
	b.WriteString("M" + formatCoord(x0) + "," + formatCoord(y0))
	b.WriteString("A" + rs + "," + rs + ",0," + large + ",1," + formatCoord(x1) + "," + formatCoord(y1))
	b.WriteString("L0,0Z")
	return b.String()
}

func renderPie(f *Frame) JoinStats {
	s := f.Surface
	plot := s.Plot()
	plot.Remove("x-axis", "y-axis")

	radius := math.Min(s.Width, s.Height) / 2
	offsetX := (s.Width - (radius*2 + legendReserve)) / 2
	slices := PieLayout(f.Values)

	var stats JoinStats
	Join(plot, "pie-group", []string{"pie"},
		func(string, int) *Node { return NewNode("g", "pie-group") },
		func(group *Node, _ int, _ bool) {
			group.Set("transform", translate(offsetX+radius, s.Height/2))
			stats.Add(Join(group, "wedge", f.Keys,
				func(string, int) *Node { return NewNode("path", "wedge") },
				func(wedge *Node, i int, entered bool) {
					slice := slices[i]
					setAttr(wedge, "d", arcPath(radius, slice.StartAngle, slice.EndAngle), f.Animate && !entered)
					wedge.Set("fill", s.Theme.PaletteColor(i))
				},
			))
		},
	)

	legendY := (s.Height - float64(legendRow*len(f.Keys))) / 2
	stats.Add(Join(plot, "legend", f.Keys,
		func(_ string, i int) *Node {
			row := NewNode("g", "legend")
			row.Append(NewNode("rect", "legend-swatch")).
				Set("width", formatCoord(legendSwatch)).
				Set("height", formatCoord(legendSwatch))
			row.Append(NewNode("text", "legend-label")).
				Set("x", formatCoord(legendTextX)).
				Set("y", formatCoord(legendTextY)).
				Style("fill", s.Theme.LegendText).
				Style("font-size", legendFontSize)
			return row
		},
		func(row *Node, i int, entered bool) {
			setAttr(row, "transform", translate(offsetX+radius*2+legendGap, legendY+float64(i*legendRow)), f.Animate && !entered)
			row.Find("legend-swatch").Set("fill", s.Theme.PaletteColor(i))
			row.Find("legend-label").Text = f.Names[i] + ": " + formatNumber(f.Values[i])
		},
	))
	return stats
}
