package dashboard

import "strings"

func renderLine(f *Frame) JoinStats {
	s := f.Surface
	plot := s.Plot()

	stats := Join(plot, "line", []string{"line"},
		func(string, int) *Node {
			path := NewNode("path", "line")
			path.Set("fill", "none").
				Set("stroke", s.Descriptor.Color).
				Set("stroke-width", formatNumber(s.Theme.StrokeWidth))
			return path
		},
		func(path *Node, _ int, entered bool) {
			setAttr(path, "d", linePath(f), f.Animate && !entered)
		},
	)
	stats.Add(Join(plot, "data-point", f.Keys,
		func(string, int) *Node {
			point := NewNode("circle", "data-point")
			point.Set("r", formatNumber(s.Theme.PointRadius)).
				Set("fill", s.Descriptor.Color)
			return point
		},
		func(point *Node, i int, entered bool) {
			animate := f.Animate && !entered
			setAttr(point, "cx", formatCoord(f.cx(i)), animate)
			setAttr(point, "cy", formatCoord(f.y(i)), animate)
		},
	))
	return stats
}

func renderArea(f *Frame) JoinStats {
	s := f.Surface
	return Join(s.Plot(), "area", []string{"area"},
		func(string, int) *Node {
			path := NewNode("path", "area")
			path.Set("fill", s.Descriptor.Color).
				Set("fill-opacity", formatNumber(s.Theme.AreaOpacity))
			return path
		},
		func(path *Node, _ int, entered bool) {
			setAttr(path, "d", areaPath(f, s.Height), f.Animate && !entered)
		},
	)
}

func linePath(f *Frame) string {
	var b strings.Builder
	for i := range f.Values {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(formatCoord(f.cx(i)))
		b.WriteByte(',')
		b.WriteString(formatCoord(f.y(i)))
	}
	return b.String()
}

// areaPath traces the value line left to right and the baseline right to left.
func areaPath(f *Frame, baseline float64) string {
	if len(f.Values) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(linePath(f))
	for i := len(f.Values) - 1; i >= 0; i-- {
		b.WriteByte('L')
		b.WriteString(formatCoord(f.cx(i)))
		b.WriteByte(',')
		b.WriteString(formatCoord(baseline))
	}
	b.WriteByte('Z')
	return b.String()
}
