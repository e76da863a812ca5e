package dashboard

const valueLabelOffset = 10

func renderBar(f *Frame) JoinStats {
	s := f.Surface
	plot := s.Plot()
	bandwidth := formatCoord(s.X.Bandwidth())

	stats := Join(plot, "bar", f.Keys,
		func(_ string, i int) *Node {
			bar := NewNode("rect", "bar")
			bar.Set("x", formatCoord(f.x(i))).
				Set("width", bandwidth).
				Set("fill", s.Descriptor.Color).
				Set("rx", formatNumber(s.Theme.BarRadius))
			return bar
		},
		func(bar *Node, i int, entered bool) {
			y := f.y(i)
			animate := f.Animate && !entered
			setAttr(bar, "y", formatCoord(y), animate)
			setAttr(bar, "height", formatCoord(s.Height-y), animate)
		},
	)

	if !s.Descriptor.Main {
		return stats
	}
	labels := Join(plot, "value-label", f.Keys,
		func(string, int) *Node {
			label := NewNode("text", "value-label")
			label.Set("text-anchor", "middle").
				Style("fill", s.Theme.Accent).
				Style("font-weight", "bold")
			return label
		},
		func(label *Node, i int, entered bool) {
			animate := f.Animate && !entered
			setAttr(label, "x", formatCoord(f.cx(i)), animate)
			setAttr(label, "y", formatCoord(f.y(i)-valueLabelOffset), animate)
			label.Text = formatNumber(f.Values[i])
		},
	)
	stats.Add(labels)
	return stats
}
