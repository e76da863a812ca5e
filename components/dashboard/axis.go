package dashboard

const (
	axisTickSize    = 6
	axisTickPadding = 3
	axisTickCount   = 5
)

func drawBottomAxis(plot *Node, x BandScale, height, width float64, theme Theme) {
	axis := plot.Append(NewNode("g", "x-axis"))
	axis.Set("transform", translate(0, height)).
		Set("fill", "none").
		Set("font-size", "10").
		Set("font-family", "sans-serif").
		Set("text-anchor", "middle")

	domain := axis.Append(NewNode("path", "domain"))
	domain.Set("stroke", "currentColor").
		Set("d", "M0,"+formatCoord(axisTickSize)+"V0H"+formatCoord(width)+"V"+formatCoord(axisTickSize))

	for _, name := range x.Domain() {
		tick := axis.Append(NewNode("g", "tick"))
		tick.Key = name
		tick.Set("opacity", "1").Set("transform", translate(x.Center(name), 0))
		tick.Append(NewNode("line", "")).
			Set("stroke", "currentColor").
			Set("y2", formatCoord(axisTickSize))
		label := tick.Append(NewNode("text", ""))
		label.Set("y", formatCoord(axisTickSize+axisTickPadding)).
			Set("dy", "0.71em").
			Set("transform", "rotate(-45)").
			Style("fill", theme.Accent).
			Style("text-anchor", "end")
		label.Text = name
	}
}

// drawLeftAxis creates the y-axis group, or reconciles its ticks when it already
// exists. Ticks are keyed by value so surviving ticks slide to their new position.
func drawLeftAxis(plot *Node, y LinearScale, height float64, unit string, theme Theme, animate bool) JoinStats {
	axis := plot.Find("y-axis")
	if axis == nil {
		axis = plot.Append(NewNode("g", "y-axis"))
		axis.Set("fill", "none").
			Set("font-size", "10").
			Set("font-family", "sans-serif").
			Set("text-anchor", "end")
		axis.Append(NewNode("path", "domain")).Set("stroke", "currentColor")
	}
	axis.Find("domain").Set("d", "M-"+formatCoord(axisTickSize)+","+formatCoord(height)+"H0V0H-"+formatCoord(axisTickSize))

	ticks := y.Ticks(axisTickCount)
	keys := make([]string, len(ticks))
	for i, t := range ticks {
		keys[i] = formatNumber(t)
	}
	return Join(axis, "tick", keys,
		func(key string, _ int) *Node {
			tick := NewNode("g", "tick")
			tick.Set("opacity", "1")
			tick.Append(NewNode("line", "")).
				Set("stroke", "currentColor").
				Set("x2", "-"+formatCoord(axisTickSize))
			label := tick.Append(NewNode("text", ""))
			label.Set("x", "-"+formatCoord(axisTickSize+axisTickPadding)).
				Set("dy", "0.32em").
				Style("fill", theme.Accent)
			label.Text = tickLabel(key, unit)
			return tick
		},
		func(tick *Node, i int, entered bool) {
			setAttr(tick, "transform", translate(0, y.Scale(ticks[i])), animate && !entered)
		},
	)
}

func tickLabel(value, unit string) string {
	return value + " " + unit
}

func setAttr(n *Node, attr, value string, animate bool) {
	if animate {
		n.Transition(attr, value)
		return
	}
	n.Set(attr, value)
}
