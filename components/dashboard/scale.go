package dashboard

import (
	"math"
	"strconv"
)

// BandPadding is the inner and outer padding of the categorical scale.
const BandPadding = 0.4

// BandScale maps record names onto evenly spaced horizontal slots.
type BandScale struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale builds a band scale over domain with the given range and padding
// (applied both inner and outer, centered).
func NewBandScale(domain []string, r0, r1, padding float64) BandScale {
	index := make(map[string]int, len(domain))
	unique := make([]string, 0, len(domain))
	for _, name := range domain {
		if _, ok := index[name]; ok {
			continue
		}
		index[name] = len(unique)
		unique = append(unique, name)
	}
	n := float64(len(unique))
	reverse := r1 < r0
	start, stop := r0, r1
	if reverse {
		start, stop = r1, r0
	}
	step := (stop - start) / math.Max(1, n-padding+padding*2)
	start += (stop - start - step*(n-padding)) * 0.5
	bs := BandScale{
		domain:    unique,
		index:     index,
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
	}
	if reverse {
		// positions are mirrored so the first name sits at the far end
		bs.start = start + step*(n-1)
		bs.step = -step
	}
	return bs
}

// Position returns the left edge of the slot for name. Unknown names are NaN.
func (s BandScale) Position(name string) float64 {
	i, ok := s.index[name]
	if !ok {
		return math.NaN()
	}
	return s.start + s.step*float64(i)
}

// Center returns the middle of the slot for name.
func (s BandScale) Center(name string) float64 {
	return s.Position(name) + s.bandwidth/2
}

// Bandwidth is the width of one slot.
func (s BandScale) Bandwidth() float64 { return s.bandwidth }

// Step is the distance between slot starts.
func (s BandScale) Step() float64 { return math.Abs(s.step) }

// Domain returns the distinct names in order.
func (s BandScale) Domain() []string { return append([]string(nil), s.domain...) }

// LinearScale maps a numeric domain onto a pixel range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinearScale builds a scale with an empty [0,1] domain.
func NewLinearScale(r0, r1 float64) LinearScale {
	return LinearScale{D0: 0, D1: 1, R0: r0, R1: r1}
}

// WithDomain returns a copy with the domain replaced.
func (s LinearScale) WithDomain(d0, d1 float64) LinearScale {
	s.D0, s.D1 = d0, d1
	return s
}

// Scale maps v into the range. A zero-width domain maps everything to the range midpoint.
func (s LinearScale) Scale(v float64) float64 {
	span := s.D1 - s.D0
	var t float64
	switch {
	case math.IsNaN(span):
		return math.NaN()
	case span == 0:
		t = 0.5
	default:
		t = (v - s.D0) / span
	}
	return s.R0 + t*(s.R1-s.R0)
}

// Ticks returns roughly count human-friendly values spanning the domain.
func (s LinearScale) Ticks(count int) []float64 {
	return ticks(s.D0, s.D1, count)
}

var (
	tickE10 = math.Sqrt(50)
	tickE5  = math.Sqrt(10)
	tickE2  = math.Sqrt(2)
)

func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= tickE10:
		factor = 10
	case errRatio >= tickE5:
		factor = 5
	case errRatio >= tickE2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func ticks(start, stop float64, count int) []float64 {
	if math.IsNaN(start) || math.IsNaN(stop) || count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}
	var out []float64
	if inc > 0 {
		lo, hi := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := lo; i <= hi; i++ {
			out = append(out, i*inc)
		}
	} else {
		inc = -inc
		lo, hi := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := lo; i <= hi; i++ {
			out = append(out, i/inc)
		}
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// formatNumber prints the shortest decimal representation of v.
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCoord prints geometry with at most three decimals.
func formatCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
