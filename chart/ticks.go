package chart

import (
	"image/color"
	"math"
)

const (
	MinTicks = 2
	MaxTicks = 10
	// TickGap is the minimum free space between neighbouring labels.
	TickGap = 4
)

// ChooseTickCount returns the largest number of axis divisions whose labels
// do not collide.
//
// labelsFor(n) returns every label drawn for n divisions; extent measures a
// label along the axis (text width for a horizontal axis, line height for a
// vertical one). A count n is accepted when axisPx/n leaves room for the
// widest label plus TickGap. When nothing fits, MinTicks is returned and only
// the endpoints are labelled by the caller.
func ChooseTickCount(axisPx int, labelsFor func(n int) []string, extent func(string) int) int {
	if axisPx <= 0 {
		return MinTicks
	}
	for n := MaxTicks; n > MinTicks; n-- {
		widest := 0
		for _, s := range labelsFor(n) {
			if w := extent(s); w > widest {
				widest = w
			}
		}
		if axisPx/n >= widest+TickGap {
			return n
		}
	}
	return MinTicks
}

// TickValues returns the n+1 evenly spaced values from low to high.
func TickValues(low, high float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = low + (high-low)*float64(i)/float64(n)
	}
	out[n] = high
	return out
}

// LogTickValues returns n+1 values from low to high, evenly spaced on a
// log10 axis. Both bounds must be positive.
func LogTickValues(low, high float64, n int) []float64 {
	out := TickValues(math.Log10(low), math.Log10(high), n)
	for i := range out {
		out[i] = math.Pow(10, out[i])
	}
	out[0], out[len(out)-1] = low, high
	return out
}

func tickLabels(low, high float64, n int) []string {
	return formatTicks(TickValues(low, high, n))
}

// scaleLabels returns the n+1 labels of a value axis, bottom to top.
func scaleLabels(s Scale, n int) []string {
	if s.Log {
		return formatTicks(LogTickValues(s.Low, s.High, n))
	}
	return tickLabels(s.Low, s.High, n)
}

func formatTicks(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatNumberText(v)
	}
	return out
}

// TraceRange is the resolved range of one active trace.
type TraceRange struct {
	Pen   int
	Color color.RGBA
	Low   float64
	High  float64
	Log   bool
}

// Scale is one drawn value axis, shared by every trace with the same range.
type Scale struct {
	Low, High float64
	Log       bool
	Pens      []int
	Colors    []color.RGBA
}

// GroupScales merges traces with identical ranges and axis kinds into one
// scale. Scales are
// ordered by their first member.
func GroupScales(ranges []TraceRange) []Scale {
	var out []Scale
	for _, r := range ranges {
		found := false
		for i := range out {
			if out[i].Low == r.Low && out[i].High == r.High && out[i].Log == r.Log {
				out[i].Pens = append(out[i].Pens, r.Pen)
				out[i].Colors = append(out[i].Colors, r.Color)
				found = true
				break
			}
		}
		if found {
			continue
		}
		out = append(out, Scale{
			Low:    r.Low,
			High:   r.High,
			Log:    r.Log,
			Pens:   []int{r.Pen},
			Colors: []color.RGBA{r.Color},
		})
	}
	return out
}
