package chart

const (
	outerMargin = 3
	innerMargin = 6
	tickLen     = 3
	markSize    = 4
	gridLines   = 5

	// MinWidth and MinHeight are the smallest widget sizes the layout is
	// tuned for. Smaller widgets still paint, possibly with an empty plot.
	MinWidth  = 120
	MinHeight = 80
)

type scaleColumn struct {
	scale Scale
	x     int // left edge
	w     int
}

type layout struct {
	frame  Rect
	title  Rect
	xLabel Rect
	yLabel Rect
	marks  Rect
	plot   Rect

	columns []scaleColumn
}

// computeLayout splits the widget into label rows, scale columns and the
// plot rectangle. Label columns are pre-sized from FormatNumber's width
// hints so the plot width only moves when ranges change order of magnitude.
func computeLayout(w, h int, f Font, title, xLabel, yLabel string, scales []Scale, timeLabelW int) layout {
	var l layout
	l.frame = Rect{W: maxInt(w, 0), H: maxInt(h, 0)}
	content := l.frame.inset(outerMargin, outerMargin)
	if content.Empty() {
		return l
	}

	lh := f.LineHeight()
	charW := f.TextWidth("0")
	if charW < 1 {
		charW = 1
	}

	top := content.Y
	if title != "" {
		l.title = Rect{X: content.X, Y: top, W: content.W, H: lh}
		top += lh + 2
	}
	if len(scales) > 0 {
		l.marks = Rect{X: content.X, Y: top, W: content.W, H: markSize + 2}
		top += markSize + 2
	} else {
		top += lh / 2
	}

	bottom := content.Bottom()
	if xLabel != "" {
		l.xLabel = Rect{X: content.X, Y: bottom - lh, W: content.W, H: lh}
		bottom -= lh + 1
	}
	// Time labels under the plot.
	bottom -= lh + tickLen + 1

	left := content.X
	if yLabel != "" {
		l.yLabel = Rect{X: left, Y: top, W: lh, H: maxInt(bottom-top, 0)}
		left += lh + 2
	}

	right := content.Right() - timeLabelW/2 - 1
	if right < left {
		right = left
	}

	// Scale columns, nearest to the plot first, while they leave at least
	// half of the width to the plot.
	budget := (right - left) / 2
	var widths []int
	used := 0
	for _, s := range scales {
		cw := scaleColumnWidth(s, charW) + tickLen + 2
		if used+cw > budget {
			break
		}
		widths = append(widths, cw)
		used += cw
	}
	plotX := left + used
	x := plotX
	for i, cw := range widths {
		x -= cw
		l.columns = append(l.columns, scaleColumn{scale: scales[i], x: x, w: cw})
	}

	l.plot = Rect{X: plotX, Y: top, W: maxInt(right-plotX, 0), H: maxInt(bottom-top, 0)}
	return l
}

func scaleColumnWidth(s Scale, charW int) int {
	hint := 0
	for _, v := range []float64{s.Low, s.High, (s.Low + s.High) / 2} {
		if _, _, wh := FormatNumber(v); wh > hint {
			hint = wh
		}
	}
	markW := len(s.Colors) * (markSize + 1)
	return maxInt(hint*charW, markW)
}
