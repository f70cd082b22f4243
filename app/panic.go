package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"

	"trendscope/chart"
	"trendscope/gfx"
	"trendscope/hal"
)

// guard wraps step so a panic is logged with its stack, shown on the
// display and returned as an error that stops the runner.
func guard(h hal.HAL, step func() error) func() error {
	return func() (err error) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			stack := debug.Stack()
			reportPanic(h, v, stack)
			err = fmt.Errorf("panic: %v", v)
		}()
		return step()
	}
}

func reportPanic(h hal.HAL, v any, stack []byte) {
	var lines []string
	lines = append(lines, "Trendscope Panic:", fmt.Sprintf("panic: %v", v))
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	font := gfx.DefaultFont()
	c := gfx.WrapFramebuffer(disp.Framebuffer(), font)
	if c == nil {
		return
	}
	w, hgt := c.Size()
	c.Fill(chart.Rect{W: w, H: hgt}, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	fg := color.RGBA{A: 0xff}
	lh := font.LineHeight()
	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+lh > hgt {
				_ = c.Present()
				return
			}
			chunk, rest := fitWidth(font, line, w)
			c.DrawText(0, y, chunk, fg)
			y += lh
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = c.Present()
}

// fitWidth splits s at the longest rune prefix that fits in w pixels. At
// least one rune is always taken.
func fitWidth(f *gfx.TinyFont, s string, w int) (string, string) {
	runes := []rune(s)
	n := len(runes)
	for n > 1 && f.TextWidth(string(runes[:n])) > w {
		n--
	}
	return string(runes[:n]), string(runes[n:])
}
