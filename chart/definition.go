package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
)

var ErrBadDefinition = errors.New("bad chart definition")

// Definition is the persisted configuration of a chart.
type Definition struct {
	Title      string   `json:"title"`
	XLabel     string   `json:"xLabel"`
	YLabel     string   `json:"yLabel"`
	Period     float64  `json:"period"`
	Units      string   `json:"units,omitempty"`
	Foreground string   `json:"foreground,omitempty"`
	Background string   `json:"background,omitempty"`
	Pens       []PenDef `json:"pens"`
}

// PenDef configures one pen. Omitted limit sources mean Default.
type PenDef struct {
	Channel     string  `json:"channel"`
	Color       string  `json:"color,omitempty"`
	LowSource   string  `json:"lowSource,omitempty"`
	LowDefault  float64 `json:"lowDefault"`
	HighSource  string  `json:"highSource,omitempty"`
	HighDefault float64 `json:"highDefault"`
	Log         bool    `json:"log,omitempty"`
}

// LoadDefinition decodes a JSON definition. Unknown fields are rejected.
func LoadDefinition(r io.Reader) (*Definition, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var d Definition
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDefinition, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Definition) validate() error {
	if len(d.Pens) > PenCount {
		return fmt.Errorf("%w: %d pens, at most %d", ErrBadDefinition, len(d.Pens), PenCount)
	}
	if _, ok := ParseUnits(d.Units); !ok {
		return fmt.Errorf("%w: units %q", ErrBadDefinition, d.Units)
	}
	for _, s := range []string{d.Foreground, d.Background} {
		if s == "" {
			continue
		}
		if _, ok := parseHexColor(s); !ok {
			return fmt.Errorf("%w: color %q", ErrBadDefinition, s)
		}
	}
	for i, p := range d.Pens {
		if p.Color != "" {
			if _, ok := parseHexColor(p.Color); !ok {
				return fmt.Errorf("%w: pen %d: color %q", ErrBadDefinition, i, p.Color)
			}
		}
		for _, s := range []string{p.LowSource, p.HighSource} {
			if _, ok := ParseLimitSource(s); !ok {
				return fmt.Errorf("%w: pen %d: limit source %q", ErrBadDefinition, i, s)
			}
		}
	}
	return nil
}

// Apply configures c from d. Pens beyond len(d.Pens) are cleared.
func (d *Definition) Apply(c *Chart) error {
	if err := d.validate(); err != nil {
		return err
	}
	c.SetTitle(d.Title)
	c.SetXLabel(d.XLabel)
	c.SetYLabel(d.YLabel)
	u, _ := ParseUnits(d.Units)
	c.SetUnits(u)
	c.SetPeriod(d.Period)
	if col, ok := parseHexColor(d.Foreground); ok {
		c.SetForeground(col)
	}
	if col, ok := parseHexColor(d.Background); ok {
		c.SetBackground(col)
	}

	for i := 0; i < PenCount; i++ {
		if i >= len(d.Pens) {
			c.SetChannel(i, "")
			continue
		}
		p := d.Pens[i]
		c.SetChannel(i, p.Channel)
		col := DefaultPenColor(i)
		if v, ok := parseHexColor(p.Color); ok {
			col = v
		}
		c.SetPenColor(i, col)
		lowSrc, _ := ParseLimitSource(p.LowSource)
		highSrc, _ := ParseLimitSource(p.HighSource)
		c.SetPenLimits(i, Limits{
			LowSource:   lowSrc,
			LowDefault:  p.LowDefault,
			HighSource:  highSrc,
			HighDefault: p.HighDefault,
			Log:         p.Log,
		})
	}
	return nil
}

// DefinitionOf captures the persisted fields of c. Trailing inactive pens
// are omitted.
func DefinitionOf(c *Chart) *Definition {
	d := &Definition{
		Title:      c.title,
		XLabel:     c.xLabel,
		YLabel:     c.yLabel,
		Period:     c.period,
		Units:      c.units.String(),
		Foreground: hexColor(c.fg),
		Background: hexColor(c.bg),
	}
	last := -1
	for i := range c.traces {
		if c.traces[i].Active() {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		t := &c.traces[i]
		d.Pens = append(d.Pens, PenDef{
			Channel:     t.channel,
			Color:       hexColor(t.color),
			LowSource:   t.limits.LowSource.String(),
			LowDefault:  t.limits.LowDefault,
			HighSource:  t.limits.HighSource.String(),
			HighDefault: t.limits.HighDefault,
			Log:         t.limits.Log,
		})
	}
	return d
}

// Encode writes d as indented JSON.
func (d *Definition) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, true
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
