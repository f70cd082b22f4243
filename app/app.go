package app

import (
	"fmt"
	"os"

	"trendscope/chart"
	"trendscope/gfx"
	"trendscope/hal"
	"trendscope/tasks/trend"
)

type Config struct {
	// DefinitionPath names a chart definition JSON file. Empty selects the
	// built-in demo definition.
	DefinitionPath string
	// Live starts the chart in live mode.
	Live bool
}

// DemoDefinition charts a few of the simulated channels.
func DemoDefinition() *chart.Definition {
	return &chart.Definition{
		Title:  "Trendscope",
		XLabel: "Time (s)",
		YLabel: "Value",
		Period: 30,
		Units:  "sec",
		Pens: []chart.PenDef{
			{Channel: "SIM:SINE", LowSource: "channel", HighSource: "channel", HighDefault: 100},
			{Channel: "SIM:NOISE", LowSource: "channel", HighSource: "channel", HighDefault: 100},
			{Channel: "SIM:RAMP", LowSource: "channel", HighSource: "channel", HighDefault: 100},
			{Channel: "SIM:FLAKY", LowSource: "channel", HighSource: "channel", HighDefault: 100},
		},
	}
}

// LoadDefinition reads cfg's definition, or returns the demo one.
func LoadDefinition(cfg Config) (*chart.Definition, error) {
	if cfg.DefinitionPath == "" {
		return DemoDefinition(), nil
	}
	f, err := os.Open(cfg.DefinitionPath)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()
	d, err := chart.LoadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.DefinitionPath, err)
	}
	return d, nil
}

// New starts the trend task with the demo definition.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{Live: true})
}

// NewWithConfig builds the trend task on h and returns its step function.
// Definition errors are logged and the demo definition is used instead.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	log := h.Logger()
	def, err := LoadDefinition(cfg)
	if err != nil {
		log.WriteLineString("app: " + err.Error())
		def = DemoDefinition()
	}

	t := trend.New(h, gfx.DefaultFont())
	if err := def.Apply(t.Chart()); err != nil {
		log.WriteLineString("app: " + err.Error())
	}
	if cfg.Live {
		t.SetLive(true)
	}

	clock := h.Time()
	return guard(h, func() error { return t.Step(clock.Now()) })
}
