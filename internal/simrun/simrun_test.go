package simrun

import (
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"trendscope/chart"
	"trendscope/gfx"
	"trendscope/hal"
)

func newChart(channels ...string) *chart.Chart {
	f := gfx.NewFaceFont(nil)
	c := chart.New(f, gfx.ImageFactory(f))
	c.SetGeometry(320, 200)
	for i, name := range channels {
		c.SetChannel(i, name)
	}
	return c
}

func TestSessionSamplesSignals(t *testing.T) {
	c := newChart("SIM:SINE", "SIM:BOGUS")
	s := Start(c)

	if len(s.Unknown) != 1 || !errors.Is(s.Unknown[0], hal.ErrUnknownChannel) {
		t.Fatalf("Unknown = %v, want one ErrUnknownChannel", s.Unknown)
	}
	if s.Columns() != 1 {
		t.Fatalf("Columns() after Start = %d, want 1", s.Columns())
	}
	if v, ok := c.Trace(0).History().At(0).Value(); !ok || v != 50 {
		t.Fatalf("first column = %v,%v, want 50,true", v, ok)
	}
	if lo, hi, valid := chart.ResolveRange(c.Trace(0)); lo != 0 || hi != 100 || valid != true {
		t.Fatalf("ResolveRange() = %v,%v,%v", lo, hi, valid)
	}

	iv := c.Sampler().Interval()
	s.Advance(10 * time.Second)
	if want := 1 + int(10*time.Second/iv); s.Columns() != want {
		t.Fatalf("Columns() = %d, want %d", s.Columns(), want)
	}
	if !s.Now().Equal(Epoch.Add(10 * time.Second)) {
		t.Fatalf("Now() = %v", s.Now())
	}
	bogus := c.Trace(1).History()
	for i := 0; i < bogus.Len(); i++ {
		if _, ok := bogus.At(i).Value(); ok {
			t.Fatalf("unknown channel sampled a value at %d", i)
		}
	}
}

func TestSessionFlakyChannel(t *testing.T) {
	c := newChart("SIM:FLAKY")
	s := Start(c)
	tr := c.Trace(0)

	s.Advance(5500 * time.Millisecond)
	h := tr.History()
	if _, ok := h.At(h.Len() - 1).Value(); ok || !tr.Connected() {
		t.Fatalf("NaN phase: newest present=%v connected=%v, want tombstone while connected", ok, tr.Connected())
	}

	s.Advance(3500 * time.Millisecond)
	if tr.Connected() {
		t.Fatalf("FLAKY connected during its dropout")
	}
	for i := 0; i < h.Len(); i++ {
		if _, ok := h.At(i).Value(); ok {
			t.Fatalf("history kept a value across the disconnect at %d", i)
		}
	}
	if _, _, ok := tr.LiveLimits(); ok {
		t.Fatalf("live limits kept across the disconnect")
	}
}

func TestWorkbook(t *testing.T) {
	c := newChart("SIM:SINE", "SIM:BOGUS")
	s := Start(c)
	s.Advance(2 * time.Second)

	f, err := Workbook(c)
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != c.Trace(0).History().Len()+1 {
		t.Fatalf("len(rows) = %d, want %d", len(rows), c.Trace(0).History().Len()+1)
	}
	header := rows[0]
	if len(header) != 4 || header[2] != "SIM:SINE" || header[3] != "SIM:BOGUS" {
		t.Fatalf("header = %q", header)
	}
	if got, _ := f.GetCellValue(historySheet, "C2"); got != "50" {
		t.Fatalf("C2 = %q, want 50", got)
	}
	if got, _ := f.GetCellValue(historySheet, "D2"); got != "" {
		t.Fatalf("D2 = %q, want empty", got)
	}

	if got, _ := f.GetCellValue(summarySheet, "B1"); got != c.Title() {
		t.Fatalf("summary title = %q, want %q", got, c.Title())
	}
	if got, _ := f.GetCellValue(summarySheet, "B5"); got != c.Readout(0) {
		t.Fatalf("summary pen 0 = %q, want %q", got, c.Readout(0))
	}
}

func TestPutRowRejectsBadRow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := putRow(f, "Sheet1", 0, []any{"x"}); err == nil {
		t.Fatalf("putRow(row 0) error = nil, want error")
	}
	if err := putRow(f, "Sheet1", 3, []any{"x", 2}); err != nil {
		t.Fatalf("putRow(row 3) error = %v", err)
	}
	if got, _ := f.GetCellValue("Sheet1", "B3"); got != "2" {
		t.Fatalf("B3 = %q, want 2", got)
	}
}
