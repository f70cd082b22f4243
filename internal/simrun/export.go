package simrun

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"trendscope/chart"
)

const (
	historySheet = "History"
	summarySheet = "Summary"
)

// Workbook writes the histories of c's active pens, newest row last, and a
// summary of the chart configuration and readouts.
func Workbook(c *chart.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		f.Close()
		return nil, err
	}

	var pens []int
	rows := 0
	for i := 0; i < chart.PenCount; i++ {
		t := c.Trace(i)
		if !t.Active() {
			continue
		}
		pens = append(pens, i)
		if n := t.History().Len(); n > rows {
			rows = n
		}
	}

	header := []any{"column", "age (s)"}
	for _, i := range pens {
		header = append(header, c.Trace(i).Channel())
	}
	if err := putRow(f, historySheet, 1, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: header: %w", err)
	}

	interval := c.Sampler().Interval().Seconds()
	for r := 0; r < rows; r++ {
		row := []any{r, -float64(rows-1-r) * interval}
		for _, i := range pens {
			h := c.Trace(i).History()
			idx := r - (rows - h.Len())
			if idx < 0 {
				row = append(row, nil)
				continue
			}
			if v, ok := h.At(idx).Value(); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		if err := putRow(f, historySheet, r+2, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("export: row %d: %w", r, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	summary := [][]any{
		{"title", c.Title()},
		{"period", c.Period()},
		{"units", c.Units().String()},
		{"interval (s)", interval},
	}
	for _, i := range pens {
		summary = append(summary, []any{fmt.Sprintf("pen %d", i), c.Readout(i)})
	}
	for r, row := range summary {
		if err := putRow(f, summarySheet, r+1, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("export: summary: %w", err)
		}
	}
	return f, nil
}

// putRow writes row from column A of the 1-based sheet row r.
func putRow(f *excelize.File, sheet string, r int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &row)
}
