// report/excel.go
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dalemusser/emailcheck/selftest"
)

// Sheet names used in the workbook.
const (
	SheetResults = "Results"
	SheetSummary = "Summary"
)

const failFill = "#F8D7DA"

// sheet accumulates rows for one worksheet and writes them on build.
type sheet struct {
	file    *excelize.File
	name    string
	headers []string
	rows    [][]any
	failed  map[int]bool // data row index -> highlight
}

func newSheet(f *excelize.File, name string, headers ...string) *sheet {
	return &sheet{file: f, name: name, headers: headers, failed: make(map[int]bool)}
}

func (s *sheet) row(values ...any) int {
	s.rows = append(s.rows, values)
	return len(s.rows) - 1
}

func (s *sheet) build() error {
	f := s.file
	for i, h := range s.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.name, cell, h); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, 1)
	end, _ := excelize.CoordinatesToCellName(len(s.headers), 1)
	if err := f.SetCellStyle(s.name, start, end, headerStyle); err != nil {
		return err
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{failFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	widths := make([]float64, len(s.headers))
	for i, h := range s.headers {
		widths[i] = max(10, float64(len(h))*1.2)
	}

	for r, values := range s.rows {
		rowNum := r + 2
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNum)
			if err := f.SetCellValue(s.name, cell, v); err != nil {
				return err
			}
			if c < len(widths) {
				widths[c] = min(50, max(widths[c], float64(len(fmt.Sprint(v)))*1.1))
			}
		}
		if s.failed[r] {
			a, _ := excelize.CoordinatesToCellName(1, rowNum)
			b, _ := excelize.CoordinatesToCellName(len(values), rowNum)
			if err := f.SetCellStyle(s.name, a, b, failStyle); err != nil {
				return err
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}

	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// Workbook builds the xlsx workbook for rep. The caller must Close it.
func Workbook(rep selftest.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, err
	}

	results := newSheet(f, SheetResults, columns...)
	for _, r := range rep.Results {
		idx := results.row(r.Test, r.Name, FormatInput(r.Input), r.Expected, r.Actual, r.Reason.String(), r.Passed)
		results.failed[idx] = !r.Passed
	}

	summary := newSheet(f, SheetSummary, "run_id", "total", "passed", "failed", "complete")
	summary.row(rep.RunID, rep.Summary.Total, rep.Summary.Passed, rep.Summary.Failed, rep.Complete)

	for _, s := range []*sheet{results, summary} {
		if err := s.build(); err != nil {
			f.Close()
			return nil, fmt.Errorf("report: build sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

func writeExcel(w io.Writer, rep selftest.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}
