// Package export writes report tables to XLSX workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Table is one worksheet of a report.
type Table struct {
	Sheet   string
	Title   string
	Headers []string
	Rows    [][]any
	Totals  []any
}

// XLSX renders the tables into a workbook, one sheet each.
func XLSX(tables ...Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		name := t.Sheet
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		if err := writeTable(f, name, t, bold); err != nil {
			return nil, fmt.Errorf("export: sheet %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, t Table, bold int) error {
	row := 1
	if t.Title != "" {
		if err := f.SetCellValue(sheet, "A1", t.Title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
			return err
		}
		row = 3
	}

	if err := setRow(f, sheet, row, toAny(t.Headers)); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(max(len(t.Headers), 1), row)
	if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
		return err
	}

	for _, r := range t.Rows {
		row++
		if err := setRow(f, sheet, row, r); err != nil {
			return err
		}
	}

	if len(t.Totals) > 0 {
		row++
		if err := setRow(f, sheet, row, t.Totals); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(t.Totals), row)
		if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
