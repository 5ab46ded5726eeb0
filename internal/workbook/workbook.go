// Package workbook reads and writes the xlsx files the planner exchanges with
// the outside world: the catalog workbook, shopping-list exports and the
// history log workbook.
package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

type sheetData struct {
	name   string
	header []any
	rows   [][]any
}

// writeSheets writes each sheet with a StreamWriter and saves the file to path.
// The first sheet replaces the default "Sheet1".
func writeSheets(path string, sheets []sheetData) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", sheet.name, err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet.name, err)
		}
		sw, err := f.NewStreamWriter(sheet.name)
		if err != nil {
			return fmt.Errorf("open stream writer for %q: %w", sheet.name, err)
		}
		if err := sw.SetRow("A1", sheet.header); err != nil {
			return fmt.Errorf("write %q header: %w", sheet.name, err)
		}
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return fmt.Errorf("resolve %q row %d: %w", sheet.name, r+2, err)
			}
			if err := sw.SetRow(cell, row); err != nil {
				return fmt.Errorf("write %q row %d: %w", sheet.name, r+2, err)
			}
		}
		if err := sw.Flush(); err != nil {
			return fmt.Errorf("flush sheet %q: %w", sheet.name, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// table is a sheet read into a header index plus data rows.
type table struct {
	sheet   string
	headers map[string]int
	rows    [][]string
	offset  int // spreadsheet row number of rows[0]
}

func readTable(f *excelize.File, sheet string, required ...string) (*table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}
	t := &table{sheet: sheet, headers: map[string]int{}, offset: 2}
	for i, h := range rows[0] {
		t.headers[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := t.headers[strings.ToLower(name)]; !ok {
			return nil, fmt.Errorf("sheet %q is missing required column %q", sheet, name)
		}
	}
	t.rows = rows[1:]
	return t, nil
}

func (t *table) cell(row []string, column string) string {
	i, ok := t.headers[strings.ToLower(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts ISO dates, ISO date-times and Excel date serials.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{dateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date serial %q: %w", raw, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

// numberOrText stores numeric-looking text as a number cell.
func numberOrText(v string) any {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return f
	}
	return v
}
