package workbook

import (
	"fmt"
	"math"
	"strconv"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	SheetLogPerRecipe = "Log Per Recipe"
	SheetLogCombined  = "Log Combined"
)

type Log struct {
	PerRecipe []model.LogPerRecipeRow
	Combined  []model.LogCombinedRow
	Warnings  []string
}

// ReadLog reads a history log workbook. Rows with an unreadable date or amount
// are skipped and reported in Warnings.
func ReadLog(path string) (*Log, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open log workbook: %w", err)
	}
	defer f.Close()

	per, err := readTable(f, SheetLogPerRecipe, "Recipe", "Portion", "Ingredient", "Amount", "Unit", "ExportDate")
	if err != nil {
		return nil, err
	}
	comb, err := readTable(f, SheetLogCombined, "Ingredient", "Amount", "Unit", "ExportDate")
	if err != nil {
		return nil, err
	}

	out := &Log{}
	for i, row := range per.rows {
		if blank(row) {
			continue
		}
		rowNum := per.offset + i
		date, err := parseDate(per.cell(row, "ExportDate"))
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s row %d: %v", per.sheet, rowNum, err))
			continue
		}
		amount, err := strconv.ParseFloat(per.cell(row, "Amount"), 64)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s row %d: invalid amount %q", per.sheet, rowNum, per.cell(row, "Amount")))
			continue
		}
		portion, err := strconv.ParseFloat(per.cell(row, "Portion"), 64)
		if err != nil || !validPortion(portion) {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s row %d: invalid portion %q", per.sheet, rowNum, per.cell(row, "Portion")))
			continue
		}
		out.PerRecipe = append(out.PerRecipe, model.LogPerRecipeRow{
			Recipe:     per.cell(row, "Recipe"),
			Portion:    int(portion),
			Ingredient: per.cell(row, "Ingredient"),
			Key:        per.cell(row, "IngredientKey"),
			Amount:     amount,
			Unit:       model.Unit(per.cell(row, "Unit")),
			Notes:      per.cell(row, "Notes"),
			ExportDate: date,
		})
	}
	for i, row := range comb.rows {
		if blank(row) {
			continue
		}
		rowNum := comb.offset + i
		date, err := parseDate(comb.cell(row, "ExportDate"))
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s row %d: %v", comb.sheet, rowNum, err))
			continue
		}
		amount, err := strconv.ParseFloat(comb.cell(row, "Amount"), 64)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s row %d: invalid amount %q", comb.sheet, rowNum, comb.cell(row, "Amount")))
			continue
		}
		out.Combined = append(out.Combined, model.LogCombinedRow{
			Ingredient: comb.cell(row, "Ingredient"),
			Amount:     amount,
			Unit:       model.Unit(comb.cell(row, "Unit")),
			ExportDate: date,
		})
	}
	return out, nil
}

// WriteLog writes the full history log workbook.
func WriteLog(path string, l *Log) error {
	per := sheetData{
		name:   SheetLogPerRecipe,
		header: []any{"Recipe", "Portion", "Ingredient", "IngredientKey", "Amount", "Unit", "Notes", "ExportDate"},
	}
	for _, r := range l.PerRecipe {
		per.rows = append(per.rows, []any{r.Recipe, r.Portion, r.Ingredient, r.Key, r.Amount, string(r.Unit), r.Notes, r.ExportDate.Format(dateLayout)})
	}
	comb := sheetData{
		name:   SheetLogCombined,
		header: []any{"Ingredient", "Amount", "Unit", "ExportDate"},
	}
	for _, r := range l.Combined {
		comb.rows = append(comb.rows, []any{r.Ingredient, r.Amount, string(r.Unit), r.ExportDate.Format(dateLayout)})
	}
	return writeSheets(path, []sheetData{per, comb})
}

// validPortion accepts whole, positive portion counts that fit an int32.
func validPortion(p float64) bool {
	return p > 0 && p <= math.MaxInt32 && p == math.Trunc(p)
}
