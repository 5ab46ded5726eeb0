package workbook

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/saadjs/grocery-cli/internal/model"
)

const (
	SheetCombined  = "Combined"
	SheetPerRecipe = "Per Recipe"
)

// ExportFileName returns the export file name for a date, e.g. Grocery_List_2026-03-01.xlsx.
func ExportFileName(date time.Time) string {
	return fmt.Sprintf("Grocery_List_%s.xlsx", date.Format(dateLayout))
}

func ExportPath(dir string, date time.Time) string {
	return filepath.Join(dir, ExportFileName(date))
}

// WriteShoppingList writes the Combined and Per Recipe views. Empty views are
// omitted; callers must not call it with both views empty.
func WriteShoppingList(path string, combined []model.CombinedLine, perRecipe []model.PerRecipeLine) error {
	if len(combined) == 0 && len(perRecipe) == 0 {
		return fmt.Errorf("write shopping list: no rows")
	}
	var sheets []sheetData
	if len(combined) > 0 {
		s := sheetData{name: SheetCombined, header: []any{"Ingredient", "Amount", "Unit"}}
		for _, c := range combined {
			s.rows = append(s.rows, []any{c.Ingredient, c.Amount, string(c.Unit)})
		}
		sheets = append(sheets, s)
	}
	if len(perRecipe) > 0 {
		s := sheetData{name: SheetPerRecipe, header: []any{"Recipe", "Portion", "Ingredient", "IngredientKey", "Amount", "Unit", "Notes"}}
		for _, p := range perRecipe {
			s.rows = append(s.rows, []any{p.Recipe, p.Portion, p.Ingredient, p.IngredientKey, p.Amount, string(p.Unit), p.Notes})
		}
		sheets = append(sheets, s)
	}
	return writeSheets(path, sheets)
}
