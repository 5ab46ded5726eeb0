package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetIngredients = "Ingredients"
	SheetRecipes     = "Recipes"
)

// IngredientRow is one row of the Ingredients sheet with cells kept as text.
type IngredientRow struct {
	Row          int
	Name         string
	GramsPerUnit string
	URL          string
	Kcal100g     string
	Prot100g     string
	PriceURL     string
}

// RecipeRow is one row of the Recipes sheet with cells kept as text.
type RecipeRow struct {
	Row        int
	Recipe     string
	Ingredient string
	Amount     string
	Unit       string
}

type Catalog struct {
	Ingredients []IngredientRow
	Recipes     []RecipeRow
}

// ReadCatalog reads the Ingredients and Recipes sheets. A missing file, sheet or
// required column is an error; cell contents are not validated here.
func ReadCatalog(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	ingredients, err := readTable(f, SheetIngredients, "name", "gramPerUnit")
	if err != nil {
		return nil, err
	}
	recipes, err := readTable(f, SheetRecipes, "recipe_name", "ingredient", "amount", "unit")
	if err != nil {
		return nil, err
	}

	out := &Catalog{}
	for i, row := range ingredients.rows {
		if blank(row) {
			continue
		}
		out.Ingredients = append(out.Ingredients, IngredientRow{
			Row:          ingredients.offset + i,
			Name:         ingredients.cell(row, "name"),
			GramsPerUnit: ingredients.cell(row, "gramPerUnit"),
			URL:          ingredients.cell(row, "url"),
			Kcal100g:     ingredients.cell(row, "kcal_100g"),
			Prot100g:     ingredients.cell(row, "prot_100g"),
			PriceURL:     ingredients.cell(row, "priceurl"),
		})
	}
	for i, row := range recipes.rows {
		if blank(row) {
			continue
		}
		out.Recipes = append(out.Recipes, RecipeRow{
			Row:        recipes.offset + i,
			Recipe:     recipes.cell(row, "recipe_name"),
			Ingredient: recipes.cell(row, "ingredient"),
			Amount:     recipes.cell(row, "amount"),
			Unit:       recipes.cell(row, "unit"),
		})
	}
	return out, nil
}

// WriteCatalog writes a catalog workbook in the layout ReadCatalog expects.
func WriteCatalog(path string, c *Catalog) error {
	ing := sheetData{
		name:   SheetIngredients,
		header: []any{"name", "gramPerUnit", "url", "kcal_100g", "prot_100g", "priceurl"},
	}
	for _, r := range c.Ingredients {
		ing.rows = append(ing.rows, []any{r.Name, numberOrText(r.GramsPerUnit), r.URL, numberOrText(r.Kcal100g), numberOrText(r.Prot100g), r.PriceURL})
	}
	rec := sheetData{
		name:   SheetRecipes,
		header: []any{"recipe_name", "ingredient", "amount", "unit"},
	}
	for _, r := range c.Recipes {
		rec.rows = append(rec.rows, []any{r.Recipe, r.Ingredient, numberOrText(r.Amount), r.Unit})
	}
	return writeSheets(path, []sheetData{ing, rec})
}
