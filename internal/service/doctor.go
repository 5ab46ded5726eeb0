package service

import (
	"database/sql"
	"fmt"
)

type DoctorReport struct {
	UnknownUnitRows    int      `json:"unknown_unit_rows"`
	DuplicateLogLines  int      `json:"duplicate_log_lines"`
	DatesMissingView   int      `json:"dates_missing_view"`
	FixedUnitRows      int      `json:"fixed_unit_rows,omitempty"`
	CatalogWarnings    int      `json:"catalog_warnings"`
	ZeroEnergyRecipes  []string `json:"zero_energy_recipes,omitempty"`
	MissingUnitWeight  []string `json:"missing_unit_weight,omitempty"`
	UnknownRecipeUnits []string `json:"unknown_recipe_units,omitempty"`
}

// Issues reports whether any check failed. Catalog notes on zero-energy
// recipes and missing unit weights are informational.
func (r DoctorReport) Issues() bool {
	return r.UnknownUnitRows > 0 || r.DuplicateLogLines > 0 || r.DatesMissingView > 0 ||
		r.CatalogWarnings > 0 || len(r.UnknownRecipeUnits) > 0
}

// RunDoctor checks the history log and, when catalog is non-nil, the loaded
// catalog. With fix, log units that only differ in case or spacing are
// rewritten to their canonical code.
func RunDoctor(db *sql.DB, catalog *Catalog, report *LoadReport, fix bool) (DoctorReport, error) {
	out := DoctorReport{}

	if fix {
		fixed, err := fixLogUnits(db)
		if err != nil {
			return out, err
		}
		out.FixedUnitRows = fixed
	}

	if err := db.QueryRow(`
SELECT
  (SELECT COUNT(1) FROM log_per_recipe WHERE unit NOT IN ('g', 'u')) +
  (SELECT COUNT(1) FROM log_combined WHERE unit NOT IN ('g', 'u'))
`).Scan(&out.UnknownUnitRows); err != nil {
		return out, fmt.Errorf("doctor unit check: %w", err)
	}
	if err := db.QueryRow(`
SELECT COALESCE(SUM(cnt-1),0) FROM (
  SELECT COUNT(*) AS cnt
  FROM log_combined
  GROUP BY export_date, ingredient, unit
  HAVING cnt > 1
)
`).Scan(&out.DuplicateLogLines); err != nil {
		return out, fmt.Errorf("doctor duplicate query: %w", err)
	}
	if err := db.QueryRow(`
SELECT COUNT(1) FROM (
  SELECT export_date FROM log_per_recipe
  EXCEPT
  SELECT export_date FROM log_combined
)
`).Scan(&out.DatesMissingView); err != nil {
		return out, fmt.Errorf("doctor log date check: %w", err)
	}

	if report != nil {
		out.CatalogWarnings = len(report.Warnings)
	}
	if catalog != nil {
		for _, recipe := range catalog.Recipes.Sorted() {
			for _, line := range recipe.Lines {
				if _, err := ParseUnit(string(line.Unit)); err != nil {
					out.UnknownRecipeUnits = append(out.UnknownRecipeUnits, fmt.Sprintf("%s: %s %q", recipe.Name, line.Ingredient, line.Unit))
				}
			}
			if kcal, err := RecipeEnergy(catalog.Ingredients, recipe, 1); err == nil && kcal == 0 {
				out.ZeroEnergyRecipes = append(out.ZeroEnergyRecipes, recipe.Name)
			}
		}
		for _, ing := range catalog.Ingredients.Sorted() {
			if ing.GramsPerUnit <= 0 {
				out.MissingUnitWeight = append(out.MissingUnitWeight, ing.Name)
			}
		}
	}
	return out, nil
}

func fixLogUnits(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	fixed := 0
	for _, table := range []string{"log_per_recipe", "log_combined"} {
		res, err := tx.Exec(`UPDATE ` + table + ` SET unit = lower(trim(unit)) WHERE unit NOT IN ('g', 'u') AND lower(trim(unit)) IN ('g', 'u')`)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("doctor fix units in %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("doctor fix units in %s: %w", table, err)
		}
		fixed += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("doctor fix commit: %w", err)
	}
	return fixed, nil
}
