package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/workbook"
	"github.com/sirupsen/logrus"
)

// Catalog bundles the two registries built at startup.
type Catalog struct {
	Ingredients *IngredientRegistry
	Recipes     *RecipeRegistry
}

func NewCatalog() *Catalog {
	ingredients := NewIngredientRegistry()
	return &Catalog{Ingredients: ingredients, Recipes: NewRecipeRegistry(ingredients)}
}

type LoadReport struct {
	Ingredients         int      `json:"ingredients"`
	Recipes             int      `json:"recipes"`
	RejectedIngredients int      `json:"rejected_ingredients"`
	RejectedRecipes     int      `json:"rejected_recipes"`
	Warnings            []string `json:"warnings,omitempty"`
}

func (r *LoadReport) warn(log logrus.FieldLogger, fields logrus.Fields, msg string) {
	r.Warnings = append(r.Warnings, msg)
	log.WithFields(fields).Warn(msg)
}

// OpenCatalog reads a catalog workbook and registers its contents. Only an
// unreadable workbook is an error; bad rows and recipes are skipped and reported.
func OpenCatalog(path string, log logrus.FieldLogger) (*Catalog, *LoadReport, error) {
	rows, err := workbook.ReadCatalog(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	c, report := LoadCatalog(rows, log)
	log.WithFields(logrus.Fields{
		"path":        path,
		"ingredients": report.Ingredients,
		"recipes":     report.Recipes,
	}).Debug("catalog loaded")
	return c, report, nil
}

// LoadCatalog registers ingredients first, then recipes grouped by name in
// sorted name order.
func LoadCatalog(rows *workbook.Catalog, log logrus.FieldLogger) (*Catalog, *LoadReport) {
	c := NewCatalog()
	report := &LoadReport{}

	for _, row := range rows.Ingredients {
		fields := logrus.Fields{"sheet": workbook.SheetIngredients, "row": row.Row, "ingredient": row.Name}
		in, err := ingredientInputFromRow(row)
		if err == nil {
			_, err = c.Ingredients.Register(in)
		}
		if err != nil {
			report.RejectedIngredients++
			report.warn(log, fields, fmt.Sprintf("%s row %d: %v", workbook.SheetIngredients, row.Row, err))
			continue
		}
		report.Ingredients++
	}

	groups := map[string][]model.RecipeLine{}
	var names []string
	for _, row := range rows.Recipes {
		name := strings.TrimSpace(row.Recipe)
		if name == "" {
			report.warn(log, logrus.Fields{"sheet": workbook.SheetRecipes, "row": row.Row},
				fmt.Sprintf("%s row %d: recipe name is empty", workbook.SheetRecipes, row.Row))
			continue
		}
		amount, err := ParseAmount(row.Amount)
		if err != nil {
			report.warn(log, logrus.Fields{"sheet": workbook.SheetRecipes, "row": row.Row, "recipe": name},
				fmt.Sprintf("%s row %d: %v; counted as 0", workbook.SheetRecipes, row.Row, err))
			amount = 0
		}
		if _, err := ParseUnit(row.Unit); err != nil {
			report.warn(log, logrus.Fields{"sheet": workbook.SheetRecipes, "row": row.Row, "recipe": name},
				fmt.Sprintf("%s row %d: %v", workbook.SheetRecipes, row.Row, err))
		}
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], model.RecipeLine{
			Ingredient: strings.TrimSpace(row.Ingredient),
			Amount:     amount,
			Unit:       model.Unit(row.Unit),
		})
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := c.Recipes.Register(name, groups[name]); err != nil {
			report.RejectedRecipes++
			report.warn(log, logrus.Fields{"sheet": workbook.SheetRecipes, "recipe": name}, err.Error())
			continue
		}
		report.Recipes++
	}
	return c, report
}

func ingredientInputFromRow(row workbook.IngredientRow) (IngredientInput, error) {
	grams, err := ParseAmount(row.GramsPerUnit)
	if err != nil {
		return IngredientInput{}, fmt.Errorf("gramPerUnit: %w", err)
	}
	kcal, err := ParseAmount(row.Kcal100g)
	if err != nil {
		return IngredientInput{}, fmt.Errorf("kcal_100g: %w", err)
	}
	prot, err := ParseAmount(row.Prot100g)
	if err != nil {
		return IngredientInput{}, fmt.Errorf("prot_100g: %w", err)
	}
	return IngredientInput{
		Name:           row.Name,
		GramsPerUnit:   grams,
		URL:            row.URL,
		KcalPer100g:    kcal,
		ProteinPer100g: prot,
		PriceURL:       row.PriceURL,
	}, nil
}
