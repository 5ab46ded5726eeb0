package service_test

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/saadjs/grocery-cli/internal/db"
	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grocery.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

// newTestCatalog registers the chicken/rice/tofu kitchen used across tests.
func newTestCatalog(t *testing.T) *service.Catalog {
	t.Helper()
	c := service.NewCatalog()
	for _, in := range []service.IngredientInput{
		{Name: "Chicken Breast", GramsPerUnit: 150, KcalPer100g: 165, ProteinPer100g: 31},
		{Name: "Rice", KcalPer100g: 130, ProteinPer100g: 2.7},
		{Name: "Tofu", GramsPerUnit: 200, KcalPer100g: 144, ProteinPer100g: 15},
		{Name: "Spinazie", GramsPerUnit: 250, KcalPer100g: 23, ProteinPer100g: 2.9},
		{Name: "Salt"},
	} {
		if _, err := c.Ingredients.Register(in); err != nil {
			t.Fatalf("register %s: %v", in.Name, err)
		}
	}
	mustRecipe(t, c, "Chicken Rice",
		model.RecipeLine{Ingredient: "Chicken Breast", Amount: 2, Unit: model.UnitCount},
		model.RecipeLine{Ingredient: "Rice", Amount: 200, Unit: model.UnitGram},
	)
	mustRecipe(t, c, "Tofu Bowl",
		model.RecipeLine{Ingredient: "Tofu", Amount: 1, Unit: model.UnitCount},
		model.RecipeLine{Ingredient: "RICE", Amount: 150, Unit: model.UnitGram},
		model.RecipeLine{Ingredient: "Spinazie", Amount: 100, Unit: model.UnitGram},
	)
	mustRecipe(t, c, "Salt Water",
		model.RecipeLine{Ingredient: "Salt", Amount: 5, Unit: model.UnitGram},
	)
	return c
}

func mustRecipe(t *testing.T, c *service.Catalog, name string, lines ...model.RecipeLine) *model.Recipe {
	t.Helper()
	r, err := c.Recipes.Register(name, lines)
	if err != nil {
		t.Fatalf("register recipe %s: %v", name, err)
	}
	return r
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
