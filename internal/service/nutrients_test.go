package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/service"
)

func TestRecipeEnergyChickenRice(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	r, _ := c.Recipes.Find("Chicken Rice")

	kcal, err := service.RecipeEnergy(c.Ingredients, r, 1)
	if err != nil {
		t.Fatalf("recipe energy: %v", err)
	}
	if kcal != 755 {
		t.Fatalf("expected 755 kcal (495 chicken + 260 rice), got %v", kcal)
	}
}

func TestGramAndUnitEnergyAgree(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	chicken, _ := c.Ingredients.Find("Chicken Breast")

	for _, grams := range []float64{0, 75, 150, 420} {
		byGram, err := service.IngredientEnergy(chicken, grams, model.UnitGram)
		if err != nil {
			t.Fatalf("energy in grams: %v", err)
		}
		byUnit, err := service.IngredientEnergy(chicken, grams/chicken.GramsPerUnit, model.UnitCount)
		if err != nil {
			t.Fatalf("energy in units: %v", err)
		}
		if math.Abs(byGram-byUnit) > 1e-9 {
			t.Fatalf("%vg: gram energy %v != unit energy %v", grams, byGram, byUnit)
		}
	}
}

func TestRecipeRollUpIsLinearInPortion(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)

	for _, r := range c.Recipes.All() {
		base, err := service.RecipeEnergy(c.Ingredients, r, 1)
		if err != nil {
			t.Fatalf("energy %s: %v", r.Name, err)
		}
		baseProt, err := service.RecipeProtein(c.Ingredients, r, 1)
		if err != nil {
			t.Fatalf("protein %s: %v", r.Name, err)
		}
		for _, portion := range []float64{2, 3, 0.5} {
			kcal, _ := service.RecipeEnergy(c.Ingredients, r, portion)
			prot, _ := service.RecipeProtein(c.Ingredients, r, portion)
			if math.Abs(kcal-portion*base) > 0.01 || math.Abs(prot-portion*baseProt) > 0.01 {
				t.Fatalf("%s at %v: kcal=%v protein=%v base=%v/%v", r.Name, portion, kcal, prot, base, baseProt)
			}
		}
	}
}

func TestProteinPer100KcalZeroEnergyRecipe(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	r, _ := c.Recipes.Find("Salt Water")

	_, err := service.RecipeProteinPer100Kcal(c.Ingredients, r)
	if !errors.Is(err, service.ErrZeroEnergyRecipe) {
		t.Fatalf("expected ErrZeroEnergyRecipe, got %v", err)
	}
	n, err := service.NutritionFor(c.Ingredients, r, 1)
	if !errors.Is(err, service.ErrZeroEnergyRecipe) || n.ProteinPer100Kcal != 0 {
		t.Fatalf("expected zero density with error, got %+v %v", n, err)
	}
}

func TestNutritionForChickenRice(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	r, _ := c.Recipes.Find("Chicken Rice")

	n, err := service.NutritionFor(c.Ingredients, r, 2)
	if err != nil {
		t.Fatalf("nutrition: %v", err)
	}
	if n.Calories != 1510 || n.ProteinG != 196.8 {
		t.Fatalf("unexpected nutrition at portion 2: %+v", n)
	}
	// (93 + 5.4) / 755 * 100
	if n.ProteinPer100Kcal != 13.03 {
		t.Fatalf("expected protein density 13.03, got %v", n.ProteinPer100Kcal)
	}
}

func TestIngredientEnergyUnknownUnitIsAnError(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	rice, _ := c.Ingredients.Find("Rice")

	if _, err := service.IngredientEnergy(rice, 100, "ml"); !errors.Is(err, service.ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := service.IngredientProtein(rice, math.NaN(), model.UnitGram); !errors.Is(err, service.ErrNonNumericAmount) {
		t.Fatalf("expected ErrNonNumericAmount, got %v", err)
	}

	r := mustRecipe(t, c, "Rice Soup", model.RecipeLine{Ingredient: "Rice", Amount: 100, Unit: "ml"})
	if _, err := service.RecipeEnergy(c.Ingredients, r, 1); !errors.Is(err, service.ErrUnknownUnit) {
		t.Fatalf("recipe with unknown unit should report ErrUnknownUnit, got %v", err)
	}
}

func TestRecipeEnergyRejectsInvalidPortion(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	r, _ := c.Recipes.Find("Chicken Rice")

	for _, p := range []float64{0, -1, math.NaN()} {
		if _, err := service.RecipeEnergy(c.Ingredients, r, p); !errors.Is(err, service.ErrInvalidPortion) {
			t.Fatalf("portion %v: expected ErrInvalidPortion, got %v", p, err)
		}
	}
}
