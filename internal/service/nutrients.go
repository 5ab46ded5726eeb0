package service

import (
	"fmt"
	"math"

	"github.com/saadjs/grocery-cli/internal/model"
)

type RecipeNutrition struct {
	Recipe            string  `json:"recipe"`
	Portion           float64 `json:"portion"`
	Calories          float64 `json:"calories"`
	ProteinG          float64 `json:"protein_g"`
	ProteinPer100Kcal float64 `json:"protein_per_100kcal"`
}

// IngredientEnergy returns the kcal contributed by amount of ing in unit.
func IngredientEnergy(ing *model.Ingredient, amount float64, unit model.Unit) (float64, error) {
	return ingredientContribution(ing, amount, unit, ing.KcalPerUnit, ing.KcalPer100g)
}

// IngredientProtein returns the grams of protein contributed by amount of ing in unit.
func IngredientProtein(ing *model.Ingredient, amount float64, unit model.Unit) (float64, error) {
	return ingredientContribution(ing, amount, unit, ing.ProteinPerUnit, ing.ProteinPer100g)
}

func ingredientContribution(ing *model.Ingredient, amount float64, unit model.Unit, perUnit, per100g float64) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("ingredient %q: %w", ing.Name, ErrNonNumericAmount)
	}
	switch NormalizeUnit(string(unit)) {
	case model.UnitCount:
		return amount * perUnit, nil
	case model.UnitGram:
		return amount * per100g / 100, nil
	default:
		return 0, fmt.Errorf("ingredient %q unit %q: %w", ing.Name, unit, ErrUnknownUnit)
	}
}

// RecipeEnergy sums ingredient energy over every line at the given portion,
// rounded to two decimals.
func RecipeEnergy(ingredients *IngredientRegistry, recipe *model.Recipe, portion float64) (float64, error) {
	total, err := sumRecipe(ingredients, recipe, portion, IngredientEnergy)
	if err != nil {
		return 0, err
	}
	return round2(total), nil
}

// RecipeProtein is the protein counterpart of RecipeEnergy.
func RecipeProtein(ingredients *IngredientRegistry, recipe *model.Recipe, portion float64) (float64, error) {
	total, err := sumRecipe(ingredients, recipe, portion, IngredientProtein)
	if err != nil {
		return 0, err
	}
	return round2(total), nil
}

// RecipeProteinPer100Kcal returns grams of protein per 100 kcal of one portion.
// A recipe with no energy yields ErrZeroEnergyRecipe.
func RecipeProteinPer100Kcal(ingredients *IngredientRegistry, recipe *model.Recipe) (float64, error) {
	kcal, err := RecipeEnergy(ingredients, recipe, 1)
	if err != nil {
		return 0, err
	}
	if kcal == 0 {
		return 0, fmt.Errorf("recipe %q: %w", recipe.Name, ErrZeroEnergyRecipe)
	}
	protein, err := RecipeProtein(ingredients, recipe, 1)
	if err != nil {
		return 0, err
	}
	return round2(protein / kcal * 100), nil
}

// NutritionFor collects energy, protein and protein density for a recipe. A
// zero-energy recipe reports a density of 0 together with ErrZeroEnergyRecipe.
func NutritionFor(ingredients *IngredientRegistry, recipe *model.Recipe, portion float64) (RecipeNutrition, error) {
	out := RecipeNutrition{Recipe: recipe.Name, Portion: portion}
	var err error
	if out.Calories, err = RecipeEnergy(ingredients, recipe, portion); err != nil {
		return out, err
	}
	if out.ProteinG, err = RecipeProtein(ingredients, recipe, portion); err != nil {
		return out, err
	}
	out.ProteinPer100Kcal, err = RecipeProteinPer100Kcal(ingredients, recipe)
	return out, err
}

type contributionFunc func(*model.Ingredient, float64, model.Unit) (float64, error)

func sumRecipe(ingredients *IngredientRegistry, recipe *model.Recipe, portion float64, fn contributionFunc) (float64, error) {
	if portion <= 0 || math.IsNaN(portion) {
		return 0, ErrInvalidPortion
	}
	var total float64
	for _, line := range recipe.Lines {
		ing, err := ingredients.Find(line.Ingredient)
		if err != nil {
			return 0, fmt.Errorf("recipe %q: %w", recipe.Name, err)
		}
		v, err := fn(ing, line.Amount*portion, line.Unit)
		if err != nil {
			return 0, fmt.Errorf("recipe %q: %w", recipe.Name, err)
		}
		total += v
	}
	return total, nil
}
