package service

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/saadjs/grocery-cli/internal/model"
)

const DefaultSuggestions = 5

type RecipeSuggestion struct {
	Recipe            string  `json:"recipe"`
	UniqueIngredients int     `json:"unique_ingredients"`
	KcalPerPortion    float64 `json:"kcal_per_portion"`
	Vegetarian        bool    `json:"vegetarian"`
}

func suggestionFor(c *Catalog, recipe *model.Recipe) (RecipeSuggestion, error) {
	s := RecipeSuggestion{
		Recipe:            recipe.Name,
		UniqueIngredients: UniqueIngredients(recipe),
		Vegetarian:        IsVegetarianRecipe(recipe),
	}
	kcal, err := RecipeEnergy(c.Ingredients, recipe, 1)
	s.KcalPerPortion = kcal
	return s, err
}

func limitSuggestions(in []RecipeSuggestion, n int) []RecipeSuggestion {
	if n <= 0 {
		n = DefaultSuggestions
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}

// FewestIngredients suggests the n recipes with the fewest distinct ingredients.
// Recipes whose energy cannot be computed are still ranked and reported.
func FewestIngredients(c *Catalog, n int) ([]RecipeSuggestion, []string) {
	out := make([]RecipeSuggestion, 0, c.Recipes.Len())
	var warnings []string
	for _, recipe := range c.Recipes.Sorted() {
		s, err := suggestionFor(c, recipe)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UniqueIngredients < out[j].UniqueIngredients
	})
	return limitSuggestions(out, n), warnings
}

// Lightest suggests the n recipes with the lowest energy per portion. Recipes
// whose energy cannot be computed are skipped and reported.
func Lightest(c *Catalog, n int) ([]RecipeSuggestion, []string) {
	out := make([]RecipeSuggestion, 0, c.Recipes.Len())
	var warnings []string
	for _, recipe := range c.Recipes.Sorted() {
		s, err := suggestionFor(c, recipe)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KcalPerPortion < out[j].KcalPerPortion
	})
	return limitSuggestions(out, n), warnings
}

// Vegetarian picks up to n random recipes without meat or fish. Energy errors
// are reported for every candidate, picked or not.
func Vegetarian(c *Catalog, n int, rng *rand.Rand) ([]RecipeSuggestion, []string) {
	out := make([]RecipeSuggestion, 0)
	var warnings []string
	for _, recipe := range c.Recipes.Sorted() {
		if !IsVegetarianRecipe(recipe) {
			continue
		}
		s, err := suggestionFor(c, recipe)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		out = append(out, s)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return limitSuggestions(out, n), warnings
}

// SeasonalIngredients lists catalog ingredients that are in season in month.
func SeasonalIngredients(c *Catalog, month time.Month) []string {
	var out []string
	for _, ing := range c.Ingredients.Sorted() {
		if InSeason(ing.Name, month) {
			out = append(out, ing.Name)
		}
	}
	return out
}
