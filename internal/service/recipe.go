package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saadjs/grocery-cli/internal/model"
)

// RecipeRegistry holds recipes whose ingredient lines all resolve against the
// ingredient registry it was built with.
type RecipeRegistry struct {
	ingredients *IngredientRegistry
	items       map[string]*model.Recipe
	order       []string
}

func NewRecipeRegistry(ingredients *IngredientRegistry) *RecipeRegistry {
	return &RecipeRegistry{
		ingredients: ingredients,
		items:       map[string]*model.Recipe{},
	}
}

func (r *RecipeRegistry) Ingredients() *IngredientRegistry {
	return r.ingredients
}

// Register validates and stores a recipe. Checks run in order: the recipe has
// lines, every line's ingredient is registered (by raw name or key), and the
// recipe key is new. A rejected recipe leaves the registry unchanged.
// Repeated ingredients keep their first position and take the last amount and unit.
func (r *RecipeRegistry) Register(name string, lines []model.RecipeLine) (*model.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("recipe name is required")
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("recipe %q: %w", name, ErrEmptyRecipe)
	}
	for _, line := range lines {
		if !r.ingredients.has(line.Ingredient) {
			return nil, fmt.Errorf("recipe %q: ingredient %q: %w", name, line.Ingredient, ErrMissingIngredient)
		}
	}
	key := MakeKey(name)
	if _, ok := r.items[key]; ok {
		return nil, fmt.Errorf("recipe %q: %w", name, ErrDuplicateRecipe)
	}

	recipe := &model.Recipe{Key: key, Name: name}
	position := map[string]int{}
	for _, line := range lines {
		line.Unit = NormalizeUnit(string(line.Unit))
		if i, ok := position[line.Ingredient]; ok {
			recipe.Lines[i] = line
			continue
		}
		position[line.Ingredient] = len(recipe.Lines)
		recipe.Lines = append(recipe.Lines, line)
	}

	r.items[key] = recipe
	r.order = append(r.order, key)
	return recipe, nil
}

func (r *RecipeRegistry) Find(name string) (*model.Recipe, error) {
	if recipe, ok := r.items[MakeKey(name)]; ok {
		return recipe, nil
	}
	return nil, fmt.Errorf("recipe %q: %w", strings.TrimSpace(name), ErrRecipeNotFound)
}

func (r *RecipeRegistry) Len() int {
	return len(r.items)
}

// All returns recipes in registration order.
func (r *RecipeRegistry) All() []*model.Recipe {
	out := make([]*model.Recipe, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out
}

func (r *RecipeRegistry) Sorted() []*model.Recipe {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Label returns the recipe's display name, or name itself when it is not registered.
func (r *RecipeRegistry) Label(name string) string {
	if recipe, err := r.Find(name); err == nil {
		return recipe.Name
	}
	return name
}

// LineItems expands a recipe at the given portion. Each line resolves to the
// ingredient's display label, falling back to the stored name.
func (r *RecipeRegistry) LineItems(recipe *model.Recipe, portion float64) []model.LineItem {
	items := make([]model.LineItem, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		items = append(items, model.LineItem{
			Ingredient:    r.ingredients.Label(line.Ingredient),
			IngredientKey: MakeKey(line.Ingredient),
			Amount:        line.Amount * portion,
			Unit:          line.Unit,
			Source:        model.SourceRecipe,
			Recipe:        recipe.Name,
		})
	}
	return items
}

// UniqueIngredients counts distinct ingredient keys in a recipe.
func UniqueIngredients(recipe *model.Recipe) int {
	seen := map[string]struct{}{}
	for _, line := range recipe.Lines {
		seen[MakeKey(line.Ingredient)] = struct{}{}
	}
	return len(seen)
}
