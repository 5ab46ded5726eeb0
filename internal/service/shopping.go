package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saadjs/grocery-cli/internal/model"
)

type Selection struct {
	Recipe  string `json:"recipe"`
	Portion int    `json:"portion"`
	Notes   string `json:"notes,omitempty"`
}

type ExtraItem struct {
	Ingredient string     `json:"ingredient"`
	Amount     float64    `json:"amount"`
	Unit       model.Unit `json:"unit"`
}

type ShoppingList struct {
	Lines     []model.LineItem      `json:"lines"`
	Combined  []model.CombinedLine  `json:"combined"`
	PerRecipe []model.PerRecipeLine `json:"per_recipe"`
	Warnings  []string              `json:"warnings,omitempty"`
}

func (l *ShoppingList) Empty() bool {
	return len(l.Combined) == 0 && len(l.PerRecipe) == 0
}

// BuildShoppingList expands selected recipes, appends extra ingredients and
// groups everything by ingredient label and unit. Unknown recipes and
// ingredients are skipped with a warning. The result depends only on the inputs.
func BuildShoppingList(recipes *RecipeRegistry, selections []Selection, extras []ExtraItem) (*ShoppingList, error) {
	out := &ShoppingList{}

	for _, sel := range selections {
		if sel.Portion <= 0 {
			return nil, fmt.Errorf("recipe %q: %w", sel.Recipe, ErrInvalidPortion)
		}
		recipe, err := recipes.Find(sel.Recipe)
		if err != nil {
			out.Warnings = append(out.Warnings, err.Error())
			continue
		}
		notes := strings.TrimSpace(sel.Notes)
		for _, item := range recipes.LineItems(recipe, float64(sel.Portion)) {
			item.IngredientKey = MakeKey(item.IngredientKey)
			item.Unit = NormalizeUnit(string(item.Unit))
			item.Portion = sel.Portion
			item.Notes = notes
			out.Lines = append(out.Lines, item)
			out.PerRecipe = append(out.PerRecipe, model.PerRecipeLine{
				Recipe:        recipe.Name,
				Portion:       sel.Portion,
				Ingredient:    item.Ingredient,
				IngredientKey: item.IngredientKey,
				Amount:        item.Amount,
				Unit:          item.Unit,
				Notes:         notes,
			})
		}
	}

	for _, extra := range extras {
		if extra.Amount <= 0 {
			continue
		}
		label := strings.TrimSpace(extra.Ingredient)
		if ing, err := recipes.Ingredients().Find(extra.Ingredient); err == nil {
			label = ing.Name
		} else {
			out.Warnings = append(out.Warnings, err.Error())
		}
		out.Lines = append(out.Lines, model.LineItem{
			Ingredient:    label,
			IngredientKey: MakeKey(extra.Ingredient),
			Amount:        extra.Amount,
			Unit:          NormalizeUnit(string(extra.Unit)),
			Source:        model.SourceExtra,
		})
	}

	out.Combined = CombineLines(out.Lines)
	return out, nil
}

type lineGroupKey struct {
	ingredient string
	unit       model.Unit
}

// CombineLines sums amounts per (ingredient label, unit), sorted by label then unit.
func CombineLines(lines []model.LineItem) []model.CombinedLine {
	totals := map[lineGroupKey]float64{}
	for _, line := range lines {
		totals[lineGroupKey{line.Ingredient, line.Unit}] += line.Amount
	}
	return sortedCombined(totals)
}

func sortedCombined(totals map[lineGroupKey]float64) []model.CombinedLine {
	out := make([]model.CombinedLine, 0, len(totals))
	for k, amount := range totals {
		out = append(out, model.CombinedLine{Ingredient: k.ingredient, Amount: amount, Unit: k.unit})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ingredient != out[j].Ingredient {
			return out[i].Ingredient < out[j].Ingredient
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}
