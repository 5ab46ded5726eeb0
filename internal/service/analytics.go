package service

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/saadjs/grocery-cli/internal/model"
)

type ExportSummary struct {
	Date     string `json:"date"`
	Recipes  int    `json:"recipes"`
	Portions int    `json:"portions"`
}

type CategoryUsage struct {
	Category    string `json:"category"`
	Lines       int    `json:"lines"`
	Ingredients int    `json:"ingredients"`
}

type HistorySummary struct {
	FromDate           string          `json:"from_date,omitempty"`
	ToDate             string          `json:"to_date,omitempty"`
	Exports            int             `json:"exports"`
	DistinctRecipes    int             `json:"distinct_recipes"`
	TotalPortions      int             `json:"total_portions"`
	AvgRecipesPerSave  float64         `json:"avg_recipes_per_export"`
	AvgPortionsPerSave float64         `json:"avg_portions_per_export"`
	Largest            *ExportSummary  `json:"largest_export,omitempty"`
	Smallest           *ExportSummary  `json:"smallest_export,omitempty"`
	ByCategory         []CategoryUsage `json:"by_category"`
	Days               []ExportSummary `json:"exports_by_date"`
}

type FavoriteRecipe struct {
	Recipe     string  `json:"recipe"`
	Portion    int     `json:"portion"`
	Frequency  int     `json:"frequency"`
	AvgPortion float64 `json:"avg_portion"`
}

type IngredientUsage struct {
	Ingredient string     `json:"ingredient"`
	Unit       model.Unit `json:"unit"`
	Total      float64    `json:"total"`
	TimesUsed  int        `json:"times_used"`
	Category   string     `json:"category"`
}

// TrendPoint is one ingredient on one logged date. Amount is the Combined
// total; InRecipes is what the Per Recipe sheet accounts for and Extra the
// remainder added by hand.
type TrendPoint struct {
	Date       string     `json:"date"`
	Ingredient string     `json:"ingredient"`
	Amount     float64    `json:"amount"`
	InRecipes  float64    `json:"in_recipes"`
	Extra      float64    `json:"extra"`
	Unit       model.Unit `json:"unit"`
}

// IngredientPair counts the logged recipes that use both ingredients.
type IngredientPair struct {
	First   string `json:"first"`
	Second  string `json:"second"`
	Recipes int    `json:"recipes"`
}

const DefaultPairIngredients = 15

type TrendReport struct {
	Points   []TrendPoint `json:"points"`
	Warnings []string     `json:"warnings,omitempty"`
}

type RecipeStat struct {
	Recipe            string  `json:"recipe"`
	InCatalog         bool    `json:"in_catalog"`
	TimesLogged       int     `json:"times_logged"`
	AvgPortion        float64 `json:"avg_portion"`
	UniqueIngredients int     `json:"unique_ingredients"`
	KcalPerPortion    float64 `json:"kcal_per_portion"`
	ProteinPer100Kcal float64 `json:"protein_per_100kcal"`
}

// SummarizeHistory reports export counts and portions per date plus the
// category mix of logged ingredients.
func SummarizeHistory(db *sql.DB, r DateRange) (*HistorySummary, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	report := &HistorySummary{}
	if !r.From.IsZero() {
		report.FromDate = r.From.Format(logDateLayout)
	}
	if !r.To.IsZero() {
		report.ToDate = r.To.Format(logDateLayout)
	}

	days, err := loadExportSummaries(db, r)
	if err != nil {
		return nil, err
	}
	report.Days = days
	report.Exports = len(days)
	var recipes int
	for _, d := range days {
		recipes += d.Recipes
		report.TotalPortions += d.Portions
	}
	if report.Exports > 0 {
		div := float64(report.Exports)
		report.AvgRecipesPerSave = round2(float64(recipes) / div)
		report.AvgPortionsPerSave = round2(float64(report.TotalPortions) / div)
		report.Largest, report.Smallest = extremeExports(days)
	}

	cond, args := r.where("export_date")
	if err := db.QueryRow(`SELECT COUNT(DISTINCT recipe) FROM log_per_recipe WHERE `+cond, args...).Scan(&report.DistinctRecipes); err != nil {
		return nil, fmt.Errorf("count distinct recipes: %w", err)
	}

	usage, err := IngredientUsageRange(db, r)
	if err != nil {
		return nil, err
	}
	report.ByCategory = categoryBreakdown(usage)
	return report, nil
}

func loadExportSummaries(db *sql.DB, r DateRange) ([]ExportSummary, error) {
	cond, args := r.where("export_date")
	rows, err := db.Query(`
SELECT export_date, COUNT(DISTINCT recipe), COALESCE(SUM(portion), 0)
FROM (SELECT DISTINCT export_date, recipe, portion FROM log_per_recipe WHERE `+cond+`)
GROUP BY export_date
ORDER BY export_date ASC
`, args...)
	if err != nil {
		return nil, fmt.Errorf("query export summaries: %w", err)
	}
	defer rows.Close()

	items := make([]ExportSummary, 0)
	for rows.Next() {
		var d ExportSummary
		if err := rows.Scan(&d.Date, &d.Recipes, &d.Portions); err != nil {
			return nil, fmt.Errorf("scan export summary: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export summaries: %w", err)
	}
	return items, nil
}

func extremeExports(days []ExportSummary) (*ExportSummary, *ExportSummary) {
	if len(days) == 0 {
		return nil, nil
	}
	copied := make([]ExportSummary, len(days))
	copy(copied, days)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Portions < copied[j].Portions
	})
	low := copied[0]
	high := copied[len(copied)-1]
	return &high, &low
}

func categoryBreakdown(usage []IngredientUsage) []CategoryUsage {
	byName := map[string]*CategoryUsage{}
	for _, u := range usage {
		c, ok := byName[u.Category]
		if !ok {
			c = &CategoryUsage{Category: u.Category}
			byName[u.Category] = c
		}
		c.Lines += u.TimesUsed
		c.Ingredients++
	}
	out := make([]CategoryUsage, 0, len(byName))
	for _, name := range Categories() {
		if c, ok := byName[name]; ok {
			out = append(out, *c)
		}
	}
	return out
}

// FavoriteRecipes ranks recipes by average portion per export date. Portion
// sums distinct (recipe, date, portion) rows so a recipe's ingredient lines are
// counted once per save. limit <= 0 returns every recipe.
func FavoriteRecipes(db *sql.DB, r DateRange, limit int) ([]FavoriteRecipe, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	cond, args := r.where("export_date")
	rows, err := db.Query(`
SELECT recipe, SUM(portion), COUNT(DISTINCT export_date)
FROM (SELECT DISTINCT recipe, export_date, portion FROM log_per_recipe WHERE `+cond+`)
GROUP BY recipe
`, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorite recipes: %w", err)
	}
	defer rows.Close()

	out := make([]FavoriteRecipe, 0)
	for rows.Next() {
		var f FavoriteRecipe
		if err := rows.Scan(&f.Recipe, &f.Portion, &f.Frequency); err != nil {
			return nil, fmt.Errorf("scan favorite recipe: %w", err)
		}
		if f.Frequency > 0 {
			f.AvgPortion = round2(float64(f.Portion) / float64(f.Frequency))
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite recipes: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgPortion != out[j].AvgPortion {
			return out[i].AvgPortion > out[j].AvgPortion
		}
		return out[i].Recipe < out[j].Recipe
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LastExtras returns the lines of the newest logged list that no recipe
// accounts for: Combined minus Per Recipe per (ingredient, unit), positive
// remainders only. ok is false when nothing has been logged.
func LastExtras(db *sql.DB) ([]model.CombinedLine, time.Time, bool, error) {
	date, ok, err := LatestExportDate(db)
	if err != nil || !ok {
		return nil, time.Time{}, ok, err
	}
	day := DateRange{From: date, To: date}
	l, err := LoadLog(db, day)
	if err != nil {
		return nil, date, true, err
	}

	remaining := map[lineGroupKey]float64{}
	for _, c := range l.Combined {
		remaining[lineGroupKey{c.Ingredient, NormalizeUnit(string(c.Unit))}] += c.Amount
	}
	for _, p := range l.PerRecipe {
		k := lineGroupKey{p.Ingredient, NormalizeUnit(string(p.Unit))}
		if _, ok := remaining[k]; ok {
			remaining[k] -= p.Amount
		}
	}
	for k, v := range remaining {
		if v <= 1e-9 {
			delete(remaining, k)
		}
	}
	return sortedCombined(remaining), date, true, nil
}

// IngredientUsageRange totals logged Combined amounts per ingredient and unit,
// most frequently used first.
func IngredientUsageRange(db *sql.DB, r DateRange) ([]IngredientUsage, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	cond, args := r.where("export_date")
	rows, err := db.Query(`
SELECT ingredient, unit, SUM(amount), COUNT(DISTINCT export_date)
FROM log_combined
WHERE `+cond+`
GROUP BY ingredient, unit
`, args...)
	if err != nil {
		return nil, fmt.Errorf("query ingredient usage: %w", err)
	}
	defer rows.Close()

	out := make([]IngredientUsage, 0)
	for rows.Next() {
		var u IngredientUsage
		var unit string
		if err := rows.Scan(&u.Ingredient, &unit, &u.Total, &u.TimesUsed); err != nil {
			return nil, fmt.Errorf("scan ingredient usage: %w", err)
		}
		u.Unit = model.Unit(unit)
		u.Total = round2(u.Total)
		u.Category = Categorize(u.Ingredient)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredient usage: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimesUsed != out[j].TimesUsed {
			return out[i].TimesUsed > out[j].TimesUsed
		}
		if out[i].Ingredient != out[j].Ingredient {
			return out[i].Ingredient < out[j].Ingredient
		}
		return out[i].Unit < out[j].Unit
	})
	return out, nil
}

// UsageTrend converts each logged date's lines to unit counts so quantities
// of one ingredient are comparable across dates, and splits every total into
// the part used by recipes and the part added as an extra.
func UsageTrend(db *sql.DB, ingredients *IngredientRegistry, r DateRange) (*TrendReport, error) {
	l, err := LoadLog(db, r)
	if err != nil {
		return nil, err
	}

	var dates []string
	combined := map[string][]model.CombinedLine{}
	for _, row := range l.Combined {
		d := row.ExportDate.Format(logDateLayout)
		if _, ok := combined[d]; !ok {
			dates = append(dates, d)
		}
		combined[d] = append(combined[d], model.CombinedLine{Ingredient: row.Ingredient, Amount: row.Amount, Unit: row.Unit})
	}
	perRecipe := map[string][]model.CombinedLine{}
	for _, row := range l.PerRecipe {
		d := row.ExportDate.Format(logDateLayout)
		perRecipe[d] = append(perRecipe[d], model.CombinedLine{Ingredient: row.Ingredient, Amount: row.Amount, Unit: row.Unit})
	}

	report := &TrendReport{Points: make([]TrendPoint, 0, len(l.Combined))}
	seen := map[string]bool{}
	warn := func(warnings []string) {
		for _, w := range warnings {
			if !seen[w] {
				seen[w] = true
				report.Warnings = append(report.Warnings, w)
			}
		}
	}
	for _, d := range dates {
		totals, warnings := ConvertToUnits(ingredients, combined[d])
		warn(warnings)
		recipeLines, warnings := ConvertToUnits(ingredients, perRecipe[d])
		warn(warnings)
		inRecipes := map[lineGroupKey]float64{}
		for _, c := range recipeLines {
			inRecipes[lineGroupKey{c.Ingredient, c.Unit}] += c.Amount
		}
		for _, c := range totals {
			used := inRecipes[lineGroupKey{c.Ingredient, c.Unit}]
			report.Points = append(report.Points, TrendPoint{
				Date:       d,
				Ingredient: c.Ingredient,
				Amount:     round2(c.Amount),
				InRecipes:  round2(used),
				Extra:      round2(max(c.Amount-used, 0)),
				Unit:       c.Unit,
			})
		}
	}
	return report, nil
}

// IngredientPairs counts, for the topN most logged ingredients, how many
// distinct logged recipes use each pair of them. Pairs are ordered by count,
// then by name.
func IngredientPairs(db *sql.DB, r DateRange, topN int) ([]IngredientPair, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultPairIngredients
	}
	cond, args := r.where("export_date")
	rows, err := db.Query(`SELECT recipe, ingredient FROM log_per_recipe WHERE `+cond, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipe ingredients: %w", err)
	}
	defer rows.Close()

	usage := map[string]int{}
	byRecipe := map[string]map[string]bool{}
	for rows.Next() {
		var recipe, ingredient string
		if err := rows.Scan(&recipe, &ingredient); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		usage[ingredient]++
		if byRecipe[recipe] == nil {
			byRecipe[recipe] = map[string]bool{}
		}
		byRecipe[recipe][ingredient] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ingredients: %w", err)
	}

	ranked := make([]string, 0, len(usage))
	for name := range usage {
		ranked = append(ranked, name)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if usage[ranked[i]] != usage[ranked[j]] {
			return usage[ranked[i]] > usage[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	top := map[string]bool{}
	for _, name := range ranked {
		top[name] = true
	}

	counts := map[[2]string]int{}
	for _, ingredients := range byRecipe {
		var names []string
		for name := range ingredients {
			if top[name] {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for i := range names {
			for j := i + 1; j < len(names); j++ {
				counts[[2]string{names[i], names[j]}]++
			}
		}
	}

	out := make([]IngredientPair, 0, len(counts))
	for pair, n := range counts {
		out = append(out, IngredientPair{First: pair[0], Second: pair[1], Recipes: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Recipes != out[j].Recipes {
			return out[i].Recipes > out[j].Recipes
		}
		if out[i].First != out[j].First {
			return out[i].First < out[j].First
		}
		return out[i].Second < out[j].Second
	})
	return out, nil
}

// RecipeStatsRange joins logged recipe frequency with catalog nutrition. Every
// catalog recipe is listed; logged recipes missing from the catalog are listed
// with InCatalog false and a warning.
func RecipeStatsRange(db *sql.DB, catalog *Catalog, r DateRange) ([]RecipeStat, []string, error) {
	favorites, err := FavoriteRecipes(db, r, 0)
	if err != nil {
		return nil, nil, err
	}
	logged := map[string]FavoriteRecipe{}
	for _, f := range favorites {
		logged[MakeKey(f.Recipe)] = f
	}

	var warnings []string
	out := make([]RecipeStat, 0, catalog.Recipes.Len())
	for _, recipe := range catalog.Recipes.Sorted() {
		stat := RecipeStat{Recipe: recipe.Name, InCatalog: true, UniqueIngredients: UniqueIngredients(recipe)}
		if f, ok := logged[recipe.Key]; ok {
			stat.TimesLogged = f.Frequency
			stat.AvgPortion = f.AvgPortion
			delete(logged, recipe.Key)
		}
		n, err := NutritionFor(catalog.Ingredients, recipe, 1)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		stat.KcalPerPortion = n.Calories
		stat.ProteinPer100Kcal = n.ProteinPer100Kcal
		out = append(out, stat)
	}

	var orphans []FavoriteRecipe
	for _, f := range logged {
		orphans = append(orphans, f)
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Recipe < orphans[j].Recipe })
	for _, f := range orphans {
		warnings = append(warnings, fmt.Sprintf("recipe %q: %v", f.Recipe, ErrRecipeNotFound))
		out = append(out, RecipeStat{Recipe: f.Recipe, TimesLogged: f.Frequency, AvgPortion: f.AvgPortion})
	}
	return out, warnings, nil
}
