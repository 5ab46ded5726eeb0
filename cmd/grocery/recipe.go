package grocery

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Inspect catalog recipes",
}

var (
	recipeJSON    bool
	recipePortion float64
	recipeVeggie  bool
)

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes with energy per portion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			type row struct {
				Name              string  `json:"name"`
				Ingredients       int     `json:"ingredients"`
				Calories          float64 `json:"calories"`
				ProteinG          float64 `json:"protein_g"`
				ProteinPer100Kcal float64 `json:"protein_per_100kcal"`
				Vegetarian        bool    `json:"vegetarian"`
			}
			var warnings []string
			rows := make([]row, 0, c.Recipes.Len())
			for _, r := range c.Recipes.Sorted() {
				veg := service.IsVegetarianRecipe(r)
				if recipeVeggie && !veg {
					continue
				}
				n, err := service.NutritionFor(c.Ingredients, r, 1)
				if err != nil {
					warnings = append(warnings, err.Error())
				}
				rows = append(rows, row{r.Name, service.UniqueIngredients(r), n.Calories, n.ProteinG, n.ProteinPer100Kcal, veg})
			}
			printWarnings(cmd, warnings)
			if recipeJSON {
				return printJSON(cmd, "recipes", rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "NAME\tINGREDIENTS\tKCAL\tP\tP/100KCAL\tVEGGIE")
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%.2f\t%.2f\t%.2f\t%t\n", r.Name, r.Ingredients, r.Calories, r.ProteinG, r.ProteinPer100Kcal, r.Vegetarian)
			}
			return nil
		})
	},
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show recipe ingredients scaled to a portion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			r, err := c.Recipes.Find(args[0])
			if err != nil {
				return err
			}
			if recipePortion <= 0 {
				return service.ErrInvalidPortion
			}
			items := c.Recipes.LineItems(r, recipePortion)
			if recipeJSON {
				return printJSON(cmd, "recipe", struct {
					Name    string           `json:"name"`
					Portion float64          `json:"portion"`
					Lines   []model.LineItem `json:"lines"`
				}{r.Name, recipePortion, items})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recipe: %s\nPortion: %s\n", r.Name, formatAmount(recipePortion))
			fmt.Fprintln(cmd.OutOrStdout(), "INGREDIENT\tAMOUNT\tUNIT\tCATEGORY")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", it.Ingredient, formatAmount(it.Amount), it.Unit, service.Categorize(it.Ingredient))
			}
			return nil
		})
	},
}

var recipeNutritionCmd = &cobra.Command{
	Use:   "nutrition <name>",
	Short: "Show energy and protein for a recipe portion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			r, err := c.Recipes.Find(args[0])
			if err != nil {
				return err
			}
			n, err := service.NutritionFor(c.Ingredients, r, recipePortion)
			if err != nil && !errors.Is(err, service.ErrZeroEnergyRecipe) {
				return err
			}
			if err != nil {
				printWarnings(cmd, []string{err.Error()})
			}
			if recipeJSON {
				return printJSON(cmd, "nutrition", n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recipe: %s\nPortion: %s\nCalories: %.2f\nProtein: %.2fg\nProtein per 100 kcal: %.2fg\n", n.Recipe, formatAmount(n.Portion), n.Calories, n.ProteinG, n.ProteinPer100Kcal)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipeListCmd, recipeShowCmd, recipeNutritionCmd)

	recipeCmd.PersistentFlags().BoolVar(&recipeJSON, "json", false, "Output JSON")
	recipeListCmd.Flags().BoolVar(&recipeVeggie, "veggie", false, "Only list vegetarian recipes")
	recipeShowCmd.Flags().Float64Var(&recipePortion, "portion", 1, "Portion multiplier")
	recipeNutritionCmd.Flags().Float64Var(&recipePortion, "portion", 1, "Portion multiplier")
}
