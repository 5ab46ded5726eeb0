package grocery

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/saadjs/grocery-cli/internal/workbook"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with the catalog workbook",
}

var (
	catalogOut  string
	catalogJSON bool
)

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the catalog and report rejected rows and recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, _ *service.Catalog, report *service.LoadReport) error {
			if catalogJSON {
				return printJSON(cmd, "catalog report", report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingredients: %d loaded, %d rejected\n", report.Ingredients, report.RejectedIngredients)
			fmt.Fprintf(cmd.OutOrStdout(), "Recipes: %d loaded, %d rejected\n", report.Recipes, report.RejectedRecipes)
			fmt.Fprintf(cmd.OutOrStdout(), "Warnings: %d\n", len(report.Warnings))
			return nil
		})
	},
}

var catalogTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a starter catalog workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogOut == "" {
			return fmt.Errorf("--out is required")
		}
		if err := workbook.WriteCatalog(catalogOut, starterCatalog()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote catalog template to %s\n", catalogOut)
		return nil
	},
}

func starterCatalog() *workbook.Catalog {
	return &workbook.Catalog{
		Ingredients: []workbook.IngredientRow{
			{Name: "Chicken Breast", GramsPerUnit: "150", Kcal100g: "165", Prot100g: "31"},
			{Name: "Rice", GramsPerUnit: "0", Kcal100g: "130", Prot100g: "2.7"},
			{Name: "Broccoli", GramsPerUnit: "300", Kcal100g: "34", Prot100g: "2.8"},
			{Name: "Egg", GramsPerUnit: "60", Kcal100g: "143", Prot100g: "12.6"},
		},
		Recipes: []workbook.RecipeRow{
			{Recipe: "Chicken Rice", Ingredient: "Chicken Breast", Amount: "2", Unit: "u"},
			{Recipe: "Chicken Rice", Ingredient: "Rice", Amount: "200", Unit: "g"},
			{Recipe: "Chicken Rice", Ingredient: "Broccoli", Amount: "1", Unit: "u"},
			{Recipe: "Egg Fried Rice", Ingredient: "Egg", Amount: "2", Unit: "u"},
			{Recipe: "Egg Fried Rice", Ingredient: "Rice", Amount: "150", Unit: "g"},
		},
	}
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogCheckCmd, catalogTemplateCmd)

	catalogCheckCmd.Flags().BoolVar(&catalogJSON, "json", false, "Output JSON")
	catalogTemplateCmd.Flags().StringVar(&catalogOut, "out", "", "Output xlsx path")
}
