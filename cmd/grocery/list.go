package grocery

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/grocery-cli/internal/app"
	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/saadjs/grocery-cli/internal/workbook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Build shopping lists",
}

var (
	listRecipes     []string
	listNotes       []string
	listExtras      []string
	listReuseExtras bool
	listExport      bool
	listOut         string
	listLog         bool
	listDate        string
	listJSON        bool
	listUnits       bool
)

var listBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Combine selected recipes and extras into one shopping list",
	Example: `  grocery list build --recipe "Chicken Rice=2" --extra "Rice=100g"
  grocery list build --recipe "Pasta Pesto" --note "Pasta Pesto=use fresh basil" --export --log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(listRecipes) == 0 && len(listExtras) == 0 && !listReuseExtras {
			return fmt.Errorf("select at least one --recipe or --extra")
		}
		date, err := parseDateOrToday("--date", listDate)
		if err != nil {
			return err
		}
		return withCatalog(cmd, func(sqldb *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			log := newLogger(cmd)
			session, err := buildSession(sqldb, c, log)
			if err != nil {
				return err
			}
			list, err := session.Build()
			if err != nil {
				return err
			}
			printWarnings(cmd, list.Warnings)
			if list.Empty() {
				return fmt.Errorf("shopping list is empty: %w", service.ErrNothingToWrite)
			}

			combined := list.Combined
			if listUnits {
				var warnings []string
				combined, warnings = service.ConvertToUnits(c.Ingredients, combined)
				printWarnings(cmd, warnings)
			}

			if listExport {
				path, err := resolveExportPath(sqldb, date)
				if err != nil {
					return err
				}
				if err := workbook.WriteShoppingList(path, list.Combined, list.PerRecipe); err != nil {
					return err
				}
				log.WithField("path", path).Debug("shopping list exported")
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s\n", path)
			}
			if listLog {
				batch, err := service.AppendShoppingList(sqldb, list, date)
				if err != nil {
					return err
				}
				log.WithFields(logrus.Fields{"batch": batch.BatchID, "date": batch.ExportDate}).Debug("shopping list logged")
				fmt.Fprintf(cmd.ErrOrStderr(), "Logged %d recipe lines and %d combined lines for %s\n", batch.PerRecipeRows, batch.CombinedRows, batch.ExportDate)
			}

			if listJSON {
				return printJSON(cmd, "shopping list", struct {
					*service.ShoppingList
					Extras []service.ExtraRow `json:"extras"`
				}{list, session.Extras()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "INGREDIENT\tAMOUNT\tUNIT\tCATEGORY")
			for _, line := range combined {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", line.Ingredient, formatAmount(line.Amount), line.Unit, service.Categorize(line.Ingredient))
			}
			return nil
		})
	},
}

func buildSession(sqldb *sql.DB, c *service.Catalog, log logrus.FieldLogger) (*service.Session, error) {
	notes := map[string]string{}
	for _, raw := range listNotes {
		name, note, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --note %q (expected Recipe=text)", raw)
		}
		notes[service.MakeKey(name)] = strings.TrimSpace(note)
	}

	session := service.NewSession(c.Recipes)
	for _, raw := range listRecipes {
		name, portion, err := parseSelection(raw)
		if err != nil {
			return nil, err
		}
		if err := session.Select(name, portion, notes[service.MakeKey(name)]); err != nil {
			return nil, err
		}
	}
	for _, raw := range listExtras {
		name, qty, ok := cutLast(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --extra %q (expected Ingredient=amount, e.g. Rice=100g)", raw)
		}
		amount, unit, err := service.ParseQuantity(qty)
		if err != nil {
			return nil, fmt.Errorf("--extra %q: %w", raw, err)
		}
		if _, err := session.AddExtra(strings.TrimSpace(name), amount, unit); err != nil {
			return nil, err
		}
	}
	if listReuseExtras {
		previous, date, ok, err := service.LastExtras(sqldb)
		if err != nil {
			return nil, err
		}
		if ok {
			ids := session.ReuseExtras(previous)
			log.WithFields(logrus.Fields{"from": date.Format("2006-01-02"), "rows": len(ids)}).Info("reused extras from last list")
		}
	}
	return session, nil
}

// parseSelection splits "Recipe Name=2" into name and portion; a bare name is one portion.
func parseSelection(raw string) (string, int, error) {
	name, portion, ok := cutLast(raw, "=")
	if !ok {
		return strings.TrimSpace(raw), 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(portion))
	if err != nil {
		return "", 0, fmt.Errorf("invalid portion in --recipe %q", raw)
	}
	if n <= 0 {
		return "", 0, fmt.Errorf("--recipe %q: %w", raw, service.ErrInvalidPortion)
	}
	return strings.TrimSpace(name), n, nil
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func resolveExportPath(sqldb *sql.DB, date time.Time) (string, error) {
	if listOut != "" {
		if err := app.EnsureDir(filepath.Dir(listOut)); err != nil {
			return "", err
		}
		return listOut, nil
	}
	fallback, err := app.DefaultExportDir()
	if err != nil {
		return "", err
	}
	dir, err := service.ResolveSetting(sqldb, "", service.ConfigExportDir, fallback)
	if err != nil {
		return "", err
	}
	if err := app.EnsureDir(dir); err != nil {
		return "", err
	}
	return workbook.ExportPath(dir, date), nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listBuildCmd)

	listBuildCmd.Flags().StringArrayVar(&listRecipes, "recipe", nil, "Recipe to include as Name or Name=portions (repeatable)")
	listBuildCmd.Flags().StringArrayVar(&listNotes, "note", nil, "Note for a selected recipe as Name=text (repeatable)")
	listBuildCmd.Flags().StringArrayVar(&listExtras, "extra", nil, "Extra ingredient as Name=amount, e.g. Rice=100g or Eggs=6 (repeatable)")
	listBuildCmd.Flags().BoolVar(&listReuseExtras, "reuse-extras", false, "Add the extras of the last logged list")
	listBuildCmd.Flags().BoolVar(&listExport, "export", false, "Write the list to an xlsx workbook")
	listBuildCmd.Flags().StringVar(&listOut, "out", "", "Export file path (default: Grocery_List_<date>.xlsx in the export dir)")
	listBuildCmd.Flags().BoolVar(&listLog, "log", false, "Append the list to the history log")
	listBuildCmd.Flags().StringVar(&listDate, "date", "", "Export/log date YYYY-MM-DD (default: today)")
	listBuildCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
	listBuildCmd.Flags().BoolVar(&listUnits, "units", false, "Show gram amounts converted to units")
}
