package grocery

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var (
	doctorFix  bool
	doctorJSON bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run catalog and history integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			catalog, loadReport, err := doctorCatalog(cmd, sqldb)
			if err != nil {
				return err
			}
			report, err := service.RunDoctor(sqldb, catalog, loadReport, doctorFix)
			if err != nil {
				return err
			}
			if doctorJSON {
				if err := printJSON(cmd, "doctor", report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Log rows with unknown unit: %d\n", report.UnknownUnitRows)
				fmt.Fprintf(out, "Duplicate combined log lines: %d\n", report.DuplicateLogLines)
				fmt.Fprintf(out, "Dates missing a combined view: %d\n", report.DatesMissingView)
				if doctorFix {
					fmt.Fprintf(out, "Fixed unit rows: %d\n", report.FixedUnitRows)
				}
				if catalog != nil {
					fmt.Fprintf(out, "Catalog load warnings: %d\n", report.CatalogWarnings)
					fmt.Fprintf(out, "Recipe lines with unknown unit: %s\n", listOrNone(report.UnknownRecipeUnits))
					fmt.Fprintf(out, "Zero-energy recipes: %s\n", listOrNone(report.ZeroEnergyRecipes))
					fmt.Fprintf(out, "Ingredients without unit weight: %s\n", listOrNone(report.MissingUnitWeight))
				} else {
					fmt.Fprintln(out, "Catalog: not found, skipped")
				}
			}
			if report.Issues() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

// doctorCatalog loads the catalog when the workbook exists; a missing
// workbook only skips the catalog checks.
func doctorCatalog(cmd *cobra.Command, sqldb *sql.DB) (*service.Catalog, *service.LoadReport, error) {
	path, err := resolveDataPath(sqldb)
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, nil
	}
	return service.OpenCatalog(path, newLogger(cmd))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Normalize unit spelling in the history log")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output JSON")
}
