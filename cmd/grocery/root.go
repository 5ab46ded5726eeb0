package grocery

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath   string
	dataPath string
	verbose  bool
	quiet    bool
)

var rootCmd = &cobra.Command{
	Use:           "grocery",
	Short:         "grocery plans meals and shopping lists from your terminal",
	Long:          "grocery is a local-first meal planner: pick recipes from a catalog workbook, get nutrition and a combined shopping list, and track what you bought over time.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite history database")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Path to catalog workbook (.xlsx)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors")
}
