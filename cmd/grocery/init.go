package grocery

import (
	"fmt"

	"github.com/saadjs/grocery-cli/internal/app"
	"github.com/saadjs/grocery-cli/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local grocery database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := app.EnsureDBDir(path); err != nil {
			return err
		}

		sqldb, err := db.Open(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		if err := db.ApplyMigrations(sqldb); err != nil {
			return err
		}
		newLogger(cmd).WithField("path", path).Debug("migrations applied")

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized grocery database at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
