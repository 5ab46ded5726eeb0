package grocery

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage grocery local configuration",
}

var (
	cfgDataPath      string
	cfgExportDir     string
	cfgPriceSelector string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			updates := 0
			for _, u := range []struct {
				flag  string
				key   string
				value string
			}{
				{"data-path", service.ConfigDataPath, cfgDataPath},
				{"export-dir", service.ConfigExportDir, cfgExportDir},
				{"price-selector", service.ConfigPriceSelector, cfgPriceSelector},
			} {
				if !cmd.Flags().Changed(u.flag) {
					continue
				}
				if err := service.SetConfig(sqldb, u.key, u.value); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE\tDESCRIPTION")
			for _, kv := range service.ConfigKeys() {
				value, ok := cfg[kv[0]]
				if !ok {
					value = "(unset)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", kv[0], value, kv[1])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)

	configSetCmd.Flags().StringVar(&cfgDataPath, "data-path", "", "Default catalog workbook path")
	configSetCmd.Flags().StringVar(&cfgExportDir, "export-dir", "", "Directory for exported shopping lists")
	configSetCmd.Flags().StringVar(&cfgPriceSelector, "price-selector", "", "CSS selector for price lookups")
}
