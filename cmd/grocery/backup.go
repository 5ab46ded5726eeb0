package grocery

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot and restore the history log and catalog workbook",
}

var (
	backupOut         string
	backupDir         string
	backupSkipCatalog bool
	backupJSON        bool
	restoreFile       string
	restoreForce      bool
	restoreCatalog    bool
)

func backupDirFor(dbFile string) string {
	if backupDir != "" {
		return backupDir
	}
	return filepath.Join(filepath.Dir(dbFile), "backups")
}

func exportSpan(s service.Snapshot) string {
	if s.LoggedDates == 0 {
		return "-"
	}
	return fmt.Sprintf("%s..%s", s.FirstExport, s.LastExport)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the history database and the catalog workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			catalog := ""
			if !backupSkipCatalog {
				if catalog, err = resolveDataPath(sqldb); err != nil {
					return err
				}
			}
			out := backupOut
			if out == "" {
				out = filepath.Join(backupDirFor(dbFile), fmt.Sprintf("grocery-%s.db", time.Now().Format("20060102-150405")))
			}
			snap, err := service.CreateBackup(sqldb, catalog, out)
			if err != nil {
				return err
			}
			if backupJSON {
				return printJSON(cmd, "backup", snap)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", snap.Path)
			if snap.CatalogPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog: %s\n", snap.CatalogPath)
			} else if !backupSkipCatalog {
				printWarnings(cmd, []string{fmt.Sprintf("catalog %s not found; backup holds the history log only", catalog)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export dates: %d (%s)\n", snap.LoggedDates, exportSpan(snap))
			fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", snap.Checksum)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups with the export dates they cover",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(backupDirFor(dbFile))
		if err != nil {
			return err
		}
		if backupJSON {
			return printJSON(cmd, "backups", items)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "FILE\tCREATED\tDATES\tSPAN\tCATALOG")
		for _, it := range items {
			if it.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tunreadable: %s\n", it.Path, it.CreatedAt.Format(time.RFC3339), it.Error)
				continue
			}
			hasCatalog := "no"
			if it.CatalogPath != "" {
				hasCatalog = "yes"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\t%s\n", it.Path, it.CreatedAt.Format(time.RFC3339), it.LoggedDates, exportSpan(it), hasCatalog)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the history database, and optionally the catalog, from a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		snap, err := service.RestoreBackup(restoreFile, dbFile, restoreForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored history from %s (%d export dates, %s)\n", restoreFile, snap.LoggedDates, exportSpan(snap))
		if !restoreCatalog {
			return nil
		}
		return withDB(func(sqldb *sql.DB) error {
			target, err := resolveDataPath(sqldb)
			if err != nil {
				return err
			}
			ok, err := service.RestoreCatalog(snap, target, restoreForce)
			if err != nil {
				return err
			}
			if !ok {
				printWarnings(cmd, []string{"backup has no catalog workbook"})
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored catalog to %s\n", target)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the DB)")
	backupCmd.PersistentFlags().BoolVar(&backupJSON, "json", false, "Output JSON")
	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup .db file path (default: grocery-<timestamp>.db in the backup dir)")
	backupCreateCmd.Flags().BoolVar(&backupSkipCatalog, "skip-catalog", false, "Back up the history log only")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .db file path")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite an existing DB or catalog")
	backupRestoreCmd.Flags().BoolVar(&restoreCatalog, "catalog", false, "Also restore the catalog workbook to the configured data path")
}
