package service

import (
	"bufio"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	historydb "github.com/saadjs/grocery-cli/internal/db"
)

// Snapshot is one backup: a copy of the history database and, when one was
// present, the catalog workbook the history was planned against.
type Snapshot struct {
	Path        string    `json:"path"`
	CatalogPath string    `json:"catalog_path,omitempty"`
	Checksum    string    `json:"checksum"`
	CreatedAt   time.Time `json:"created_at"`
	SizeBytes   int64     `json:"size_bytes"`
	FirstExport string    `json:"first_export,omitempty"`
	LastExport  string    `json:"last_export,omitempty"`
	LoggedDates int       `json:"logged_dates"`
	Error       string    `json:"error,omitempty"`
}

// SnapshotCatalogPath is where the catalog copy of a backup lives.
func SnapshotCatalogPath(backupPath string) string {
	return strings.TrimSuffix(backupPath, filepath.Ext(backupPath)) + ".xlsx"
}

// CreateBackup writes a consistent copy of the open history database to
// outPath with VACUUM INTO and copies the catalog workbook beside it. A
// catalog that does not exist is skipped. Checksums of the written files go
// to outPath+".sha256" in sha256sum format.
func CreateBackup(db *sql.DB, catalogPath, outPath string) (Snapshot, error) {
	if strings.TrimSpace(outPath) == "" {
		return Snapshot{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return Snapshot{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := db.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot history database: %w", err)
	}

	files := []string{outPath}
	if strings.TrimSpace(catalogPath) != "" {
		_, err := os.Stat(catalogPath)
		switch {
		case err == nil:
			dst := SnapshotCatalogPath(outPath)
			if err := copyFile(catalogPath, dst); err != nil {
				return Snapshot{}, err
			}
			files = append(files, dst)
		case !os.IsNotExist(err):
			return Snapshot{}, fmt.Errorf("stat catalog workbook: %w", err)
		}
	}
	if err := writeChecksums(outPath+".sha256", files); err != nil {
		return Snapshot{}, err
	}
	snap := inspectSnapshot(outPath)
	if snap.Error != "" {
		return snap, fmt.Errorf("inspect backup %s: %s", outPath, snap.Error)
	}
	return snap, nil
}

// RestoreBackup verifies a backup's checksums, stages the database copy next to
// dbPath and only moves it into place once migrations apply and both log
// tables read back.
func RestoreBackup(backupPath, dbPath string, force bool) (Snapshot, error) {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return Snapshot{}, fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return Snapshot{}, fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if err := verifyChecksums(backupPath); err != nil {
		return Snapshot{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("create db directory: %w", err)
	}

	staged := dbPath + ".restore"
	if err := copyFile(backupPath, staged); err != nil {
		return Snapshot{}, err
	}
	if err := validateHistory(staged); err != nil {
		_ = os.Remove(staged)
		return Snapshot{}, fmt.Errorf("backup %s is not a usable history database: %w", backupPath, err)
	}
	if err := os.Rename(staged, dbPath); err != nil {
		_ = os.Remove(staged)
		return Snapshot{}, fmt.Errorf("move restored db into place: %w", err)
	}
	return inspectSnapshot(backupPath), nil
}

// RestoreCatalog copies a backup's catalog workbook to catalogPath. It reports
// false when the backup carries no catalog.
func RestoreCatalog(snap Snapshot, catalogPath string, force bool) (bool, error) {
	if snap.CatalogPath == "" {
		return false, nil
	}
	if !force {
		if _, err := os.Stat(catalogPath); err == nil {
			return false, fmt.Errorf("catalog %s already exists; use --force to overwrite", catalogPath)
		}
	}
	if err := os.MkdirAll(filepath.Dir(catalogPath), 0o755); err != nil {
		return false, fmt.Errorf("create catalog directory: %w", err)
	}
	if err := copyFile(snap.CatalogPath, catalogPath); err != nil {
		return false, err
	}
	return true, nil
}

// ListBackups lists the .db backups in dir, newest first, with the export
// dates each one covers. Unreadable backups are listed with Error set.
func ListBackups(dir string) ([]Snapshot, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]Snapshot, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		out = append(out, inspectSnapshot(filepath.Join(dir, f.Name())))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func inspectSnapshot(path string) Snapshot {
	snap := Snapshot{Path: path}
	st, err := os.Stat(path)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}
	snap.CreatedAt = st.ModTime()
	snap.SizeBytes = st.Size()
	if sums, err := readChecksums(path + ".sha256"); err == nil {
		snap.Checksum = sums[filepath.Base(path)]
	}
	if catalog := SnapshotCatalogPath(path); fileExists(catalog) {
		snap.CatalogPath = catalog
	}

	sqldb, err := historydb.Open(path)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}
	defer sqldb.Close()
	err = sqldb.QueryRow(`
SELECT COALESCE(MIN(export_date), ''), COALESCE(MAX(export_date), ''), COUNT(DISTINCT export_date)
FROM (
  SELECT export_date FROM log_per_recipe
  UNION ALL
  SELECT export_date FROM log_combined
)
`).Scan(&snap.FirstExport, &snap.LastExport, &snap.LoggedDates)
	if err != nil {
		snap.Error = fmt.Sprintf("read export dates: %v", err)
	}
	return snap
}

func validateHistory(path string) error {
	sqldb, err := historydb.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	if err := historydb.ApplyMigrations(sqldb); err != nil {
		return err
	}
	if _, err := ExportDates(sqldb); err != nil {
		return err
	}
	_, err = LoadLog(sqldb, DateRange{})
	return err
}

func writeChecksums(path string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		sum, err := fileSHA256(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "%s  %s\n", sum, filepath.Base(f))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write checksum file: %w", err)
	}
	return nil
}

func readChecksums(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sums := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		sum, name, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "  ")
		if !ok {
			continue
		}
		sums[strings.TrimSpace(name)] = sum
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read checksum file: %w", err)
	}
	return sums, nil
}

// verifyChecksums checks every file named in the backup's checksum file. A
// backup without one is accepted as is.
func verifyChecksums(backupPath string) error {
	sums, err := readChecksums(backupPath + ".sha256")
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	dir := filepath.Dir(backupPath)
	for name, want := range sums {
		got, err := fileSHA256(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("backup checksum mismatch for %s", name)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
