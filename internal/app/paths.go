package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName   = "grocery"
	dbFileName   = "grocery.db"
	dataFileName = "data.xlsx"
	exportDir    = "exports"
)

func baseDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func DefaultDBPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// DefaultDataPath is the catalog workbook used when neither --data nor the
// data_path config key is set.
func DefaultDataPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dataFileName), nil
}

func DefaultExportDir() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, exportDir), nil
}

func EnsureDBDir(path string) error {
	return EnsureDir(filepath.Dir(path))
}

func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
