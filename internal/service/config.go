package service

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

const (
	ConfigDataPath      = "data_path"
	ConfigExportDir     = "export_dir"
	ConfigPriceSelector = "price_selector"
)

var knownConfigKeys = map[string]string{
	ConfigDataPath:      "catalog workbook path",
	ConfigExportDir:     "directory for exported shopping lists",
	ConfigPriceSelector: "CSS selector used by price lookups",
}

// ConfigKeys returns the supported keys with a short description, sorted by key.
func ConfigKeys() [][2]string {
	out := make([][2]string, 0, len(knownConfigKeys))
	for k, desc := range knownConfigKeys {
		out = append(out, [2]string{k, desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func configKey(key string) (string, error) {
	key = normalizeName(key)
	if key == "" {
		return "", fmt.Errorf("config key is required")
	}
	if _, ok := knownConfigKeys[key]; !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return key, nil
}

func SetConfig(db *sql.DB, key, value string) error {
	key, err := configKey(key)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key, err := configKey(key)
	if err != nil {
		return "", false, err
	}
	var value string
	err = db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

// ResolveSetting applies flag > config > default precedence.
func ResolveSetting(db *sql.DB, flagValue, key, fallback string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	v, ok, err := GetConfig(db, key)
	if err != nil {
		return "", err
	}
	if ok && v != "" {
		return v, nil
	}
	return fallback, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}
