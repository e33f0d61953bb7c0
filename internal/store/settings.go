package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/ayusman/airdraw/internal/tool"
)

// Setting keys for the persisted tool configuration.
const (
	KeyTool        = "tool.active"
	KeyColor       = "tool.color"
	KeyPenWidth    = "tool.pen_width"
	KeyEraserWidth = "tool.eraser_width"
)

// SettingsRepository reads and writes key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes key.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// LoadToolConfig returns the persisted tool configuration. Missing keys keep
// their defaults; a stored value that fails to parse or validate is an error.
func (r *SettingsRepository) LoadToolConfig() (tool.Config, error) {
	cfg := tool.DefaultConfig()

	all, err := r.All()
	if err != nil {
		return cfg, err
	}

	if v, ok := all[KeyTool]; ok {
		t, err := tool.ParseTool(v)
		if err != nil {
			return tool.DefaultConfig(), err
		}
		cfg.Tool = t
	}
	if v, ok := all[KeyColor]; ok {
		c, err := tool.ParseColor(v)
		if err != nil {
			return tool.DefaultConfig(), err
		}
		cfg.Color = c
	}
	if v, ok := all[KeyPenWidth]; ok {
		w, err := strconv.Atoi(v)
		if err != nil {
			return tool.DefaultConfig(), fmt.Errorf("%s: %w", KeyPenWidth, err)
		}
		cfg.PenWidth = w
	}
	if v, ok := all[KeyEraserWidth]; ok {
		w, err := strconv.Atoi(v)
		if err != nil {
			return tool.DefaultConfig(), fmt.Errorf("%s: %w", KeyEraserWidth, err)
		}
		cfg.EraserWidth = w
	}

	if err := cfg.Validate(); err != nil {
		return tool.DefaultConfig(), err
	}
	return cfg, nil
}

// SaveToolConfig persists cfg in a single transaction.
func (r *SettingsRepository) SaveToolConfig(cfg tool.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	values := map[string]string{
		KeyTool:        cfg.Tool.String(),
		KeyColor:       tool.FormatColor(cfg.Color),
		KeyPenWidth:    strconv.Itoa(cfg.PenWidth),
		KeyEraserWidth: strconv.Itoa(cfg.EraserWidth),
	}
	for key, value := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
