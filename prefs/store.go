package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Preference defaults applied when a widget has no stored row.
const (
	DefaultRefreshInterval = 30 // seconds
	DefaultVisible         = true
)

// Config is one widget's stored preferences. An empty Title means the user
// never overrode the widget's own title. Settings carries free-form
// per-widget options as a JSON object.
type Config struct {
	WidgetID        string                 `json:"widgetId"`
	Title           string                 `json:"title,omitempty"`
	RefreshInterval int                    `json:"refreshInterval"`
	Visible         bool                   `json:"visible"`
	Settings        map[string]interface{} `json:"settings,omitempty"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// DefaultConfig returns the preferences used when nothing is stored.
func DefaultConfig(widgetID string) Config {
	return Config{
		WidgetID:        widgetID,
		RefreshInterval: DefaultRefreshInterval,
		Visible:         DefaultVisible,
	}
}

// Store reads and writes widget preferences.
type Store struct {
	db *sql.DB
}

// NewStore creates a preference store over an open database connection.
// The connection must already be migrated.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	return &Store{db: db}, nil
}

// GetConfig returns the stored preferences for a widget, or the defaults
// when no row exists. The defaults are not written back; only an explicit
// SetConfig creates a row.
func (s *Store) GetConfig(ctx context.Context, widgetID string) (Config, error) {
	if widgetID == "" {
		return Config{}, errors.New("widget id is required")
	}

	query := `
		SELECT widget_id, title, refresh_interval, visible, settings, updated_at
		FROM widget_prefs
		WHERE widget_id = ?`

	var (
		cfg          Config
		visible      int
		settingsJSON sql.NullString
		updatedAt    string
	)
	err := s.db.QueryRowContext(ctx, query, widgetID).Scan(
		&cfg.WidgetID, &cfg.Title, &cfg.RefreshInterval, &visible, &settingsJSON, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultConfig(widgetID), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to query preferences: %w", err)
	}

	cfg.Visible = visible != 0
	if settingsJSON.Valid && settingsJSON.String != "" {
		if err := json.Unmarshal([]byte(settingsJSON.String), &cfg.Settings); err != nil {
			return Config{}, fmt.Errorf("failed to decode settings for widget %q: %w", widgetID, err)
		}
	}
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		cfg.UpdatedAt = parsed
	}
	return cfg, nil
}

// SetConfig upserts a widget's preferences.
func (s *Store) SetConfig(ctx context.Context, cfg Config) error {
	if cfg.WidgetID == "" {
		return errors.New("widget id is required")
	}
	if cfg.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", cfg.RefreshInterval)
	}

	settingsJSON := ""
	if len(cfg.Settings) > 0 {
		encoded, err := json.Marshal(cfg.Settings)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		settingsJSON = string(encoded)
	}

	visible := 0
	if cfg.Visible {
		visible = 1
	}

	query := `
		INSERT INTO widget_prefs (widget_id, title, refresh_interval, visible, settings, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(widget_id) DO UPDATE SET
			title = excluded.title,
			refresh_interval = excluded.refresh_interval,
			visible = excluded.visible,
			settings = excluded.settings,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		cfg.WidgetID, cfg.Title, cfg.RefreshInterval, visible, settingsJSON,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store preferences for widget %q: %w", cfg.WidgetID, err)
	}
	return nil
}

// ResetConfig removes a widget's stored preferences, restoring defaults.
// Resetting a widget with no stored row is a no-op.
func (s *Store) ResetConfig(ctx context.Context, widgetID string) error {
	if widgetID == "" {
		return errors.New("widget id is required")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM widget_prefs WHERE widget_id = ?`, widgetID)
	if err != nil {
		return fmt.Errorf("failed to reset preferences for widget %q: %w", widgetID, err)
	}
	return nil
}

// ResetAllConfigs removes every stored preference row.
func (s *Store) ResetAllConfigs(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM widget_prefs`); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}

// ListConfigs returns every stored preference row ordered by widget id.
func (s *Store) ListConfigs(ctx context.Context) ([]Config, error) {
	query := `
		SELECT widget_id, title, refresh_interval, visible, settings, updated_at
		FROM widget_prefs
		ORDER BY widget_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		var (
			cfg          Config
			visible      int
			settingsJSON sql.NullString
			updatedAt    string
		)
		if err := rows.Scan(&cfg.WidgetID, &cfg.Title, &cfg.RefreshInterval, &visible, &settingsJSON, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		cfg.Visible = visible != 0
		if settingsJSON.Valid && settingsJSON.String != "" {
			if err := json.Unmarshal([]byte(settingsJSON.String), &cfg.Settings); err != nil {
				return nil, fmt.Errorf("failed to decode settings for widget %q: %w", cfg.WidgetID, err)
			}
		}
		if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			cfg.UpdatedAt = parsed
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preference rows: %w", err)
	}
	return configs, nil
}
