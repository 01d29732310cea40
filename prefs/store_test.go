package prefs

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore opens a migrated temporary database and returns a store
// over it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "prefs_test.db")

	if err := MigrateUpFromPath(dbPath, "file://migrations"); err != nil {
		t.Fatalf("MigrateUpFromPath() error = %v", err)
	}

	db, err := NewConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewConnectionWithDefaults() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestNewStoreRequiresDB(t *testing.T) {
	if _, err := NewStore(nil); err == nil {
		t.Error("NewStore(nil) error = nil, want error")
	}
}

func TestGetConfigDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg, err := store.GetConfig(ctx, "revenue-metric")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if cfg.WidgetID != "revenue-metric" {
		t.Errorf("WidgetID = %q, want %q", cfg.WidgetID, "revenue-metric")
	}
	if cfg.Title != "" {
		t.Errorf("Title = %q, want empty when nothing stored", cfg.Title)
	}
	if cfg.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %d, want %d", cfg.RefreshInterval, DefaultRefreshInterval)
	}
	if cfg.Visible != DefaultVisible {
		t.Errorf("Visible = %v, want %v", cfg.Visible, DefaultVisible)
	}

	// Defaults are not written back.
	configs, err := store.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("ListConfigs() = %d rows after default read, want 0", len(configs))
	}
}

func TestSetAndGetConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := Config{
		WidgetID:        "trends-chart",
		Title:           "Quarterly Trends",
		RefreshInterval: 60,
		Visible:         false,
		Settings: map[string]interface{}{
			"chartType": "bar",
			"smoothing": true,
		},
	}
	if err := store.SetConfig(ctx, in); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	got, err := store.GetConfig(ctx, "trends-chart")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got.Title != "Quarterly Trends" {
		t.Errorf("Title = %q, want %q", got.Title, "Quarterly Trends")
	}
	if got.RefreshInterval != 60 {
		t.Errorf("RefreshInterval = %d, want 60", got.RefreshInterval)
	}
	if got.Visible {
		t.Error("Visible = true, want false")
	}
	if got.Settings["chartType"] != "bar" {
		t.Errorf("Settings[chartType] = %v, want %q", got.Settings["chartType"], "bar")
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}
	if time.Since(got.UpdatedAt) > time.Minute {
		t.Errorf("UpdatedAt = %v, not recent", got.UpdatedAt)
	}
}

func TestSetConfigUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := Config{WidgetID: "w1", RefreshInterval: 30, Visible: true}
	if err := store.SetConfig(ctx, first); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	second := Config{WidgetID: "w1", RefreshInterval: 120, Visible: false}
	if err := store.SetConfig(ctx, second); err != nil {
		t.Fatalf("second SetConfig() error = %v", err)
	}

	got, _ := store.GetConfig(ctx, "w1")
	if got.RefreshInterval != 120 {
		t.Errorf("RefreshInterval = %d after upsert, want 120", got.RefreshInterval)
	}

	configs, _ := store.ListConfigs(ctx)
	if len(configs) != 1 {
		t.Errorf("ListConfigs() = %d rows, want 1", len(configs))
	}
}

func TestSetConfigValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty widget id", cfg: Config{RefreshInterval: 30}},
		{name: "zero interval", cfg: Config{WidgetID: "w1"}},
		{name: "negative interval", cfg: Config{WidgetID: "w1", RefreshInterval: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SetConfig(ctx, tt.cfg); err == nil {
				t.Error("SetConfig() error = nil, want validation error")
			}
		})
	}
}

func TestResetConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SetConfig(ctx, Config{WidgetID: "w1", RefreshInterval: 45, Visible: true})
	if err := store.ResetConfig(ctx, "w1"); err != nil {
		t.Fatalf("ResetConfig() error = %v", err)
	}

	got, err := store.GetConfig(ctx, "w1")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %d after reset, want default %d", got.RefreshInterval, DefaultRefreshInterval)
	}

	// Resetting an absent row is a no-op.
	if err := store.ResetConfig(ctx, "never-stored"); err != nil {
		t.Errorf("ResetConfig() error = %v for absent row", err)
	}
}

func TestResetAllConfigs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"w1", "w2", "w3"} {
		store.SetConfig(ctx, Config{WidgetID: id, RefreshInterval: 30, Visible: true})
	}
	if err := store.ResetAllConfigs(ctx); err != nil {
		t.Fatalf("ResetAllConfigs() error = %v", err)
	}

	configs, _ := store.ListConfigs(ctx)
	if len(configs) != 0 {
		t.Errorf("ListConfigs() = %d rows after reset all, want 0", len(configs))
	}
}

func TestListConfigsOrdered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := store.SetConfig(ctx, Config{WidgetID: id, RefreshInterval: 30, Visible: true}); err != nil {
			t.Fatalf("SetConfig(%s) error = %v", id, err)
		}
	}

	configs, err := store.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(configs) != len(want) {
		t.Fatalf("ListConfigs() = %d rows, want %d", len(configs), len(want))
	}
	for i, id := range want {
		if configs[i].WidgetID != id {
			t.Errorf("configs[%d].WidgetID = %q, want %q", i, configs[i].WidgetID, id)
		}
	}
}

func TestGetConfigEmptyID(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetConfig(context.Background(), ""); err == nil {
		t.Error("GetConfig(\"\") error = nil, want error")
	}
}
