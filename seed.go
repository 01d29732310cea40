package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Izenberk/analytics-dashboard/actions"
	"github.com/Izenberk/analytics-dashboard/store"
)

// seedFile is the YAML shape of a dashboard definition.
type seedFile struct {
	Layout  *store.LayoutConfig `yaml:"layout"`
	Widgets []seedWidget        `yaml:"widgets"`
}

// seedWidget mirrors store.WidgetRecord with a pointer Visible so an omitted
// field defaults to visible rather than hidden.
type seedWidget struct {
	ID        string               `yaml:"id"`
	Kind      store.WidgetKind     `yaml:"kind"`
	Title     string               `yaml:"title"`
	DatasetID string               `yaml:"dataset_id"`
	Position  store.WidgetPosition `yaml:"position"`
	Size      store.WidgetSize     `yaml:"size"`
	Visible   *bool                `yaml:"visible"`
	Actions   []actions.Descriptor `yaml:"actions"`
}

// LoadSeed reads a dashboard definition from a YAML file. It returns the
// widgets and the layout; a nil layout means the file did not override the
// default grid.
func LoadSeed(path string) ([]store.WidgetRecord, *store.LayoutConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(seed.Widgets) == 0 {
		return nil, nil, fmt.Errorf("seed file %s defines no widgets", path)
	}

	widgets := make([]store.WidgetRecord, 0, len(seed.Widgets))
	for i, sw := range seed.Widgets {
		if !sw.Kind.Valid() {
			return nil, nil, fmt.Errorf("seed file %s: widget %d has unknown kind %q", path, i, sw.Kind)
		}
		visible := true
		if sw.Visible != nil {
			visible = *sw.Visible
		}
		widgets = append(widgets, store.WidgetRecord{
			ID:        sw.ID,
			Kind:      sw.Kind,
			Title:     sw.Title,
			DatasetID: sw.DatasetID,
			Position:  sw.Position,
			Size:      sw.Size,
			Visible:   visible,
			Actions:   sw.Actions,
		})
	}
	return widgets, seed.Layout, nil
}
