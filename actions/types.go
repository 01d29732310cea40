// Package actions implements the widget action resolution pipeline: it turns
// authored action descriptors (bare tags or structured configs) into ordered,
// permission- and state-aware action configurations ready for rendering.
package actions

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ActionType identifies a widget action.
type ActionType string

// Simple actions execute immediately without additional UI.
const (
	ActionRefresh    ActionType = "refresh"
	ActionConfigure  ActionType = "configure"
	ActionFullscreen ActionType = "fullscreen"
	ActionMinimize   ActionType = "minimize"
	ActionHelp       ActionType = "help"
)

// Complex actions require additional configuration before they can render.
const (
	// ActionRemove requires a confirmation block.
	ActionRemove ActionType = "remove"

	// ActionExport requires a menu of export formats.
	ActionExport ActionType = "export"
)

// SimpleActionTypes lists the actions that may appear as bare tags.
var SimpleActionTypes = []ActionType{
	ActionRefresh,
	ActionConfigure,
	ActionFullscreen,
	ActionMinimize,
	ActionHelp,
}

// ComplexActionTypes lists the actions that require structured configs.
var ComplexActionTypes = []ActionType{
	ActionRemove,
	ActionExport,
}

// AllActionTypes lists every known action type.
var AllActionTypes = append(append([]ActionType{}, SimpleActionTypes...), ComplexActionTypes...)

// IsSimple reports whether t belongs to the simple action set.
func (t ActionType) IsSimple() bool {
	switch t {
	case ActionRefresh, ActionConfigure, ActionFullscreen, ActionMinimize, ActionHelp:
		return true
	}
	return false
}

// IsComplex reports whether t belongs to the complex action set.
func (t ActionType) IsComplex() bool {
	return t == ActionRemove || t == ActionExport
}

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	return t.IsSimple() || t.IsComplex()
}

// ConfirmSpec is the confirmation block required by remove actions.
type ConfirmSpec struct {
	Title       string `json:"title" yaml:"title"`
	Message     string `json:"message" yaml:"message"`
	ConfirmText string `json:"confirm_text,omitempty" yaml:"confirm_text,omitempty"`
	CancelText  string `json:"cancel_text,omitempty" yaml:"cancel_text,omitempty"`
	Destructive bool   `json:"destructive,omitempty" yaml:"destructive,omitempty"`
}

// MenuItem is a single entry of a menu action.
type MenuItem struct {
	Label    string `json:"label" yaml:"label"`
	Value    string `json:"value" yaml:"value"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// MenuSpec is the menu block required by export actions.
type MenuSpec struct {
	Items []MenuItem `json:"items" yaml:"items"`
}

// Config is a fully specified action configuration. It is the structured
// variant of a descriptor and the output of resolution.
//
// The Confirm and Menu blocks form a tagged sum over the three action shapes:
// simple (both nil), confirm (Confirm set, remove only) and menu (Menu set,
// export only). Validate enforces the pairing.
type Config struct {
	Type       ActionType   `json:"type" yaml:"type"`
	Label      string       `json:"label,omitempty" yaml:"label,omitempty"`
	Tooltip    string       `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Shortcut   string       `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Permission string       `json:"permission,omitempty" yaml:"permission,omitempty"`
	Disabled   bool         `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Hidden     bool         `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Priority   int          `json:"priority,omitempty" yaml:"priority,omitempty"`
	Confirm    *ConfirmSpec `json:"confirm,omitempty" yaml:"confirm,omitempty"`
	Menu       *MenuSpec    `json:"menu,omitempty" yaml:"menu,omitempty"`
}

// Validate checks that the config carries the blocks its type requires.
func (c Config) Validate() error {
	if !c.Type.Valid() {
		return ErrUnknownActionType(string(c.Type))
	}
	switch c.Type {
	case ActionRemove:
		if c.Confirm == nil {
			return ErrInvalidActionConfig(c.Type, "missing confirm block")
		}
	case ActionExport:
		if c.Menu == nil || len(c.Menu.Items) == 0 {
			return ErrInvalidActionConfig(c.Type, "missing menu items")
		}
	}
	return nil
}

// Descriptor is the authored declaration of a widget action: either a bare
// tag (Tag set, Config nil) or a structured config (Config set).
//
// Descriptors unmarshal from both scalar and mapping YAML/JSON forms, so a
// seed file can declare:
//
//	actions:
//	  - refresh
//	  - configure
//	  - type: export
//	    menu:
//	      items:
//	        - {label: "Export as CSV", value: csv}
type Descriptor struct {
	Tag    ActionType
	Config *Config
}

// Simple creates a bare-tag descriptor.
func Simple(t ActionType) Descriptor {
	return Descriptor{Tag: t}
}

// WithConfig creates a structured descriptor.
func WithConfig(c Config) Descriptor {
	return Descriptor{Config: &c}
}

// Type returns the action type the descriptor declares.
func (d Descriptor) Type() ActionType {
	if d.Config != nil {
		return d.Config.Type
	}
	return d.Tag
}

// IsConfigured reports whether the descriptor carries a structured config.
func (d Descriptor) IsConfigured() bool {
	return d.Config != nil
}

// UnmarshalYAML accepts either a scalar action tag or a full config mapping.
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var tag string
		if err := value.Decode(&tag); err != nil {
			return err
		}
		d.Tag = ActionType(tag)
		d.Config = nil
		return nil
	case yaml.MappingNode:
		var cfg Config
		if err := value.Decode(&cfg); err != nil {
			return err
		}
		d.Tag = ""
		d.Config = &cfg
		return nil
	default:
		return fmt.Errorf("action descriptor must be a string or a mapping, got yaml kind %d", value.Kind)
	}
}

// MarshalYAML emits bare tags as scalars and configs as mappings.
func (d Descriptor) MarshalYAML() (interface{}, error) {
	if d.Config != nil {
		return d.Config, nil
	}
	return string(d.Tag), nil
}

// UnmarshalJSON accepts either a string action tag or a full config object.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		d.Tag = ActionType(tag)
		d.Config = nil
		return nil
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("action descriptor must be a string or an object: %w", err)
	}
	d.Tag = ""
	d.Config = &cfg
	return nil
}

// MarshalJSON emits bare tags as strings and configs as objects.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if d.Config != nil {
		return json.Marshal(d.Config)
	}
	return json.Marshal(string(d.Tag))
}
