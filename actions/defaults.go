package actions

// simpleDefaults holds the static defaults each simple action expands to
// when authored as a bare tag.
var simpleDefaults = map[ActionType]Config{
	ActionRefresh: {
		Type:     ActionRefresh,
		Label:    "Refresh",
		Tooltip:  "Refresh widget data",
		Shortcut: "R",
		Priority: 1,
	},
	ActionConfigure: {
		Type:     ActionConfigure,
		Label:    "Configure",
		Tooltip:  "Configure widget settings",
		Shortcut: "C",
		Priority: 2,
	},
	ActionFullscreen: {
		Type:     ActionFullscreen,
		Label:    "Fullscreen",
		Tooltip:  "Open in fullscreen mode",
		Shortcut: "F11",
		Priority: 4,
	},
	ActionMinimize: {
		Type:     ActionMinimize,
		Label:    "Minimize",
		Tooltip:  "Minimize widget",
		Shortcut: "M",
		Priority: 5,
	},
	ActionHelp: {
		Type:     ActionHelp,
		Label:    "Help",
		Tooltip:  "Show widget help",
		Shortcut: "F1",
		Priority: 9,
	},
}

// SimpleActionDefaults returns the default config for a simple action tag.
// The second return value is false for complex or unknown types.
func SimpleActionDefaults(t ActionType) (Config, bool) {
	cfg, ok := simpleDefaults[t]
	return cfg, ok
}

// NewRemoveAction builds a complete remove action config with the standard
// destructive confirmation prompt. Callers may adjust fields on the result.
func NewRemoveAction() Config {
	return Config{
		Type:     ActionRemove,
		Label:    "Remove",
		Tooltip:  "Remove widget from dashboard",
		Shortcut: "Delete",
		Priority: 10,
		Confirm: &ConfirmSpec{
			Title:       "Remove Widget?",
			Message:     "This widget will be removed from your dashboard. This action cannot be undone.",
			ConfirmText: "Remove",
			CancelText:  "Cancel",
			Destructive: true,
		},
	}
}

// NewExportAction builds a complete export action config. With no arguments
// it offers the standard PDF/CSV/image formats.
func NewExportAction(items ...MenuItem) Config {
	if len(items) == 0 {
		items = []MenuItem{
			{Label: "Export as PDF", Value: "pdf"},
			{Label: "Export as CSV", Value: "csv"},
			{Label: "Export as Image", Value: "png"},
		}
	}
	return Config{
		Type:     ActionExport,
		Label:    "Export",
		Tooltip:  "Export widget data",
		Shortcut: "E",
		Priority: 3,
		Menu:     &MenuSpec{Items: items},
	}
}

// ActionIcon returns the named icon reference for an action type.
// The frontend maps these names onto its icon set.
func ActionIcon(t ActionType) string {
	switch t {
	case ActionRefresh:
		return "refresh"
	case ActionConfigure:
		return "settings"
	case ActionRemove:
		return "close"
	case ActionExport:
		return "download"
	case ActionFullscreen:
		return "fullscreen"
	case ActionMinimize:
		return "minimize"
	case ActionHelp:
		return "help"
	default:
		return ""
	}
}
