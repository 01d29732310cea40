package actions

// UIHints are the render hints attached to an action during processing.
type UIHints struct {
	// Variant is "destructive" for remove, "default" otherwise.
	Variant string `json:"variant"`

	// ShowConfirmation is true when the action carries a confirm block.
	ShowConfirmation bool `json:"show_confirmation"`

	// ShowMenu is true when the action carries a menu block.
	ShowMenu bool `json:"show_menu"`

	// LoadingState is true for refresh while the widget is loading.
	LoadingState bool `json:"loading_state"`

	// IconColor is "error" for remove, "default" otherwise.
	IconColor string `json:"icon_color"`

	// ButtonSize is the rendered control size.
	ButtonSize string `json:"button_size"`
}

// ProcessedAction is a resolved action with its icon reference and UI hints
// attached: everything an action bar needs to render the control.
type ProcessedAction struct {
	Config
	Icon    string  `json:"icon"`
	UIHints UIHints `json:"ui_hints"`
}

// ProcessingResult is the full output of processing a widget's declared
// actions against a context.
type ProcessingResult struct {
	Actions []ProcessedAction
	Context *Context
}

// HasActions reports whether any action survived resolution.
func (p ProcessingResult) HasActions() bool {
	return len(p.Actions) > 0
}

// HasLoadingActions reports whether any processed action is mid-loading.
func (p ProcessingResult) HasLoadingActions() bool {
	for _, a := range p.Actions {
		if a.UIHints.LoadingState {
			return true
		}
	}
	return false
}

// ActionByType returns the processed action of the given type, if present.
func (p ProcessingResult) ActionByType(t ActionType) (ProcessedAction, bool) {
	for _, a := range p.Actions {
		if a.Type == t {
			return a, true
		}
	}
	return ProcessedAction{}, false
}

// ProcessActions resolves descriptors via AvailableActions and attaches icon
// references and UI hints to each survivor.
//
// The type switch is exhaustive over the known action set; an action type
// falling through to the default is a bug in this package and is reported as
// an ACTION_UNKNOWN_TYPE error rather than silently mishandled.
func (r *Registry) ProcessActions(descriptors []Descriptor, ctx *Context) (ProcessingResult, error) {
	available := r.AvailableActions(descriptors, ctx)

	loading := false
	if ctx != nil && ctx.State != nil {
		loading = ctx.State.Loading
	}

	processed := make([]ProcessedAction, 0, len(available))
	for _, cfg := range available {
		hints := UIHints{
			Variant:          "default",
			ShowConfirmation: cfg.Confirm != nil,
			ShowMenu:         cfg.Menu != nil,
			LoadingState:     cfg.Type == ActionRefresh && loading,
			IconColor:        "default",
			ButtonSize:       "medium",
		}

		switch cfg.Type {
		case ActionRefresh, ActionConfigure, ActionFullscreen, ActionMinimize, ActionHelp:
			// Simple actions keep the default hints.
		case ActionRemove:
			hints.Variant = "destructive"
			hints.IconColor = "error"
		case ActionExport:
			// Menu visibility already derived from the menu block.
		default:
			return ProcessingResult{}, ErrUnknownActionType(string(cfg.Type))
		}

		processed = append(processed, ProcessedAction{
			Config:  cfg,
			Icon:    ActionIcon(cfg.Type),
			UIHints: hints,
		})
	}

	return ProcessingResult{Actions: processed, Context: ctx}, nil
}
