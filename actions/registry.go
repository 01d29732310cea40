package actions

import (
	"sort"

	"go.uber.org/zap"
)

// WidgetState is the slice of a widget's runtime state that availability
// evaluation depends on.
type WidgetState struct {
	Loading bool
	Error   string
	Visible bool
}

// Context carries the runtime inputs for action resolution: who is asking
// (permissions) and the current state of the widget the actions belong to.
type Context struct {
	WidgetID    string
	WidgetType  string
	Permissions []string
	State       *WidgetState
}

// HasPermission reports whether the context's permission set includes perm.
func (c *Context) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Registry resolves action descriptors against a runtime context. It also
// stores custom action configs registered by extensions.
//
// A Registry is an explicitly constructed value: build one per composition
// root and inject it wherever actions are resolved. There is deliberately no
// package-level shared instance.
type Registry struct {
	custom map[string]Config
	logger *zap.Logger
}

// NewRegistry creates a Registry. A nil logger is replaced with a no-op.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		custom: make(map[string]Config),
		logger: logger,
	}
}

// ResolveActionConfig turns a descriptor into a context-evaluated config.
//
// Structured descriptors are validated and passed through availability
// evaluation. Bare simple tags expand from their static defaults first.
// A bare complex tag is a usage error: the returned error names the factory
// helper that builds the required config.
func (r *Registry) ResolveActionConfig(d Descriptor, ctx *Context) (Config, error) {
	if d.IsConfigured() {
		cfg := *d.Config
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		return r.evaluateAvailability(cfg, ctx), nil
	}

	if d.Tag.IsSimple() {
		cfg, _ := SimpleActionDefaults(d.Tag)
		return r.evaluateAvailability(cfg, ctx), nil
	}

	if d.Tag.IsComplex() {
		return Config{}, ErrComplexActionRequiresConfig(d.Tag)
	}

	return Config{}, ErrUnknownActionType(string(d.Tag))
}

// evaluateAvailability recomputes disabled/hidden from the context.
// The flags are derived at resolution time and never persisted.
func (r *Registry) evaluateAvailability(cfg Config, ctx *Context) Config {
	if ctx == nil {
		return cfg
	}

	disabled := cfg.Disabled
	hidden := cfg.Hidden

	if cfg.Permission != "" && !ctx.HasPermission(cfg.Permission) {
		hidden = true
	}

	if ctx.State != nil {
		loading := ctx.State.Loading
		hasError := ctx.State.Error != ""

		switch cfg.Type {
		case ActionRefresh:
			// Stays clickable while loading to allow cancel/retry.
		case ActionConfigure, ActionFullscreen:
			disabled = disabled || loading
		case ActionExport:
			disabled = disabled || loading || hasError
		case ActionRemove:
			// Always available unless explicitly disabled.
		}
	}

	cfg.Disabled = disabled
	cfg.Hidden = hidden
	return cfg
}

// AvailableActions resolves every descriptor, drops hidden results and
// returns the remainder sorted ascending by priority.
//
// Descriptors that fail resolution are skipped and logged; one bad
// declaration never aborts the whole action bar.
func (r *Registry) AvailableActions(descriptors []Descriptor, ctx *Context) []Config {
	resolved := make([]Config, 0, len(descriptors))
	for _, d := range descriptors {
		cfg, err := r.ResolveActionConfig(d, ctx)
		if err != nil {
			r.logger.Warn("failed to resolve action descriptor",
				zap.String("action_type", string(d.Type())),
				zap.Error(err),
			)
			continue
		}
		if cfg.Hidden {
			continue
		}
		resolved = append(resolved, cfg)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Priority < resolved[j].Priority
	})
	return resolved
}

// RegisterCustomAction stores a custom action configuration under a key,
// allowing extensions to contribute action definitions.
func (r *Registry) RegisterCustomAction(key string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.custom[key] = cfg
	return nil
}

// CustomAction returns a previously registered custom config.
func (r *Registry) CustomAction(key string) (Config, bool) {
	cfg, ok := r.custom[key]
	return cfg, ok
}
