package store

// Derived views over the widget map. These are pure read functions computed
// on demand from a locked snapshot; nothing here caches across calls.

// VisibleWidgets returns copies of every visible widget, ordered by id.
func (s *Store) VisibleWidgets() []WidgetRecord {
	return s.filter(func(w *WidgetRecord) bool { return w.Visible })
}

// WidgetsByKind returns copies of every widget of the given kind.
func (s *Store) WidgetsByKind(kind WidgetKind) []WidgetRecord {
	return s.filter(func(w *WidgetRecord) bool { return w.Kind == kind })
}

// LoadingWidgets returns copies of every widget currently loading.
func (s *Store) LoadingWidgets() []WidgetRecord {
	return s.filter(func(w *WidgetRecord) bool { return w.Loading })
}

// ErrorWidgets returns copies of every widget with a recorded failure.
func (s *Store) ErrorWidgets() []WidgetRecord {
	return s.filter(func(w *WidgetRecord) bool { return w.HasError() })
}

// HasErrors reports whether any widget has a recorded failure.
func (s *Store) HasErrors() bool {
	return s.any(func(w *WidgetRecord) bool { return w.HasError() })
}

// HasLoadingWidgets reports whether any widget is currently loading.
func (s *Store) HasLoadingWidgets() bool {
	return s.any(func(w *WidgetRecord) bool { return w.Loading })
}

func (s *Store) filter(keep func(*WidgetRecord) bool) []WidgetRecord {
	all := s.Widgets()
	out := all[:0]
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

func (s *Store) any(match func(*WidgetRecord) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.widgets {
		if match(record) {
			return true
		}
	}
	return false
}
