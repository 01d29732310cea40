package actions

import (
	"testing"
)

func TestProcessActionsHints(t *testing.T) {
	r := NewRegistry(nil)

	descriptors := []Descriptor{
		Simple(ActionRefresh),
		WithConfig(NewExportAction()),
		WithConfig(NewRemoveAction()),
	}
	ctx := &Context{
		WidgetID: "trends-chart",
		State:    &WidgetState{Loading: false, Visible: true},
	}

	result, err := r.ProcessActions(descriptors, ctx)
	if err != nil {
		t.Fatalf("ProcessActions() error = %v", err)
	}
	if !result.HasActions() {
		t.Fatal("HasActions() = false, want true")
	}
	if len(result.Actions) != 3 {
		t.Fatalf("len(Actions) = %d, want 3", len(result.Actions))
	}

	remove, ok := result.ActionByType(ActionRemove)
	if !ok {
		t.Fatal("remove action missing from result")
	}
	if remove.UIHints.Variant != "destructive" {
		t.Errorf("remove Variant = %q, want %q", remove.UIHints.Variant, "destructive")
	}
	if remove.UIHints.IconColor != "error" {
		t.Errorf("remove IconColor = %q, want %q", remove.UIHints.IconColor, "error")
	}
	if !remove.UIHints.ShowConfirmation {
		t.Error("remove ShowConfirmation = false, want true")
	}
	if remove.Icon != "close" {
		t.Errorf("remove Icon = %q, want %q", remove.Icon, "close")
	}

	export, ok := result.ActionByType(ActionExport)
	if !ok {
		t.Fatal("export action missing from result")
	}
	if !export.UIHints.ShowMenu {
		t.Error("export ShowMenu = false, want true")
	}
	if export.UIHints.Variant != "default" {
		t.Errorf("export Variant = %q, want %q", export.UIHints.Variant, "default")
	}

	refresh, ok := result.ActionByType(ActionRefresh)
	if !ok {
		t.Fatal("refresh action missing from result")
	}
	if refresh.UIHints.LoadingState {
		t.Error("refresh LoadingState = true while widget idle")
	}
}

func TestProcessActionsLoadingState(t *testing.T) {
	r := NewRegistry(nil)

	descriptors := []Descriptor{Simple(ActionRefresh), Simple(ActionHelp)}
	ctx := &Context{State: &WidgetState{Loading: true}}

	result, err := r.ProcessActions(descriptors, ctx)
	if err != nil {
		t.Fatalf("ProcessActions() error = %v", err)
	}
	if !result.HasLoadingActions() {
		t.Error("HasLoadingActions() = false, want true")
	}

	refresh, _ := result.ActionByType(ActionRefresh)
	if !refresh.UIHints.LoadingState {
		t.Error("refresh LoadingState = false while widget loading")
	}
	help, _ := result.ActionByType(ActionHelp)
	if help.UIHints.LoadingState {
		t.Error("help LoadingState = true, only refresh tracks loading")
	}
}

func TestProcessActionsCoversAllKnownTypes(t *testing.T) {
	r := NewRegistry(nil)

	for _, at := range AllActionTypes {
		t.Run(string(at), func(t *testing.T) {
			var d Descriptor
			switch at {
			case ActionRemove:
				d = WithConfig(NewRemoveAction())
			case ActionExport:
				d = WithConfig(NewExportAction())
			default:
				d = Simple(at)
			}

			result, err := r.ProcessActions([]Descriptor{d}, nil)
			if err != nil {
				t.Fatalf("ProcessActions(%s) error = %v", at, err)
			}
			if len(result.Actions) != 1 {
				t.Fatalf("len(Actions) = %d, want 1", len(result.Actions))
			}
			if result.Actions[0].Icon == "" {
				t.Errorf("no icon for action type %s", at)
			}
		})
	}
}

func TestActionTypeClassification(t *testing.T) {
	for _, at := range SimpleActionTypes {
		if !at.IsSimple() || at.IsComplex() {
			t.Errorf("%s misclassified, want simple", at)
		}
	}
	for _, at := range ComplexActionTypes {
		if !at.IsComplex() || at.IsSimple() {
			t.Errorf("%s misclassified, want complex", at)
		}
	}
	if ActionType("bogus").Valid() {
		t.Error(`Valid("bogus") = true, want false`)
	}
}
