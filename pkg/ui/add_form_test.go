package ui

import (
	"testing"

	"github.com/vanderheijden86/vidnav/pkg/model"
	"github.com/vanderheijden86/vidnav/pkg/store"
)

func TestAddFormDefaults(t *testing.T) {
	tests := []struct {
		name      string
		kind      model.Kind
		placement store.Placement
	}{
		{"topic", model.KindTopic, store.PlaceInside},
		{"subtopic", model.KindSubtopic, store.PlaceInside},
		{"title", model.KindTitle, store.PlaceBelow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := model.Path{"Go", "Basics"}
			f := NewAddForm(sel, tt.kind)
			req := f.Request()
			if !req.Selected.Equal(sel) {
				t.Errorf("Selected = %v", req.Selected)
			}
			if req.Kind != model.KindTitle {
				t.Errorf("Kind = %s, want title", req.Kind)
			}
			if req.Placement != tt.placement {
				t.Errorf("Placement = %s, want %s", req.Placement, tt.placement)
			}
			if f.Done() || f.Aborted() {
				t.Error("a new form is neither done nor aborted")
			}
		})
	}
}

func TestAddFormRequestMapsAnswers(t *testing.T) {
	f := NewAddForm(model.Path{"Go"}, model.KindTopic)
	f.name = "  Generics  "
	f.kind = model.KindSubtopic.String()
	f.placement = store.PlaceBelow.String()

	req := f.Request()
	if req.Name != "Generics" || req.Kind != model.KindSubtopic || req.Placement != store.PlaceBelow {
		t.Errorf("request = %+v", req)
	}
}
