package usecase

import (
	"testing"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
)

var testViewport = models.Viewport{Width: 1366, Height: 768}

func testWidget(id string) *models.Widget {
	return &models.Widget{
		ID:          id,
		Name:        "widget " + id,
		APIURL:      "https://example.com/" + id,
		RefreshSec:  30,
		DisplayMode: models.ModeTable,
	}
}

func TestStoreAddRemoveKeepsLayoutInSync(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("a"), testViewport)
	s.Add(testWidget("b"), testViewport)

	if got := len(s.Widgets()); got != 2 {
		t.Fatalf("widgets = %d, want 2", got)
	}
	layout := s.Layout()
	if len(layout) != 2 {
		t.Fatalf("layout = %d, want 2", len(layout))
	}
	if layout[0].WidgetID != "a" || layout[1].WidgetID != "b" {
		t.Fatalf("layout ids = %s, %s", layout[0].WidgetID, layout[1].WidgetID)
	}

	if !s.Remove("a") {
		t.Fatalf("expected removal")
	}
	layout = s.Layout()
	if len(layout) != 1 || layout[0].WidgetID != "b" {
		t.Fatalf("layout after remove = %v", layout)
	}
	if _, ok := s.Widget("a"); ok {
		t.Fatalf("widget a still present")
	}
}

func TestStoreRemoveUnknown(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("a"), testViewport)
	if s.Remove("missing") {
		t.Fatalf("removed a widget that does not exist")
	}
	if got := len(s.Widgets()); got != 1 {
		t.Fatalf("widgets = %d, want 1", got)
	}
}

func TestStoreReplaceAllRegeneratesLayout(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("old"), testViewport)

	s.ReplaceAll([]*models.Widget{testWidget("x"), testWidget("y")}, testViewport)

	widgets := s.Widgets()
	if len(widgets) != 2 || widgets[0].ID != "x" || widgets[1].ID != "y" {
		t.Fatalf("widgets = %v", widgets)
	}
	layout := s.Layout()
	if len(layout) != 2 {
		t.Fatalf("layout = %d, want 2", len(layout))
	}
	for i, id := range []string{"x", "y"} {
		if layout[i].WidgetID != id {
			t.Fatalf("layout[%d] = %s, want %s", i, layout[i].WidgetID, id)
		}
		if layout[i].Y != models.LayoutRowBottom {
			t.Fatalf("layout[%d].Y = %d, want bottom sentinel", i, layout[i].Y)
		}
	}
}

func TestStoreUpdateData(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("a"), testViewport)

	series := models.Series{{"price": 1.0}}
	if !s.UpdateData("a", series, []byte(`{"price": 1}`)) {
		t.Fatalf("expected update")
	}
	w, ok := s.Widget("a")
	if !ok {
		t.Fatalf("widget missing")
	}
	if len(w.ParsedData) != 1 || w.ParsedData[0]["price"] != 1.0 {
		t.Fatalf("parsed data = %v", w.ParsedData)
	}
}

func TestStoreUpdateDataDiscardsStale(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("a"), testViewport)
	s.Remove("a")

	if s.UpdateData("a", models.Series{{"price": 1.0}}, nil) {
		t.Fatalf("update for removed widget should be discarded")
	}
}

func TestStoreUpdateDataCopyOnWrite(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("a"), testViewport)

	before, _ := s.Widget("a")
	s.UpdateData("a", models.Series{{"price": 2.0}}, nil)

	if len(before.ParsedData) != 0 {
		t.Fatalf("earlier snapshot mutated: %v", before.ParsedData)
	}
	after, _ := s.Widget("a")
	if len(after.ParsedData) != 1 {
		t.Fatalf("update lost: %v", after.ParsedData)
	}
}

func TestStoreSetLayout(t *testing.T) {
	s := NewStore()
	s.Add(testWidget("a"), testViewport)

	moved := []models.LayoutEntry{{WidgetID: "a", X: 4, Y: 2, W: 4, H: 3, MinW: 4, MinH: 3, MaxW: 4, MaxH: 3}}
	s.SetLayout(moved)

	layout := s.Layout()
	if len(layout) != 1 || layout[0].X != 4 || layout[0].Y != 2 {
		t.Fatalf("layout = %v", layout)
	}

	// Mutating the caller's slice must not leak into the store.
	moved[0].X = 9
	if s.Layout()[0].X != 4 {
		t.Fatalf("store layout aliased caller slice")
	}
}
