package models

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func TestDefaultLayoutEntryWideViewport(t *testing.T) {
	e := DefaultLayoutEntry("w1", Viewport{Width: 1366, Height: 768})

	if e.WidgetID != "w1" {
		t.Fatalf("id = %s", e.WidgetID)
	}
	// A third of 1366px maps to 4 of 12 columns; a third of 768px maps
	// to 3 rows of 100px.
	if e.W != 4 || e.H != 3 {
		t.Fatalf("w,h = %d,%d, want 4,3", e.W, e.H)
	}
	if e.X != 0 || e.Y != LayoutRowBottom {
		t.Fatalf("x,y = %d,%d, want 0 and bottom sentinel", e.X, e.Y)
	}
	if e.MinW != e.W || e.MaxW != e.W || e.MinH != e.H || e.MaxH != e.H {
		t.Fatalf("entry is resizable: %+v", e)
	}
}

func TestDefaultLayoutEntryNarrowViewport(t *testing.T) {
	e := DefaultLayoutEntry("w1", Viewport{Width: 375, Height: 667})

	// 60% of 375px is 225px on a 31.25px column, so 7 columns; 60% of
	// 667px rounds to 4 rows.
	if e.W != 7 || e.H != 4 {
		t.Fatalf("w,h = %d,%d, want 7,4", e.W, e.H)
	}
}

func TestDefaultLayoutEntryClampsToOne(t *testing.T) {
	e := DefaultLayoutEntry("w1", Viewport{Width: 1366, Height: 100})
	if e.H != 1 {
		t.Fatalf("h = %d, want clamp to 1", e.H)
	}
	if e.W < 1 {
		t.Fatalf("w = %d, want at least 1", e.W)
	}
}

func TestValidateBinding(t *testing.T) {
	axis := BindingConfig{XField: "timestamp", YField: "close"}

	for _, mode := range []DisplayMode{ModeLine, ModeBar, ModeScatter, ModeHistogram} {
		if err := ValidateBinding(mode, axis); err != nil {
			t.Fatalf("%s with axis fields: %v", mode, err)
		}
		if err := ValidateBinding(mode, BindingConfig{XField: "timestamp"}); err == nil {
			t.Fatalf("%s without y field accepted", mode)
		}
		if err := ValidateBinding(mode, BindingConfig{YField: "close"}); err == nil {
			t.Fatalf("%s without x field accepted", mode)
		}
	}

	if err := ValidateBinding(ModePie, BindingConfig{ValueField: "value"}); err != nil {
		t.Fatalf("pie with value field: %v", err)
	}
	if err := ValidateBinding(ModePie, BindingConfig{}); err == nil {
		t.Fatalf("pie without value field accepted")
	}

	for _, mode := range []DisplayMode{ModeCard, ModeTable} {
		if err := ValidateBinding(mode, BindingConfig{}); err != nil {
			t.Fatalf("%s should need no binding: %v", mode, err)
		}
	}

	if err := ValidateBinding("Gauge", axis); err == nil {
		t.Fatalf("unknown mode accepted")
	}
}

func TestSessionExpired(t *testing.T) {
	s := Session{ExpiresAt: mustTime(t, "2026-01-01T12:00:00Z")}

	if s.Expired(mustTime(t, "2026-01-01T11:59:59Z")) {
		t.Fatalf("session expired early")
	}
	if !s.Expired(mustTime(t, "2026-01-01T12:00:00Z")) {
		t.Fatalf("session valid at exact expiry")
	}
	if !s.Expired(mustTime(t, "2026-01-01T12:00:01Z")) {
		t.Fatalf("session valid past expiry")
	}
}
