package usecase

import (
	"encoding/json"
	"sync"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
)

// Store is the single source of truth for the live widget collection
// and its grid layout. Every mutation holds the lock for its full
// duration, so no reader observes a partially-applied operation, and
// widget/layout bijection is maintained by Add and Remove.
//
// Poll-driven data updates and user edits both funnel through here;
// conflicts resolve last-writer-wins per field.
type Store struct {
	mu      sync.RWMutex
	widgets []*models.Widget
	layout  []models.LayoutEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll swaps the entire widget collection, regenerating a
// default layout entry per widget. This is the load-time seed path.
func (s *Store) ReplaceAll(widgets []*models.Widget, vp models.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widgets = make([]*models.Widget, len(widgets))
	copy(s.widgets, widgets)

	s.layout = make([]models.LayoutEntry, 0, len(widgets))
	for _, w := range widgets {
		s.layout = append(s.layout, models.DefaultLayoutEntry(w.ID, vp))
	}
}

// Add appends a widget and its computed default layout entry.
func (s *Store) Add(w *models.Widget, vp models.Viewport) models.LayoutEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.DefaultLayoutEntry(w.ID, vp)
	s.widgets = append(s.widgets, w)
	s.layout = append(s.layout, entry)
	return entry
}

// Remove deletes a widget and prunes its layout entry. It reports
// whether the widget existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	widgets := s.widgets[:0]
	for _, w := range s.widgets {
		if w.ID == id {
			found = true
			continue
		}
		widgets = append(widgets, w)
	}
	s.widgets = widgets

	if found {
		layout := s.layout[:0]
		for _, e := range s.layout {
			if e.WidgetID == id {
				continue
			}
			layout = append(layout, e)
		}
		s.layout = layout
	}
	return found
}

// SetLayout replaces the layout wholesale.
func (s *Store) SetLayout(layout []models.LayoutEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layout = make([]models.LayoutEntry, len(layout))
	copy(s.layout, layout)
}

// UpdateData atomically replaces a widget's parsed and raw data. A
// stale update for a widget that has since been removed is discarded;
// the return value reports whether anything was written.
func (s *Store) UpdateData(id string, parsed models.Series, raw json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.widgets {
		if w.ID != id {
			continue
		}
		// Copy-on-write so snapshots handed out earlier stay stable.
		updated := *w
		updated.ParsedData = parsed
		updated.RawData = raw
		s.widgets[i] = &updated
		return true
	}
	return false
}

// Widget returns the widget with the given id.
func (s *Store) Widget(id string) (*models.Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.widgets {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// Widgets returns a snapshot of the widget collection.
func (s *Store) Widgets() []*models.Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Widget, len(s.widgets))
	copy(out, s.widgets)
	return out
}

// Layout returns a snapshot of the layout.
func (s *Store) Layout() []models.LayoutEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LayoutEntry, len(s.layout))
	copy(out, s.layout)
	return out
}
