package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

func newTestDashboard(t *testing.T) (*Dashboard, *Store, *fakeFetcher, *fakeRemote, *fakeMetrics) {
	t.Helper()
	fetch := newFakeFetcher()
	store := NewStore()
	m := newFakeMetrics()
	rem := newFakeRemote()
	sched := NewScheduler(fetch, store, m, logger.Nop(), nil, nil, nil)
	t.Cleanup(sched.Stop)
	d := NewDashboard(store, sched, rem, NewTester(fetch), m, logger.Nop(), nil, testViewport)
	return d, store, fetch, rem, m
}

func waitRemote(t *testing.T, rem *fakeRemote, op string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-rem.called:
			if got == op {
				return
			}
		case <-deadline:
			t.Fatalf("remote %s never called", op)
		}
	}
}

func validDraft(url string) Draft {
	return Draft{
		Name:        "BTC price",
		APIURL:      url,
		RefreshSec:  30,
		DisplayMode: models.ModeLine,
		Config:      models.BindingConfig{XField: "timestamp", YField: "close"},
	}
}

func TestAddCommitsLocallyAndMirrors(t *testing.T) {
	d, store, fetch, rem, _ := newTestDashboard(t)
	url := "https://example.com/ts"
	fetch.serve(url, tsBody)

	w, err := d.Add(context.Background(), validDraft(url))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.ID == "" {
		t.Fatalf("widget id not assigned")
	}
	if len(w.ParsedData) != 1 {
		t.Fatalf("parsed data = %v", w.ParsedData)
	}

	if _, ok := store.Widget(w.ID); !ok {
		t.Fatalf("widget not in store")
	}
	if !d.sched.Running(w.ID) {
		t.Fatalf("no timer for new widget")
	}

	waitRemote(t, rem, "create")
	waitRemote(t, rem, "layout")
	rem.mu.Lock()
	defer rem.mu.Unlock()
	if len(rem.creates) != 1 || rem.creates[0].ID != w.ID {
		t.Fatalf("remote create = %v", rem.creates)
	}
}

func TestAddCoercesRefreshInterval(t *testing.T) {
	d, _, fetch, _, _ := newTestDashboard(t)
	url := "https://example.com/ts"
	fetch.serve(url, tsBody)

	draft := validDraft(url)
	draft.RefreshSec = 0
	w, err := d.Add(context.Background(), draft)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.RefreshSec != 1 {
		t.Fatalf("refresh = %d, want 1", w.RefreshSec)
	}

	draft.RefreshSec = -5
	w, err = d.Add(context.Background(), draft)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.RefreshSec != 1 {
		t.Fatalf("refresh = %d, want 1", w.RefreshSec)
	}
}

func TestAddRejectsBadBindings(t *testing.T) {
	d, store, fetch, _, _ := newTestDashboard(t)
	url := "https://example.com/ts"
	fetch.serve(url, tsBody)

	cases := []Draft{
		func() Draft {
			dr := validDraft(url)
			dr.Name = "  "
			return dr
		}(),
		func() Draft {
			dr := validDraft(url)
			dr.Config.YField = ""
			return dr
		}(),
		func() Draft {
			dr := validDraft(url)
			dr.DisplayMode = models.ModePie
			dr.Config = models.BindingConfig{}
			return dr
		}(),
		func() Draft {
			dr := validDraft(url)
			dr.DisplayMode = "Gauge"
			return dr
		}(),
	}
	for i, draft := range cases {
		_, err := d.Add(context.Background(), draft)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d: err = %v, want ValidationError", i, err)
		}
	}
	if got := len(store.Widgets()); got != 0 {
		t.Fatalf("rejected drafts committed: %d widgets", got)
	}
}

func TestAddFailedProbeDoesNotCommit(t *testing.T) {
	d, store, fetch, _, _ := newTestDashboard(t)
	url := "https://example.com/down"
	fetch.fail(url, errors.New("connection refused"))

	if _, err := d.Add(context.Background(), validDraft(url)); err == nil {
		t.Fatalf("expected probe failure")
	}
	if got := len(store.Widgets()); got != 0 {
		t.Fatalf("widgets = %d, want 0", got)
	}
}

func TestAddSurvivesRemoteFailure(t *testing.T) {
	d, store, fetch, rem, m := newTestDashboard(t)
	url := "https://example.com/ts"
	fetch.serve(url, tsBody)
	rem.failAll = true

	w, err := d.Add(context.Background(), validDraft(url))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := store.Widget(w.ID); !ok {
		t.Fatalf("local commit lost on remote failure")
	}

	waitRemote(t, rem, "create")
	deadline := time.After(2 * time.Second)
	for m.remoteErr("create") == 0 {
		select {
		case <-deadline:
			t.Fatalf("remote error never recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRemoveStopsTimerAndMirrors(t *testing.T) {
	d, store, fetch, rem, _ := newTestDashboard(t)
	url := "https://example.com/ts"
	fetch.serve(url, tsBody)

	w, err := d.Add(context.Background(), validDraft(url))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	waitRemote(t, rem, "create")

	if !d.Remove(context.Background(), w.ID) {
		t.Fatalf("expected removal")
	}
	if d.sched.Running(w.ID) {
		t.Fatalf("timer still running after removal")
	}
	if got := len(store.Layout()); got != 0 {
		t.Fatalf("layout entries = %d, want 0", got)
	}

	waitRemote(t, rem, "delete")
	rem.mu.Lock()
	defer rem.mu.Unlock()
	if len(rem.deletes) != 1 || rem.deletes[0] != w.ID {
		t.Fatalf("remote deletes = %v", rem.deletes)
	}
}

func TestRemoveUnknown(t *testing.T) {
	d, _, _, _, _ := newTestDashboard(t)
	if d.Remove(context.Background(), "missing") {
		t.Fatalf("removed a widget that does not exist")
	}
}

func TestMoveLayoutMirrors(t *testing.T) {
	d, store, fetch, rem, _ := newTestDashboard(t)
	url := "https://example.com/ts"
	fetch.serve(url, tsBody)
	w, err := d.Add(context.Background(), validDraft(url))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	waitRemote(t, rem, "layout")

	moved := []models.LayoutEntry{{WidgetID: w.ID, X: 3, Y: 1, W: 4, H: 3, MinW: 4, MinH: 3, MaxW: 4, MaxH: 3}}
	d.MoveLayout(context.Background(), moved)

	if store.Layout()[0].X != 3 {
		t.Fatalf("layout not applied: %v", store.Layout())
	}
	waitRemote(t, rem, "layout")
}

func TestSeedReplacesCollection(t *testing.T) {
	d, store, fetch, rem, _ := newTestDashboard(t)
	fetch.serve("https://example.com/a", tsBody)
	fetch.serve("https://example.com/b", tsBody)

	a := testWidget("a")
	a.APIURL = "https://example.com/a"
	b := testWidget("b")
	b.APIURL = "https://example.com/b"
	b.RefreshSec = 0
	rem.widgets = []*models.Widget{a, b}

	if err := d.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := len(store.Widgets()); got != 2 {
		t.Fatalf("widgets = %d, want 2", got)
	}
	if got := len(store.Layout()); got != 2 {
		t.Fatalf("layout = %d, want 2", got)
	}
	if !d.sched.Running("a") {
		t.Fatalf("pollable seeded widget has no timer")
	}
	if d.sched.Running("b") {
		t.Fatalf("non-pollable seeded widget has a timer")
	}
}

func TestSeedFailureLeavesEmpty(t *testing.T) {
	d, store, _, rem, m := newTestDashboard(t)
	rem.failAll = true

	if err := d.Seed(context.Background()); err == nil {
		t.Fatalf("expected seed failure")
	}
	if got := len(store.Widgets()); got != 0 {
		t.Fatalf("widgets = %d, want 0", got)
	}
	if m.remoteErr("list") != 1 {
		t.Fatalf("list errors = %d, want 1", m.remoteErr("list"))
	}
}
