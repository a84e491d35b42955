package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

const tsBody = `{"Time Series (Daily)": {"2024-10-10": {"1. open": "1", "4. close": "2"}}}`

func newTestScheduler(t *testing.T) (*Scheduler, *Store, *fakeFetcher, *fakeMetrics, *fakeBroadcaster) {
	t.Helper()
	fetch := newFakeFetcher()
	store := NewStore()
	m := newFakeMetrics()
	feed := &fakeBroadcaster{}
	s := NewScheduler(fetch, store, m, logger.Nop(), feed, nil, nil)
	t.Cleanup(s.Stop)
	return s, store, fetch, m, feed
}

func TestReconcileStartsOnlyPollable(t *testing.T) {
	s, store, _, m, _ := newTestScheduler(t)

	polled := testWidget("a")
	static := testWidget("b")
	static.RefreshSec = 0
	store.Add(polled, testViewport)
	store.Add(static, testViewport)

	s.Reconcile(store.Widgets())

	if !s.Running("a") {
		t.Fatalf("expected timer for a")
	}
	if s.Running("b") {
		t.Fatalf("unexpected timer for non-pollable b")
	}
	if m.widgetsLive != 1 {
		t.Fatalf("widgets live = %d, want 1", m.widgetsLive)
	}
}

func TestReconcileCancelsRemoved(t *testing.T) {
	s, store, _, m, _ := newTestScheduler(t)
	store.Add(testWidget("a"), testViewport)
	s.Reconcile(store.Widgets())

	store.Remove("a")
	s.Reconcile(store.Widgets())

	if s.Running("a") {
		t.Fatalf("timer for removed widget still running")
	}
	if m.widgetsLive != 0 {
		t.Fatalf("widgets live = %d, want 0", m.widgetsLive)
	}
}

func TestReconcileKeepsUnchangedTimers(t *testing.T) {
	s, store, _, _, _ := newTestScheduler(t)
	store.Add(testWidget("a"), testViewport)
	s.Reconcile(store.Widgets())

	before := s.timers["a"]
	s.Reconcile(store.Widgets())
	if s.timers["a"] != before {
		t.Fatalf("unchanged widget got a new timer")
	}
}

func TestReconcileRestartsOnIntervalChange(t *testing.T) {
	s, store, _, _, _ := newTestScheduler(t)
	w := testWidget("a")
	store.Add(w, testViewport)
	s.Reconcile(store.Widgets())
	before := s.timers["a"]

	changed := *w
	changed.RefreshSec = 60
	s.Reconcile([]*models.Widget{&changed})

	if s.timers["a"] == before {
		t.Fatalf("interval change should restart the timer")
	}
}

func TestTickUpdatesDataAndBroadcasts(t *testing.T) {
	s, store, fetch, m, feed := newTestScheduler(t)
	w := testWidget("a")
	store.Add(w, testViewport)
	fetch.serve(w.APIURL, tsBody)

	s.tick(context.Background(), w.ID, w.APIURL)

	got, _ := store.Widget("a")
	if len(got.ParsedData) != 1 {
		t.Fatalf("parsed data = %v", got.ParsedData)
	}
	if got.ParsedData[0]["close"] != 2.0 {
		t.Fatalf("close = %v, want 2", got.ParsedData[0]["close"])
	}
	if m.poll("ok") != 1 {
		t.Fatalf("ok polls = %d, want 1", m.poll("ok"))
	}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if len(feed.data) != 1 || feed.data[0] != "a" {
		t.Fatalf("broadcasts = %v", feed.data)
	}
}

func TestTickFetchErrorKeepsData(t *testing.T) {
	s, store, fetch, m, _ := newTestScheduler(t)
	w := testWidget("a")
	w.ParsedData = models.Series{{"close": 9.0}}
	store.Add(w, testViewport)
	fetch.fail(w.APIURL, errors.New("connection refused"))

	s.tick(context.Background(), w.ID, w.APIURL)

	got, _ := store.Widget("a")
	if len(got.ParsedData) != 1 || got.ParsedData[0]["close"] != 9.0 {
		t.Fatalf("prior data lost: %v", got.ParsedData)
	}
	if m.pollError("transport") != 1 {
		t.Fatalf("transport errors = %d, want 1", m.pollError("transport"))
	}
}

func TestTickFailureIsolatedPerWidget(t *testing.T) {
	s, store, fetch, _, _ := newTestScheduler(t)
	a := testWidget("a")
	b := testWidget("b")
	store.Add(a, testViewport)
	store.Add(b, testViewport)
	fetch.fail(a.APIURL, errors.New("boom"))
	fetch.serve(b.APIURL, tsBody)

	s.tick(context.Background(), a.ID, a.APIURL)
	s.tick(context.Background(), b.ID, b.APIURL)

	gotB, _ := store.Widget("b")
	if len(gotB.ParsedData) != 1 {
		t.Fatalf("b did not update past a's failure: %v", gotB.ParsedData)
	}
}

func TestTickEmptyParseKeepsData(t *testing.T) {
	s, store, fetch, m, _ := newTestScheduler(t)
	w := testWidget("a")
	w.ParsedData = models.Series{{"close": 9.0}}
	store.Add(w, testViewport)
	fetch.serve(w.APIURL, `[1, 2, 3]`)

	s.tick(context.Background(), w.ID, w.APIURL)

	got, _ := store.Widget("a")
	if len(got.ParsedData) != 1 || got.ParsedData[0]["close"] != 9.0 {
		t.Fatalf("prior data lost: %v", got.ParsedData)
	}
	if m.pollError("parse") != 1 {
		t.Fatalf("parse errors = %d, want 1", m.pollError("parse"))
	}
}

func TestTickAdvisory(t *testing.T) {
	s, store, fetch, m, feed := newTestScheduler(t)
	w := testWidget("a")
	w.ParsedData = models.Series{{"close": 9.0}}
	store.Add(w, testViewport)
	fetch.serve(w.APIURL, `{"Information": "rate limit reached"}`)

	s.tick(context.Background(), w.ID, w.APIURL)

	msg, ok := s.Advisory()
	if !ok || msg != "rate limit reached" {
		t.Fatalf("advisory = %q, %v", msg, ok)
	}
	got, _ := store.Widget("a")
	if len(got.ParsedData) != 1 {
		t.Fatalf("advisory must not replace data: %v", got.ParsedData)
	}
	if m.advisories != 1 {
		t.Fatalf("advisories = %d, want 1", m.advisories)
	}
	feed.mu.Lock()
	adv := len(feed.advisories)
	feed.mu.Unlock()
	if adv != 1 {
		t.Fatalf("broadcast advisories = %d, want 1", adv)
	}

	s.DismissAdvisory()
	if _, ok := s.Advisory(); ok {
		t.Fatalf("advisory not dismissed")
	}
}

func TestTickDiscardedAfterRemoval(t *testing.T) {
	s, store, fetch, m, _ := newTestScheduler(t)
	w := testWidget("a")
	store.Add(w, testViewport)
	fetch.serve(w.APIURL, tsBody)

	// Removal happens while a poll is in flight; the late result must
	// not resurrect the widget.
	store.Remove("a")
	s.tick(context.Background(), w.ID, w.APIURL)

	if _, ok := store.Widget("a"); ok {
		t.Fatalf("removed widget resurrected")
	}
	if m.poll("discarded") != 1 {
		t.Fatalf("discarded polls = %d, want 1", m.poll("discarded"))
	}
}

func TestStopCancelsEverything(t *testing.T) {
	s, store, _, _, _ := newTestScheduler(t)
	store.Add(testWidget("a"), testViewport)
	store.Add(testWidget("b"), testViewport)
	s.Reconcile(store.Widgets())

	s.Stop()

	if s.Running("a") || s.Running("b") {
		t.Fatalf("timers survived Stop")
	}
	// Reconcile after Stop must not start new timers.
	s.Reconcile(store.Widgets())
	if s.Running("a") {
		t.Fatalf("reconcile after stop started a timer")
	}
}
