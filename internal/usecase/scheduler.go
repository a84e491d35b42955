package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/ingest"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/probe"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

// pollTimer is the cancellation handle for one widget's polling loop.
type pollTimer struct {
	cancel   context.CancelFunc
	url      string
	interval time.Duration
}

// Scheduler keeps one independent repeating timer per pollable widget.
// A failing widget never touches another widget's timer or data, and a
// tick that completes after its widget was removed is discarded by the
// store.
type Scheduler struct {
	fetch   repository.Fetcher
	store   *Store
	metrics repository.Metrics
	logger  *logger.Logger

	feed    repository.Broadcaster // optional
	history repository.History     // optional
	events  repository.Events      // optional

	mu       sync.Mutex
	timers   map[string]*pollTimer
	advisory string
	stopped  bool
}

// NewScheduler creates a Scheduler. feed, history and events may be nil.
func NewScheduler(
	fetch repository.Fetcher,
	store *Store,
	metrics repository.Metrics,
	l *logger.Logger,
	feed repository.Broadcaster,
	history repository.History,
	events repository.Events,
) *Scheduler {
	return &Scheduler{
		fetch:   fetch,
		store:   store,
		metrics: metrics,
		logger:  l,
		feed:    feed,
		history: history,
		events:  events,
		timers:  make(map[string]*pollTimer),
	}
}

// Reconcile diffs the desired timer set against the running one:
// timers for removed widgets are cancelled synchronously, new widgets
// get fresh timers, and unchanged widgets keep their running timer so
// their cadence never drifts. A widget whose endpoint or interval
// changed counts as new.
func (s *Scheduler) Reconcile(widgets []*models.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	desired := make(map[string]*models.Widget, len(widgets))
	for _, w := range widgets {
		if w.Pollable() {
			desired[w.ID] = w
		}
	}

	for id, t := range s.timers {
		w, ok := desired[id]
		if ok && t.url == w.APIURL && t.interval == time.Duration(w.RefreshSec)*time.Second {
			continue
		}
		t.cancel()
		delete(s.timers, id)
	}

	for id, w := range desired {
		if _, running := s.timers[id]; running {
			continue
		}
		s.timers[id] = s.startLocked(w)
	}

	s.metrics.SetWidgetsLive(len(s.timers))
}

// Stop cancels every timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.cancel()
		delete(s.timers, id)
	}
	s.stopped = true
	s.metrics.SetWidgetsLive(0)
}

// Running reports whether a timer exists for the widget id.
func (s *Scheduler) Running(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Advisory returns the current scheduler-wide provider advisory.
func (s *Scheduler) Advisory() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advisory, s.advisory != ""
}

// DismissAdvisory clears the advisory.
func (s *Scheduler) DismissAdvisory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advisory = ""
}

func (s *Scheduler) startLocked(w *models.Widget) *pollTimer {
	interval := time.Duration(w.RefreshSec) * time.Second
	ctx, cancel := context.WithCancel(context.Background())

	id, url := w.ID, w.APIURL
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx, id, url)
			}
		}
	}()

	return &pollTimer{cancel: cancel, url: url, interval: interval}
}

// tick runs a single poll for one widget. Failures leave the widget's
// previous data untouched.
func (s *Scheduler) tick(ctx context.Context, id, url string) {
	start := time.Now()

	body, err := s.fetch.FetchFresh(ctx, url)
	if err != nil {
		s.metrics.RecordPoll("error")
		s.metrics.RecordPollError("transport")
		s.logger.Debug("poll fetch failed", logger.String("widget", id), logger.Error(err))
		return
	}

	if msg, ok := probe.AdvisoryMessage(body); ok {
		s.raiseAdvisory(msg)
		s.metrics.RecordPoll("advisory")
		s.logger.Warn("provider advisory", logger.String("widget", id), logger.String("message", msg))
		return
	}

	shape, series := ingest.Parse(body)
	if len(series) == 0 {
		s.metrics.RecordPoll("empty")
		s.metrics.RecordPollError("parse")
		s.logger.Debug("poll yielded no records, keeping existing data", logger.String("widget", id))
		return
	}

	if !s.store.UpdateData(id, series, body) {
		// Widget was removed while the fetch was in flight.
		s.metrics.RecordPoll("discarded")
		return
	}

	s.metrics.RecordPoll("ok")
	s.metrics.RecordPollDuration(time.Since(start).Seconds())
	s.metrics.RecordRecordsParsed(string(shape), len(series))

	if s.feed != nil {
		s.feed.BroadcastData(id, string(shape), len(series))
	}
	s.appendHistory(id, string(shape), len(series), body)
	s.publishRefreshed(id, string(shape), len(series))
}

func (s *Scheduler) raiseAdvisory(msg string) {
	s.mu.Lock()
	s.advisory = msg
	s.mu.Unlock()

	s.metrics.RecordAdvisory()
	if s.feed != nil {
		s.feed.BroadcastAdvisory(msg)
	}
}

func (s *Scheduler) appendHistory(id, shape string, records int, body []byte) {
	if s.history == nil {
		return
	}
	var ownerID string
	if w, ok := s.store.Widget(id); ok {
		ownerID = w.UserID
	}
	rec := &models.PollRecord{
		WidgetID: id,
		OwnerID:  ownerID,
		Shape:    shape,
		Records:  records,
		PolledAt: time.Now().UTC(),
		Raw:      body,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.history.AppendPoll(ctx, rec); err != nil {
			s.logger.Warn("poll history append failed", logger.String("widget", id), logger.Error(err))
		}
	}()
}

func (s *Scheduler) publishRefreshed(id, shape string, records int) {
	if s.events == nil {
		return
	}
	ev := &models.WidgetEvent{
		Type:     models.EventWidgetRefreshed,
		WidgetID: id,
		Shape:    shape,
		Records:  records,
		At:       time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.Warn("widget event publish failed", logger.String("widget", id), logger.Error(err))
		}
	}()
}
