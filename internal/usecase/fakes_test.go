package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
)

// fakeFetcher serves canned bodies per URL.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	errs   map[string]error
	fresh  int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: make(map[string][]byte),
		errs:   make(map[string]error),
	}
}

func (f *fakeFetcher) serve(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = []byte(body)
	delete(f.errs, url)
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) Test(ctx context.Context, rawURL string) ([]byte, error) {
	return f.FetchFresh(ctx, rawURL)
}

func (f *fakeFetcher) FetchFresh(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fresh++
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	body, ok := f.bodies[rawURL]
	if !ok {
		return nil, errors.New("no body for " + rawURL)
	}
	return body, nil
}

// fakeMetrics counts recordings.
type fakeMetrics struct {
	mu          sync.Mutex
	polls       map[string]int
	pollErrors  map[string]int
	advisories  int
	widgetsLive int
	remoteErrs  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		polls:      make(map[string]int),
		pollErrors: make(map[string]int),
		remoteErrs: make(map[string]int),
	}
}

func (m *fakeMetrics) RecordPoll(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[outcome]++
}

func (m *fakeMetrics) RecordPollError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollErrors[kind]++
}

func (m *fakeMetrics) RecordAdvisory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisories++
}

func (m *fakeMetrics) SetWidgetsLive(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgetsLive = n
}

func (m *fakeMetrics) RecordRemoteError(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remoteErrs[op]++
}

func (m *fakeMetrics) RecordPollDuration(float64) {}

func (m *fakeMetrics) RecordRecordsParsed(string, int) {}

func (m *fakeMetrics) poll(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls[outcome]
}

func (m *fakeMetrics) pollError(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollErrors[kind]
}

func (m *fakeMetrics) remoteErr(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remoteErrs[op]
}

// fakeRemote records mirrored mutations and signals each call.
type fakeRemote struct {
	mu       sync.Mutex
	widgets  []*models.Widget
	creates  []*models.Widget
	deletes  []string
	layouts  [][]models.LayoutEntry
	failAll bool
	called  chan string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{called: make(chan string, 16)}
}

func (r *fakeRemote) Create(_ context.Context, w *models.Widget) (*models.Widget, error) {
	r.mu.Lock()
	fail := r.failAll
	if !fail {
		r.creates = append(r.creates, w)
	}
	r.mu.Unlock()
	r.called <- "create"
	if fail {
		return nil, errors.New("remote down")
	}
	return w, nil
}

func (r *fakeRemote) Delete(_ context.Context, widgetID string) error {
	r.mu.Lock()
	fail := r.failAll
	if !fail {
		r.deletes = append(r.deletes, widgetID)
	}
	r.mu.Unlock()
	r.called <- "delete"
	if fail {
		return errors.New("remote down")
	}
	return nil
}

func (r *fakeRemote) List(context.Context) ([]*models.Widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("remote down")
	}
	return r.widgets, nil
}

func (r *fakeRemote) UpsertLayout(_ context.Context, layout []models.LayoutEntry) error {
	r.mu.Lock()
	fail := r.failAll
	if !fail {
		r.layouts = append(r.layouts, layout)
	}
	r.mu.Unlock()
	r.called <- "layout"
	if fail {
		return errors.New("remote down")
	}
	return nil
}

// fakeBroadcaster records pushed frames.
type fakeBroadcaster struct {
	mu         sync.Mutex
	data       []string
	advisories []string
}

func (b *fakeBroadcaster) BroadcastData(widgetID string, _ string, _ int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, widgetID)
}

func (b *fakeBroadcaster) BroadcastAdvisory(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advisories = append(b.advisories, message)
}
