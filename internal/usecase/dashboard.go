package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

const remoteTimeout = 10 * time.Second

// Draft is a widget being authored. It starts untested; a successful
// endpoint test marks it tested, which Add requires before committing.
type Draft struct {
	Name        string
	Desc        string
	APIURL      string
	RefreshSec  int
	DisplayMode models.DisplayMode
	Config      models.BindingConfig
	UserID      string
}

// Dashboard is the engine behind the widget collection: it owns the
// in-memory store, drives the polling scheduler, and mirrors every
// mutation to the remote store on a best-effort basis. Local state is
// authoritative; a remote failure is logged and counted, never
// surfaced as an operation failure.
type Dashboard struct {
	store   *Store
	sched   *Scheduler
	remote  repository.RemoteStore
	tester  *Tester
	metrics repository.Metrics
	logger  *logger.Logger
	events  repository.Events // optional
	vp      models.Viewport
}

// NewDashboard creates the engine. events may be nil.
func NewDashboard(
	store *Store,
	sched *Scheduler,
	remote repository.RemoteStore,
	tester *Tester,
	metrics repository.Metrics,
	l *logger.Logger,
	events repository.Events,
	vp models.Viewport,
) *Dashboard {
	return &Dashboard{
		store:   store,
		sched:   sched,
		remote:  remote,
		tester:  tester,
		metrics: metrics,
		logger:  l,
		events:  events,
		vp:      vp,
	}
}

// Test probes an endpoint and normalizes its response. The raw body is
// cached so the follow-up Add does not refetch.
func (d *Dashboard) Test(ctx context.Context, rawURL string) (*TestResult, error) {
	return d.tester.Test(ctx, rawURL)
}

// Add validates a draft, re-tests its endpoint through the authoring
// cache, commits the widget locally and mirrors it to the remote store
// in the background.
func (d *Dashboard) Add(ctx context.Context, draft Draft) (*models.Widget, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "name is required"}
	}
	if strings.TrimSpace(draft.APIURL) == "" {
		return nil, &models.ValidationError{Field: "apiUrl", Reason: "api url is required"}
	}
	if !draft.DisplayMode.Valid() {
		return nil, &models.ValidationError{Field: "displayMode", Reason: "unknown display mode " + string(draft.DisplayMode)}
	}
	if err := models.ValidateBinding(draft.DisplayMode, draft.Config); err != nil {
		return nil, err
	}
	if draft.RefreshSec <= 0 {
		draft.RefreshSec = 1
	}

	res, err := d.Test(ctx, draft.APIURL)
	if err != nil {
		return nil, err
	}

	w := &models.Widget{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Desc:        draft.Desc,
		APIURL:      draft.APIURL,
		RefreshSec:  draft.RefreshSec,
		DisplayMode: draft.DisplayMode,
		Config:      draft.Config,
		ParsedData:  res.Parsed,
		RawData:     res.Raw,
		UserID:      draft.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	d.store.Add(w, d.vp)
	d.sched.Reconcile(d.store.Widgets())

	d.publish(models.EventWidgetCreated, w)
	d.mirror("create", func(ctx context.Context) error {
		if _, err := d.remote.Create(ctx, w); err != nil {
			return err
		}
		return d.remote.UpsertLayout(ctx, d.store.Layout())
	})

	return w, nil
}

// Remove deletes a widget locally, stops its timer and mirrors the
// delete. Removing an unknown id is a no-op.
func (d *Dashboard) Remove(ctx context.Context, id string) bool {
	if !d.store.Remove(id) {
		return false
	}
	d.sched.Reconcile(d.store.Widgets())

	d.publish(models.EventWidgetDeleted, &models.Widget{ID: id})
	d.mirror("delete", func(ctx context.Context) error {
		if err := d.remote.Delete(ctx, id); err != nil {
			return err
		}
		return d.remote.UpsertLayout(ctx, d.store.Layout())
	})
	return true
}

// MoveLayout replaces the layout document wholesale and mirrors it.
func (d *Dashboard) MoveLayout(ctx context.Context, layout []models.LayoutEntry) {
	d.store.SetLayout(layout)
	d.mirror("layout", func(ctx context.Context) error {
		return d.remote.UpsertLayout(ctx, d.store.Layout())
	})
}

// Seed loads the remote widget collection as the sole source of the
// initial local state, then starts polling. A remote failure leaves
// the dashboard empty rather than partially seeded.
func (d *Dashboard) Seed(ctx context.Context) error {
	widgets, err := d.remote.List(ctx)
	if err != nil {
		d.metrics.RecordRemoteError("list")
		return err
	}
	d.store.ReplaceAll(widgets, d.vp)
	d.sched.Reconcile(d.store.Widgets())
	d.logger.Info("dashboard seeded", logger.Int("widgets", len(widgets)))
	return nil
}

// Snapshot returns the current widgets and layout.
func (d *Dashboard) Snapshot() ([]*models.Widget, []models.LayoutEntry) {
	return d.store.Widgets(), d.store.Layout()
}

// Advisory exposes the scheduler's provider advisory.
func (d *Dashboard) Advisory() (string, bool) { return d.sched.Advisory() }

// DismissAdvisory clears the provider advisory.
func (d *Dashboard) DismissAdvisory() { d.sched.DismissAdvisory() }

// mirror runs a remote mutation in the background. Local state has
// already been committed; a failure is counted and logged only.
func (d *Dashboard) mirror(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.metrics.RecordRemoteError(op)
			d.logger.Warn("remote sync failed", logger.String("op", op), logger.Error(err))
		}
	}()
}

func (d *Dashboard) publish(t models.WidgetEventType, w *models.Widget) {
	if d.events == nil {
		return
	}
	ev := &models.WidgetEvent{
		Type:     t,
		WidgetID: w.ID,
		OwnerID:  w.UserID,
		At:       time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := d.events.Publish(ctx, ev); err != nil {
			d.logger.Warn("widget event publish failed", logger.String("type", string(t)), logger.Error(err))
		}
	}()
}
