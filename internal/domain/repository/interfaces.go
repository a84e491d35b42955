package repository

import (
	"context"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
)

// WidgetRepository persists widgets and the per-owner layout document.
type WidgetRepository interface {
	Create(ctx context.Context, w *models.Widget) (*models.Widget, error)
	Delete(ctx context.Context, userID, widgetID string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Widget, error)
	UpsertLayout(ctx context.Context, userID string, layout []models.LayoutEntry) error
	Layout(ctx context.Context, userID string) ([]models.LayoutEntry, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// SessionRepository persists issued session tokens.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *models.Session) error
	SessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	// ActiveSessions returns the user's sessions whose expiry is after now.
	ActiveSessions(ctx context.Context, userID string, now time.Time) ([]*models.Session, error)
}

// RemoteStore mirrors local widget mutations to the remote persistence
// surface. Implemented by the HTTP sync client; every call is
// best-effort and session-bound.
type RemoteStore interface {
	Create(ctx context.Context, w *models.Widget) (*models.Widget, error)
	Delete(ctx context.Context, widgetID string) error
	List(ctx context.Context) ([]*models.Widget, error)
	UpsertLayout(ctx context.Context, layout []models.LayoutEntry) error
}

// Fetcher retrieves endpoint bodies. Test consults the authoring cache;
// FetchFresh always bypasses it.
type Fetcher interface {
	Test(ctx context.Context, rawURL string) ([]byte, error)
	FetchFresh(ctx context.Context, rawURL string) ([]byte, error)
}

// Metrics records operational measurements.
type Metrics interface {
	RecordPoll(outcome string)
	RecordPollError(kind string)
	RecordAdvisory()
	SetWidgetsLive(n int)
	RecordRemoteError(op string)
	RecordPollDuration(seconds float64)
	RecordRecordsParsed(shape string, n int)
}

// History appends successful polls to long-term storage.
type History interface {
	AppendPoll(ctx context.Context, rec *models.PollRecord) error
}

// Events publishes widget lifecycle events.
type Events interface {
	Publish(ctx context.Context, ev *models.WidgetEvent) error
}

// Broadcaster pushes live updates to connected dashboard clients.
type Broadcaster interface {
	BroadcastData(widgetID string, shape string, records int)
	BroadcastAdvisory(message string)
}
