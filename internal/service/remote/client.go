package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
)

// Client mirrors widget mutations to a remote persistence service. It
// implements repository.RemoteStore: callers treat every mutation as
// fire-and-forget, so methods return errors for logging only.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// envelope matches the remote service's response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewClient creates a sync client for the given base URL. The token is
// attached as a bearer credential on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithBearer(token),
		),
	}
}

// List fetches the full remote widget collection.
func (c *Client) List(ctx context.Context) ([]*models.Widget, error) {
	var env envelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/widgets",
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}

	var widgets []*models.Widget
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &widgets); err != nil {
			return nil, fmt.Errorf("decode widgets: %w", err)
		}
	}
	return widgets, nil
}

// Create stores a widget remotely. The client-assigned id is sent as
// is so a later Delete can address the same record.
func (c *Client) Create(ctx context.Context, w *models.Widget) (*models.Widget, error) {
	var env envelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/api/widgets",
		Body:   w,
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}

	created := w
	if len(env.Data) > 0 {
		created = &models.Widget{}
		if err := json.Unmarshal(env.Data, created); err != nil {
			return nil, fmt.Errorf("decode widget: %w", err)
		}
	}
	return created, nil
}

// Delete removes a widget remotely by id.
func (c *Client) Delete(ctx context.Context, widgetID string) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodDelete,
		URL:    c.baseURL + "/api/widgets/" + widgetID,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	return nil
}

// UpsertLayout replaces the remote layout document.
func (c *Client) UpsertLayout(ctx context.Context, layout []models.LayoutEntry) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/api/widgets/layout",
		Body:   map[string]any{"newLayout": layout},
	}, nil)
	if err != nil {
		return fmt.Errorf("upsert layout: %w", err)
	}
	return nil
}
