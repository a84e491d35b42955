package probe

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/cache"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

// Probe fetches candidate endpoint bodies. Authoring-time tests go
// through a URL-keyed response cache so a user can iterate on binding
// fields without refetching; polling always bypasses it.
type Probe struct {
	client *xhttp.Client
	cache  cache.BytesCache
	ttl    time.Duration
	logger *logger.Logger
}

// New creates a Probe.
func New(client *xhttp.Client, c cache.BytesCache, ttl time.Duration, l *logger.Logger) *Probe {
	return &Probe{client: client, cache: c, ttl: ttl, logger: l}
}

// Test fetches rawURL for widget authoring: cache hit skips the
// network entirely; a miss fetches, applies the validation gate, and
// caches the body verbatim only when it passes.
func (p *Probe) Test(ctx context.Context, rawURL string) ([]byte, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	if body, ok, err := p.cache.GetBytes(ctx, rawURL); err == nil && ok {
		p.logger.Debug("probe cache hit", logger.String("url", rawURL))
		return body, nil
	}

	body, err := p.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if reason, bad := SoftErrorReason(body); bad {
		return nil, &models.SoftAPIError{Reason: reason}
	}

	if err := p.cache.SetBytes(ctx, rawURL, body, p.ttl); err != nil {
		p.logger.Warn("probe cache store failed", logger.String("url", rawURL), logger.Error(err))
	}
	return body, nil
}

// FetchFresh fetches rawURL with no cache on either side, for the
// polling scheduler.
func (p *Probe) FetchFresh(ctx context.Context, rawURL string) ([]byte, error) {
	return p.fetch(ctx, rawURL)
}

// Invalidate drops a cached endpoint body.
func (p *Probe) Invalidate(ctx context.Context, rawURL string) error {
	return p.cache.Delete(ctx, rawURL)
}

func (p *Probe) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := p.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    rawURL,
	})
	if err != nil {
		return nil, &models.TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.TransportError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &models.ValidationError{Field: "apiUrl", Reason: "invalid URL format"}
	}
	return nil
}
