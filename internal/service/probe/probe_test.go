package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/cache"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

func newTestProbe(t *testing.T) *Probe {
	t.Helper()
	c := cache.NewMemoryCache(cache.WithMemoryMaxSize(16))
	t.Cleanup(func() { c.Close() })
	return New(xhttp.NewClient(xhttp.WithTimeout(5*time.Second)), c, time.Minute, logger.Nop())
}

func TestTestRejectsBadURL(t *testing.T) {
	p := newTestProbe(t)
	for _, u := range []string{"", "not a url", "ftp://example.com/feed", "https://"} {
		_, err := p.Test(context.Background(), u)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Test(%q) err = %v, want ValidationError", u, err)
		}
	}
}

func TestTestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProbe(t)
	_, err := p.Test(context.Background(), srv.URL)
	var terr *models.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if terr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", terr.Status)
	}
}

func TestTestSoftError(t *testing.T) {
	bodies := []string{
		`{"Error Message": "Invalid API call."}`,
		`{"Note": "Thank you for using our API."}`,
		`{}`,
		`[1, 2, 3]`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		p := newTestProbe(t)
		_, err := p.Test(context.Background(), srv.URL)
		srv.Close()

		var soft *models.SoftAPIError
		if !errors.As(err, &soft) {
			t.Fatalf("Test with body %s err = %v, want SoftAPIError", body, err)
		}
	}
}

func TestTestCachesBody(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"bitcoin": {"usd": 50000}}`))
	}))
	defer srv.Close()

	p := newTestProbe(t)
	first, err := p.Test(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("first test: %v", err)
	}
	second, err := p.Test(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second test: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if string(first) != string(second) {
		t.Fatalf("cached body differs")
	}
}

func TestFetchFreshBypassesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"price": 1}`))
	}))
	defer srv.Close()

	p := newTestProbe(t)
	if _, err := p.Test(context.Background(), srv.URL); err != nil {
		t.Fatalf("test: %v", err)
	}
	if _, err := p.FetchFresh(context.Background(), srv.URL); err != nil {
		t.Fatalf("fetch fresh: %v", err)
	}
	if _, err := p.FetchFresh(context.Background(), srv.URL); err != nil {
		t.Fatalf("fetch fresh: %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("hits = %d, want 3", hits)
	}
}

func TestSoftErrorNotCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Write([]byte(`{"Note": "rate limited"}`))
			return
		}
		w.Write([]byte(`{"price": 1}`))
	}))
	defer srv.Close()

	p := newTestProbe(t)
	if _, err := p.Test(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected soft error")
	}
	body, err := p.Test(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second test: %v", err)
	}
	if string(body) != `{"price": 1}` {
		t.Fatalf("body = %s", body)
	}
}

func TestAdvisoryMessage(t *testing.T) {
	msg, ok := AdvisoryMessage([]byte(`{"Information": "API rate limit is 25 requests per day."}`))
	if !ok {
		t.Fatalf("expected advisory")
	}
	if msg != "API rate limit is 25 requests per day." {
		t.Fatalf("msg = %q", msg)
	}

	if _, ok := AdvisoryMessage([]byte(`{"price": 1}`)); ok {
		t.Fatalf("unexpected advisory")
	}
}
