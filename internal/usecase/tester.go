package usecase

import (
	"context"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/ingest"
)

// TestResult is what an endpoint probe yields for the authoring flow.
type TestResult struct {
	Shape   string        `json:"shape"`
	Fields  []string      `json:"fields"`
	Records int           `json:"records"`
	Sample  models.Record `json:"sample,omitempty"`
	Parsed  models.Series `json:"parsed"`
	Raw     []byte        `json:"-"`
}

// Tester probes candidate endpoints and normalizes their responses.
type Tester struct {
	fetcher repository.Fetcher
}

func NewTester(fetcher repository.Fetcher) *Tester {
	return &Tester{fetcher: fetcher}
}

// Test probes an endpoint through the authoring cache and normalizes
// its response. A response that yields no records fails the test.
func (t *Tester) Test(ctx context.Context, rawURL string) (*TestResult, error) {
	body, err := t.fetcher.Test(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	shape, series := ingest.Parse(body)
	if len(series) == 0 {
		return nil, &models.ParseError{Shape: string(shape)}
	}

	return &TestResult{
		Shape:   string(shape),
		Fields:  series.Fields(),
		Records: len(series),
		Sample:  series[0],
		Parsed:  series,
		Raw:     body,
	}, nil
}
