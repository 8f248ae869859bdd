package yahoo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"capquiz-backend/lib/scrapers/marketcap"

	"go.opentelemetry.io/otel/attribute"
)

type Status string

const (
	// variance within 0.1%
	StatusValidated Status = "validated"
	// variance between 0.1% and 1%
	StatusWarning Status = "warning"
	// variance beyond 1%
	StatusError Status = "error"
	// ticker unknown to yahoo, or no usable figures
	StatusNotFound Status = "not_found"
	// the outbound call itself blew up
	StatusFailed Status = "failed"
)

type Result struct {
	Status           Status  `json:"status"`
	Company          string  `json:"company"`
	Ticker           string  `json:"ticker"`
	Rank             int     `json:"rank,omitempty"`
	ScraperMarketCap float64 `json:"scraperMarketCap,omitempty"`
	YahooMarketCap   float64 `json:"yahooMarketCap,omitempty"`
	// percentage with 4 decimal places, empty unless a comparison happened
	Variance string `json:"variance,omitempty"`
	Message  string `json:"message"`
}

// Results holds one validation pass bucketed by outcome. the buckets
// are mutually exclusive, a result lands in exactly one.
type Results struct {
	Validated []Result
	Warnings  []Result
	Errors    []Result
	NotFound  []Result
	Failed    []Result
	Timestamp time.Time
}

func (r Results) Total() int {
	return len(r.Validated) + len(r.Warnings) + len(r.Errors) + len(r.NotFound) + len(r.Failed)
}

func (r *Results) add(result Result) {
	switch result.Status {
	case StatusValidated:
		r.Validated = append(r.Validated, result)
	case StatusWarning:
		r.Warnings = append(r.Warnings, result)
	case StatusError:
		r.Errors = append(r.Errors, result)
	case StatusNotFound:
		r.NotFound = append(r.NotFound, result)
	case StatusFailed:
		r.Failed = append(r.Failed, result)
	}
}

// batchSize bounds concurrent outbound requests per batch; batchDelay
// is a rate-limit courtesy between batches.
const batchSize = 10
const batchDelay = 200 * time.Millisecond

// Validate cross-checks every scraped record against yahoo finance.
// records are processed in strictly sequential batches, all lookups
// within a batch run concurrently. a per-record failure never aborts
// the pass, it just lands the record in the failed bucket.
func (c *Client) Validate(ctx context.Context, companies []marketcap.Company) Results {
	ctx, span := tracer.Start(ctx, "Validate")
	defer span.End()

	results := Results{Timestamp: time.Now().UTC()}

	for i := 0; i < len(companies); i += batchSize {
		end := min(i+batchSize, len(companies))
		batch := companies[i:end]

		// each goroutine writes its own slot, aggregation into
		// buckets only happens after the batch fully resolves
		batchResults := make([]Result, len(batch))
		wg := sync.WaitGroup{}
		for j, company := range batch {
			wg.Add(1)
			go func(j int, company marketcap.Company) {
				defer wg.Done()
				batchResults[j] = c.validateCompany(ctx, company)
			}(j, company)
		}
		wg.Wait()

		for _, result := range batchResults {
			results.add(result)
		}

		slog.DebugContext(
			ctx, "validation progress",
			"processed", end,
			"total", len(companies),
		)

		if end < len(companies) {
			time.Sleep(batchDelay)
		}
	}

	span.SetAttributes(
		attribute.Int("validated", len(results.Validated)),
		attribute.Int("warnings", len(results.Warnings)),
		attribute.Int("errors", len(results.Errors)),
		attribute.Int("not_found", len(results.NotFound)),
		attribute.Int("failed", len(results.Failed)),
	)
	slog.InfoContext(
		ctx, "validation pass complete",
		"validated", len(results.Validated),
		"warnings", len(results.Warnings),
		"errors", len(results.Errors),
		"not_found", len(results.NotFound),
		"failed", len(results.Failed),
	)

	return results
}
