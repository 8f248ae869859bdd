package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"capquiz-backend/lib/scrapers/marketcap"
	"capquiz-backend/lib/validators/yahoo"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/update")

// ErrNoCompanies aborts a run that scraped an empty table, distinct
// from per-row skips: something upstream is broken and the previous
// snapshot must stay authoritative.
var ErrNoCompanies = errors.New("no companies scraped")

type Config struct {
	// where the snapshot json is written
	DataPath string `json:"data_path"`
	// where the one-line-per-run audit log is appended
	LogPath string `json:"log_path"`
	// cross-check the scrape against yahoo finance before publishing.
	// off by default, the yahoo query API rejects unauthenticated
	// callers often enough that blocking publication on it does more
	// harm than good.
	Validate bool `json:"validate"`
}

type Service struct {
	scraper *marketcap.Client
	yahoo   *yahoo.Client
	config  Config
	check   *validator.Validate
}

func NewService(scraper *marketcap.Client, yahooClient *yahoo.Client, config Config) *Service {
	return &Service{
		scraper: scraper,
		yahoo:   yahooClient,
		config:  config,
		check:   validator.New(),
	}
}

// Snapshot is the persisted artifact and the sole contract with the
// quiz front end. a run replaces it wholesale, it is never patched.
type Snapshot struct {
	Companies      []marketcap.Company `json:"companies" validate:"required,dive"`
	LastUpdated    string              `json:"lastUpdated" validate:"required"`
	TotalCompanies int                 `json:"totalCompanies" validate:"gt=0"`
	Source         string              `json:"source" validate:"required"`
	// elapsed seconds of the run that produced it
	UpdateDuration float64 `json:"updateDuration"`
}

// RunUpdate performs one full update run: scrape, optionally validate,
// persist, audit. a failure at any step leaves the previous snapshot
// untouched and is surfaced to the caller, retries belong to whoever
// scheduled the run.
func (s *Service) RunUpdate(ctx context.Context) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "RunUpdate")
	defer span.End()

	start := time.Now()
	runId := uuid.NewString()
	span.SetAttributes(attribute.String("run_id", runId))

	slog.InfoContext(ctx, "starting quiz data update", "run_id", runId)

	snapshot, err := s.run(ctx, start)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "update failed", "run_id", runId, "err", err)
		s.appendAudit(auditEntry{
			timestamp: time.Now().UTC(),
			duration:  time.Since(start),
			err:       err,
		})
		return nil, err
	}

	err = s.appendAudit(auditEntry{
		timestamp: time.Now().UTC(),
		success:   true,
		companies: snapshot.TotalCompanies,
		duration:  time.Since(start),
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(
		ctx, "update completed",
		"run_id", runId,
		"companies", snapshot.TotalCompanies,
		"duration_s", snapshot.UpdateDuration,
	)
	return snapshot, nil
}

func (s *Service) run(ctx context.Context, start time.Time) (*Snapshot, error) {
	companies, discards, err := s.scraper.Scrape(ctx)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, ErrNoCompanies
	}
	if len(discards) > 0 {
		slog.WarnContext(ctx, "discarded malformed table rows", "count", len(discards))
	}

	if s.config.Validate {
		results := s.yahoo.Validate(ctx, companies)
		decision := yahoo.ShouldProceed(results)
		if !decision.ShouldUpdate {
			return nil, fmt.Errorf("validation rejected snapshot: %s", decision.Reason)
		}
		slog.InfoContext(ctx, "validation accepted snapshot", "reason", decision.Reason)
	}

	// duration is known before the only write, so the artifact never
	// needs a second finalization pass
	duration := math.Round(time.Since(start).Seconds()*100) / 100

	snapshot := &Snapshot{
		Companies:      companies,
		LastUpdated:    time.Now().UTC().Format(time.RFC3339),
		TotalCompanies: len(companies),
		Source:         marketcap.Source,
		UpdateDuration: duration,
	}

	if snapshot.TotalCompanies != len(snapshot.Companies) {
		return nil, fmt.Errorf("snapshot company count mismatch")
	}
	err = s.check.Struct(snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot failed integrity check: %w", err)
	}

	err = s.writeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
