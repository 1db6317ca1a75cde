// Package monitor summarizes recorded inference runs.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

type runRepo interface {
	Totals(ctx context.Context, since *time.Time) (domain.ModelPerf, error)
	ByModel(ctx context.Context, since *time.Time) ([]domain.ModelPerf, error)
	ErrorCodes(ctx context.Context, since *time.Time) (map[string]int, error)
}

// Service builds the inference run roll-up.
type Service struct {
	runs runRepo
	log  *slog.Logger
}

// NewService creates a monitor Service.
func NewService(log *slog.Logger, runs runRepo) *Service {
	return &Service{runs: runs, log: log.With("service", "monitor")}
}

// Summary aggregates runs recorded at or after since; a nil since covers all runs.
func (s *Service) Summary(ctx context.Context, since *time.Time) (*domain.PerfSummary, error) {
	if since != nil && since.After(time.Now()) {
		return nil, domain.NewValidationError("since", "must not be in the future")
	}

	var (
		totals domain.ModelPerf
		models []domain.ModelPerf
		codes  map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.runs.Totals(gctx, since)
		if err != nil {
			return fmt.Errorf("run totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		models, err = s.runs.ByModel(gctx, since)
		if err != nil {
			return fmt.Errorf("runs by model: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		codes, err = s.runs.ErrorCodes(gctx, since)
		if err != nil {
			return fmt.Errorf("run error codes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if models == nil {
		models = []domain.ModelPerf{}
	}
	if codes == nil {
		codes = map[string]int{}
	}

	return &domain.PerfSummary{
		Runs:            totals.Runs,
		SuccessRate:     totals.SuccessRate,
		AvgLatencyMS:    totals.AvgLatencyMS,
		P95LatencyMS:    totals.P95LatencyMS,
		AvgTokensPerSec: totals.AvgTokensPerSec,
		ByModel:         models,
		ErrorCodes:      codes,
		Since:           since,
	}, nil
}
