package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Page is one slice of a filtered event query.
type Page struct {
	Events []domain.AuditEvent `json:"events"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// Query returns events matching filter, newest first unless filter.Ascending.
func (s *Service) Query(ctx context.Context, filter domain.AuditFilter) (Page, error) {
	if err := validateFilter(filter); err != nil {
		return Page{}, err
	}
	filter.Normalize()

	var (
		events []domain.AuditEvent
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.events.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.events.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	if events == nil {
		events = []domain.AuditEvent{}
	}
	return Page{Events: events, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// PolicyTriggers is Query restricted to policy_trigger events.
func (s *Service) PolicyTriggers(ctx context.Context, filter domain.AuditFilter) (Page, error) {
	t := domain.EventPolicyTrigger
	filter.EventType = &t
	return s.Query(ctx, filter)
}

// Get returns a single event.
func (s *Service) Get(ctx context.Context, id int64) (*domain.AuditEvent, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be positive")
	}
	return s.events.GetByID(ctx, id)
}

// Stats returns the total event count and per-dimension breakdowns.
func (s *Service) Stats(ctx context.Context) (domain.AuditStats, error) {
	var stats domain.AuditStats

	dims := []struct {
		dim domain.StatsDimension
		dst *map[string]int
	}{
		{domain.DimTrack, &stats.ByTrack},
		{domain.DimActor, &stats.ByActor},
		{domain.DimActorCategory, &stats.ByActorCategory},
		{domain.DimRiskLevel, &stats.ByRiskLevel},
		{domain.DimEventType, &stats.ByEventType},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.events.Count(gctx, domain.AuditFilter{})
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		stats.Total = total
		return nil
	})
	for _, d := range dims {
		g.Go(func() error {
			counts, err := s.events.CountBy(gctx, d.dim)
			if err != nil {
				return fmt.Errorf("count by %s: %w", d.dim, err)
			}
			if counts == nil {
				counts = map[string]int{}
			}
			*d.dst = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.AuditStats{}, err
	}
	return stats, nil
}

// Actors returns every distinct actor with its event count.
func (s *Service) Actors(ctx context.Context) ([]domain.ActorSummary, error) {
	actors, err := s.events.Actors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	if actors == nil {
		actors = []domain.ActorSummary{}
	}
	return actors, nil
}

func validateFilter(f domain.AuditFilter) error {
	var errs []domain.FieldError
	if f.Track != nil && !f.Track.IsValid() {
		errs = append(errs, domain.FieldError{Field: "track", Message: "unknown track"})
	}
	if f.RiskLevel != nil && !f.RiskLevel.IsValid() {
		errs = append(errs, domain.FieldError{Field: "risk_level", Message: "unknown risk level"})
	}
	if f.ActorCategory != nil && !f.ActorCategory.IsValid() {
		errs = append(errs, domain.FieldError{Field: "actor_category", Message: "unknown actor category"})
	}
	if f.Since != nil && f.Until != nil && f.Until.Before(*f.Since) {
		errs = append(errs, domain.FieldError{Field: "until", Message: "must not be before since"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
