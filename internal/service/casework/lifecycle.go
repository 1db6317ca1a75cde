package casework

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Complete closes a transferred case.
func (s *Service) Complete(ctx context.Context, input StatusInput) (*domain.Case, error) {
	return s.advance(ctx, input, domain.CaseCompleted)
}

// Archive archives a completed case. Archived is terminal.
func (s *Service) Archive(ctx context.Context, input StatusInput) (*domain.Case, error) {
	return s.advance(ctx, input, domain.CaseArchived)
}

func (s *Service) advance(ctx context.Context, input StatusInput, to domain.CaseStatus) (*domain.Case, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	c, err := s.cases.GetByID(ctx, input.CaseID)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	if err := domain.CheckCaseTransition(c.Status, to); err != nil {
		return nil, s.recordInvalidTransition(ctx, c.ID, c.Status, to)
	}

	var updated *domain.Case
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.cases.UpdateStatus(txCtx, c.ID, c.Status, to)
		if err != nil {
			return err
		}
		_, err = s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackClinician,
			Type:    domain.EventCaseStatus,
			Actor:   domain.HumanActor(input.ReviewerID),
			CaseID:  &updated.ID,
			Payload: domain.CaseStatusPayload{From: c.Status, To: to},
		})
		return err
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil, s.lostRace(ctx, c, to)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "case status changed",
		slog.String("case_id", updated.ID.String()),
		slog.String("from", c.Status.String()),
		slog.String("to", to.String()),
	)
	return updated, nil
}
