package casework

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// queueStatuses are the statuses shown in the reviewer queue.
var queueStatuses = []domain.CaseStatus{domain.CaseTransferred, domain.CaseActive}

// Get returns a case with its capsule, consents, safety upgrades and drafts.
func (s *Service) Get(ctx context.Context, caseID uuid.UUID) (*domain.CaseDetail, error) {
	if caseID == uuid.Nil {
		return nil, domain.NewValidationError("case_id", "required")
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}

	detail := &domain.CaseDetail{Case: *c}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		capsule, err := s.capsules.GetByCase(gctx, caseID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get capsule: %w", err)
		}
		detail.Capsule = capsule
		return nil
	})
	g.Go(func() error {
		consents, err := s.consents.ListByCase(gctx, caseID)
		if err != nil {
			return fmt.Errorf("list consents: %w", err)
		}
		detail.Consents = consents
		return nil
	})
	g.Go(func() error {
		ups, err := s.safety.ListByCase(gctx, caseID)
		if err != nil {
			return fmt.Errorf("list safety upgrades: %w", err)
		}
		detail.SafetyUpgrades = ups
		return nil
	})
	g.Go(func() error {
		drafts, err := s.drafts.ListByCase(gctx, caseID)
		if err != nil {
			return fmt.Errorf("list drafts: %w", err)
		}
		detail.Drafts = drafts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if detail.Consents == nil {
		detail.Consents = []domain.Consent{}
	}
	if detail.SafetyUpgrades == nil {
		detail.SafetyUpgrades = []domain.SafetyUpgrade{}
	}
	if detail.Drafts == nil {
		detail.Drafts = []domain.Draft{}
	}
	return detail, nil
}

// Queue returns transferred and active cases, newest first.
func (s *Service) Queue(ctx context.Context) ([]domain.QueueItem, error) {
	items, err := s.cases.ListQueue(ctx, queueStatuses, s.cfg.QueueLimit)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	if items == nil {
		items = []domain.QueueItem{}
	}
	return items, nil
}
