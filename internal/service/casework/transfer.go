package casework

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Transfer hands an active case to the reviewer track. It requires a confirmed
// consent with scope and, when configured, a schema-valid capsule. A denial is
// ledgered and returned as a *domain.PolicyDenial listing every unmet condition.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (*domain.Case, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	c, err := s.cases.GetByID(ctx, input.CaseID)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}

	capsule, err := s.capsules.GetByID(ctx, input.CapsuleID)
	if err != nil {
		return nil, fmt.Errorf("get capsule: %w", err)
	}
	if capsule.CaseID != c.ID {
		return nil, fmt.Errorf("capsule %s for case %s: %w", input.CapsuleID, c.ID, domain.ErrNotFound)
	}

	if c.Status != domain.CaseActive {
		return nil, s.recordInvalidTransition(ctx, c.ID, c.Status, domain.CaseTransferred)
	}

	consent, err := s.consents.LatestByCase(ctx, c.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get consent: %w", err)
	}

	if blockers := s.transferBlockers(consent, capsule); len(blockers) > 0 {
		detail := map[string]any{
			"capsule_id":        capsule.ID,
			"validation_status": capsule.ValidationStatus,
			"consent_recorded":  consent != nil,
		}
		denial := domain.NewTransferBlocked(blockers)
		denial.Detail = detail
		if err := s.recordBlocked(ctx, c.ID, domain.PolicyTriggerPayload{
			Policy:      denial.Policy,
			Allowed:     false,
			Reason:      denial.Reason,
			Conditions:  denial.Conditions,
			Remediation: denial.Remediation,
			Context:     detail,
		}); err != nil {
			return nil, err
		}
		return nil, denial
	}

	var updated *domain.Case
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.cases.UpdateStatus(txCtx, c.ID, domain.CaseActive, domain.CaseTransferred)
		if err != nil {
			return err
		}
		_, err = s.ledger.Append(txCtx, domain.AuditEvent{
			Track:  domain.TrackPublic,
			Type:   domain.EventTransfer,
			Actor:  domain.PolicyEngineActor,
			CaseID: &updated.ID,
			Payload: domain.TransferPayload{
				CapsuleID:   capsule.ID,
				ConsentID:   consent.ID,
				TargetTrack: domain.TrackClinician,
			},
		})
		return err
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil, s.lostRace(ctx, c, domain.CaseTransferred)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "case transferred",
		slog.String("case_id", updated.ID.String()),
		slog.String("capsule_id", capsule.ID),
	)
	return updated, nil
}

// transferBlockers returns the unmet transfer conditions in evaluation order.
func (s *Service) transferBlockers(consent *domain.Consent, capsule *domain.IntakeCapsule) []string {
	var blockers []string
	if !consent.Permits() {
		blockers = append(blockers, domain.BlockerConsentNotConfirmed)
	}
	if s.cfg.RequireValidCapsule && (capsule == nil || !capsule.ValidationStatus.Usable()) {
		blockers = append(blockers, domain.BlockerCapsuleInvalid)
	}
	return blockers
}

// lostRace handles a compare-and-set miss: another request moved the case
// first, so this attempt is ledgered against the status it actually found.
func (s *Service) lostRace(ctx context.Context, c *domain.Case, to domain.CaseStatus) error {
	current, err := s.cases.GetByID(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("get case: %w", err)
	}
	return s.recordInvalidTransition(ctx, c.ID, current.Status, to)
}
