package drafting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/citation"
)

// Sign runs the citation policy on the stored content. On denial the draft
// becomes blocked and a *domain.PolicyDenial carrying the PolicyResult is
// returned; on approval it becomes signed. At most one sign attempt per draft
// runs at a time; a concurrent one fails with domain.ErrSignInProgress.
func (s *Service) Sign(ctx context.Context, input SignInput) (*domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.acquire(ctx, input.DraftID, lockSign, domain.DraftSigned); err != nil {
		return nil, err
	}
	defer s.locks.unlock(input.DraftID)

	d, err := s.drafts.GetByID(ctx, input.DraftID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if !d.Status.CanAttemptSign() {
		return nil, s.rejectTransition(ctx, d, domain.DraftSigned)
	}

	result := citation.Validate(d.Content, d.Evidence)
	if !result.Allowed {
		return nil, s.block(ctx, d, result)
	}

	now := time.Now().UTC()
	var signed *domain.Draft
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var err error
		signed, err = s.drafts.Transition(txCtx, domain.DraftTransition{
			DraftID:      d.ID,
			From:         d.Status,
			IfContent:    &d.Content,
			To:           domain.DraftSigned,
			PolicyResult: &result,
			SignedBy:     &input.SignerID,
			SignedAt:     &now,
		})
		if err != nil {
			return err
		}
		_, err = s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackClinician,
			Type:    domain.EventSign,
			Actor:   domain.HumanActor(input.SignerID),
			CaseID:  &d.CaseID,
			DraftID: &d.ID,
			Payload: domain.SignPayload{DraftID: d.ID, SignerID: input.SignerID, Policy: result},
		})
		return err
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil, s.lostRace(ctx, d, domain.DraftSigned)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "draft signed",
		slog.String("draft_id", d.ID),
		slog.Int("citations", result.CitationCount),
	)
	return signed, nil
}

// block stores the denial on the draft, ledgers it and returns the denial.
func (s *Service) block(ctx context.Context, d *domain.Draft, result domain.PolicyResult) error {
	denial := &domain.PolicyDenial{
		Policy:      domain.PolicyMandatoryCitations,
		Reason:      result.Reason,
		Conditions:  []string{result.Violation},
		Remediation: result.Remediation,
		Detail:      result,
	}

	err := s.runGoverned(ctx, func(txCtx context.Context) error {
		if _, err := s.drafts.Transition(txCtx, domain.DraftTransition{
			DraftID:      d.ID,
			From:         d.Status,
			IfContent:    &d.Content,
			To:           domain.DraftBlocked,
			PolicyResult: &result,
		}); err != nil {
			return err
		}
		_, err := s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackGovernance,
			Type:    domain.EventPolicyTrigger,
			Actor:   domain.PolicyEngineActor,
			CaseID:  &d.CaseID,
			DraftID: &d.ID,
			Payload: domain.PolicyTriggerPayload{
				Policy:      denial.Policy,
				Allowed:     false,
				Reason:      denial.Reason,
				Conditions:  denial.Conditions,
				Remediation: denial.Remediation,
				Context: map[string]any{
					"citation_count":   result.CitationCount,
					"cited_doc_ids":    result.CitedDocIDs,
					"evidence_doc_ids": result.EvidenceDocIDs,
				},
			},
		})
		return err
	})
	if errors.Is(err, domain.ErrConflict) {
		return s.lostRace(ctx, d, domain.DraftBlocked)
	}
	if err != nil {
		return err
	}

	s.log.WarnContext(ctx, "draft sign blocked",
		slog.String("draft_id", d.ID),
		slog.String("violation", result.Violation),
	)
	return denial
}
