package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// ConsentNotification is shown to the user before consent is collected.
const ConsentNotification = "Your information will be shared with a clinician for professional assessment. " +
	"This includes your conversation summary and pre-assessment data."

// RecordConsent stores the user's decision about sharing a capsule of the case.
// A refusal is recorded too; only a confirmed consent with scope permits transfer.
func (s *Service) RecordConsent(ctx context.Context, input ConsentInput) (*domain.Consent, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	capsule, err := s.capsules.GetByID(ctx, input.CapsuleID)
	if err != nil {
		return nil, fmt.Errorf("get capsule: %w", err)
	}
	if capsule.CaseID != input.CaseID {
		return nil, fmt.Errorf("capsule %s for case %s: %w", input.CapsuleID, input.CaseID, domain.ErrNotFound)
	}

	var consent *domain.Consent
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var createErr error
		consent, createErr = s.consents.Create(txCtx, domain.Consent{
			CaseID:       input.CaseID,
			CapsuleID:    capsule.ID,
			Scope:        normalizeScope(input.Scope),
			Confirmed:    input.Confirmed,
			ActorModel:   capsule.Model,
			Notification: ConsentNotification,
		})
		if createErr != nil {
			return fmt.Errorf("create consent: %w", createErr)
		}

		_, appendErr := s.ledger.Append(txCtx, domain.AuditEvent{
			Track:  domain.TrackPublic,
			Type:   domain.EventConsent,
			Actor:  domain.HumanActor(domain.AnonymousUserLabel),
			CaseID: &consent.CaseID,
			Payload: domain.ConsentPayload{
				ConsentID: consent.ID,
				CapsuleID: consent.CapsuleID,
				Confirmed: consent.Confirmed,
				Scope:     consent.Scope,
			},
		})
		return appendErr
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "consent recorded",
		slog.String("case_id", input.CaseID.String()),
		slog.String("capsule_id", capsule.ID),
		slog.Bool("confirmed", consent.Confirmed),
		slog.Int("scope", len(consent.Scope)),
	)
	return consent, nil
}
