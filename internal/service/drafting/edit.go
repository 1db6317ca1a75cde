package drafting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Edit replaces the draft content and appends an edit-history entry. Allowed
// from draft, editing and blocked; the draft moves to editing.
func (s *Service) Edit(ctx context.Context, input EditInput) (*domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.acquire(ctx, input.DraftID, lockEdit, domain.DraftEditing); err != nil {
		return nil, err
	}
	defer s.locks.unlock(input.DraftID)

	d, err := s.drafts.GetByID(ctx, input.DraftID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if err := domain.CheckDraftTransition(d.Status, domain.DraftEditing); err != nil {
		return nil, s.rejectTransition(ctx, d, domain.DraftEditing)
	}

	edit := domain.DraftEdit{
		EditedAt:      time.Now().UTC(),
		Editor:        input.ReviewerID,
		Notes:         input.Notes,
		ContentLength: utf8.RuneCountInString(input.Content),
	}

	var updated *domain.Draft
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.drafts.Transition(txCtx, domain.DraftTransition{
			DraftID: d.ID,
			From:    d.Status,
			To:      domain.DraftEditing,
			Content: &input.Content,
			Edit:    &edit,
		})
		if err != nil {
			return err
		}
		_, err = s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackClinician,
			Type:    domain.EventEdit,
			Actor:   domain.HumanActor(input.ReviewerID),
			CaseID:  &d.CaseID,
			DraftID: &d.ID,
			Payload: domain.EditPayload{
				DraftID:       d.ID,
				EditCount:     len(updated.Edits),
				Notes:         input.Notes,
				ContentLength: edit.ContentLength,
			},
		})
		return err
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil, s.lostRace(ctx, d, domain.DraftEditing)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "draft edited",
		slog.String("draft_id", d.ID),
		slog.Int("edits", len(updated.Edits)),
		slog.Int("content_length", edit.ContentLength),
	)
	return updated, nil
}

// lostRace handles a compare-and-set miss on read. When the status moved the
// attempt is ledgered against the status the draft has now; when only the
// content moved it is ledgered as a stale read and fails with ErrConflict.
func (s *Service) lostRace(ctx context.Context, read *domain.Draft, to domain.DraftStatus) error {
	current, err := s.drafts.GetByID(ctx, read.ID)
	if err != nil {
		return fmt.Errorf("get draft: %w", err)
	}
	if current.Status != read.Status {
		return s.rejectTransition(ctx, current, to)
	}

	reason := fmt.Sprintf("draft %s content changed during %s", current.ID, to)
	if err := s.recordTrigger(ctx, current, domain.PolicyTriggerPayload{
		Policy:     domain.PolicyWorkflowStateCheck,
		Allowed:    false,
		Reason:     reason,
		Conditions: []string{"draft content must be unchanged between validation and transition"},
		Context:    map[string]any{"from": current.Status, "to": to},
	}); err != nil {
		return err
	}
	return fmt.Errorf("%s: %w", reason, domain.ErrConflict)
}
