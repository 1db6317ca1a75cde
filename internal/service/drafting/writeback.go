package drafting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// WriteBack moves a signed draft to written_back. It is terminal and fails
// with a *domain.TransitionError from any other status.
func (s *Service) WriteBack(ctx context.Context, input WriteBackInput) (*domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	d, err := s.drafts.GetByID(ctx, input.DraftID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if err := domain.CheckDraftTransition(d.Status, domain.DraftWrittenBack); err != nil || d.SignedBy == nil {
		return nil, s.rejectTransition(ctx, d, domain.DraftWrittenBack)
	}

	var updated *domain.Draft
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.drafts.Transition(txCtx, domain.DraftTransition{
			DraftID: d.ID,
			From:    domain.DraftSigned,
			To:      domain.DraftWrittenBack,
		})
		if err != nil {
			return err
		}
		_, err = s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackClinician,
			Type:    domain.EventWriteBack,
			Actor:   domain.HumanActor(input.ReviewerID),
			CaseID:  &d.CaseID,
			DraftID: &d.ID,
			Payload: domain.WriteBackPayload{DraftID: d.ID, SignedBy: *d.SignedBy},
		})
		return err
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil, s.lostRace(ctx, d, domain.DraftWrittenBack)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "draft written back", slog.String("draft_id", d.ID))
	return updated, nil
}
