package drafting

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Get returns one draft.
func (s *Service) Get(ctx context.Context, draftID string) (*domain.Draft, error) {
	if strings.TrimSpace(draftID) == "" {
		return nil, domain.NewValidationError("draft_id", "required")
	}
	d, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// ListByCase returns the drafts of a case, newest first.
func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error) {
	if caseID == uuid.Nil {
		return nil, domain.NewValidationError("case_id", "required")
	}
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	drafts, err := s.drafts.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	if drafts == nil {
		drafts = []domain.Draft{}
	}
	return drafts, nil
}

// Preview renders the draft content from markdown to HTML. Raw HTML in the
// content is not passed through and citation markers are left as text.
func (s *Service) Preview(ctx context.Context, draftID string) (string, error) {
	d, err := s.Get(ctx, draftID)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(d.Content), &buf); err != nil {
		return "", fmt.Errorf("render draft %s: %w", d.ID, err)
	}
	return buf.String(), nil
}
