package casework

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// TransferInput requests the handoff of a case to the reviewer track.
type TransferInput struct {
	CaseID    uuid.UUID
	CapsuleID string
}

// Validate checks all fields and collects all errors.
func (i TransferInput) Validate() error {
	var errs []domain.FieldError
	if i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "required"})
	}
	if strings.TrimSpace(i.CapsuleID) == "" {
		errs = append(errs, domain.FieldError{Field: "capsule_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StatusInput moves a transferred case forward in its lifecycle.
type StatusInput struct {
	CaseID     uuid.UUID
	ReviewerID string
}

// Validate checks all fields and collects all errors.
func (i StatusInput) Validate() error {
	var errs []domain.FieldError
	if i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "required"})
	}
	if strings.TrimSpace(i.ReviewerID) == "" {
		errs = append(errs, domain.FieldError{Field: "reviewer_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
