package drafting

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

const (
	// MaxTopK bounds the evidence requested for one draft.
	MaxTopK = 20
	// MaxContentLength bounds edited draft content, in runes.
	MaxContentLength = 50000
)

// GenerateInput requests a new draft for a case.
type GenerateInput struct {
	CaseID       uuid.UUID
	TemplateType string
	Context      map[string]string
	TopK         int
	Category     string
	Fault        domain.FaultPolicy
}

// Validate checks all fields and collects all errors.
func (i GenerateInput) Validate() error {
	var errs []domain.FieldError
	if i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "required"})
	}
	if strings.TrimSpace(i.TemplateType) == "" {
		errs = append(errs, domain.FieldError{Field: "template_type", Message: "required"})
	}
	if i.TopK < 0 || i.TopK > MaxTopK {
		errs = append(errs, domain.FieldError{Field: "top_k", Message: "must be between 1 and 20"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// EditInput replaces the content of a draft.
type EditInput struct {
	DraftID    string
	Content    string
	Notes      string
	ReviewerID string
}

// Validate checks all fields and collects all errors.
func (i EditInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.DraftID) == "" {
		errs = append(errs, domain.FieldError{Field: "draft_id", Message: "required"})
	}
	if strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "edited_content", Message: "required"})
	}
	if utf8.RuneCountInString(i.Content) > MaxContentLength {
		errs = append(errs, domain.FieldError{Field: "edited_content", Message: "too long"})
	}
	if strings.TrimSpace(i.ReviewerID) == "" {
		errs = append(errs, domain.FieldError{Field: "reviewer_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SignInput requests sign-off of a draft.
type SignInput struct {
	DraftID  string
	SignerID string
}

// Validate checks all fields and collects all errors.
func (i SignInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.DraftID) == "" {
		errs = append(errs, domain.FieldError{Field: "draft_id", Message: "required"})
	}
	if strings.TrimSpace(i.SignerID) == "" {
		errs = append(errs, domain.FieldError{Field: "signer_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// WriteBackInput requests the terminal write-back of a signed draft.
type WriteBackInput struct {
	DraftID    string
	ReviewerID string
}

// Validate checks all fields and collects all errors.
func (i WriteBackInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.DraftID) == "" {
		errs = append(errs, domain.FieldError{Field: "draft_id", Message: "required"})
	}
	if strings.TrimSpace(i.ReviewerID) == "" {
		errs = append(errs, domain.FieldError{Field: "reviewer_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
