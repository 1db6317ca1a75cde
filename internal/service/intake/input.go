package intake

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// MaxMessageLength bounds a single chat message or conversation summary, in runes.
const MaxMessageLength = 8000

// ChatInput is one public chat turn. A nil CaseID starts a new case.
type ChatInput struct {
	CaseID  *uuid.UUID
	Message string
	Fault   domain.FaultPolicy
}

// Validate checks all fields and collects all errors.
func (i ChatInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Message) == "" {
		errs = append(errs, domain.FieldError{Field: "message", Message: "required"})
	}
	if utf8.RuneCountInString(i.Message) > MaxMessageLength {
		errs = append(errs, domain.FieldError{Field: "message", Message: "too long"})
	}
	if i.CaseID != nil && *i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "invalid"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PreAssessInput requests the intake capsule for a case.
// ConversationSummary is the user's own text and becomes the verbatim self-description.
type PreAssessInput struct {
	CaseID              uuid.UUID
	ConversationSummary string
	Fault               domain.FaultPolicy
}

// Validate checks all fields and collects all errors.
func (i PreAssessInput) Validate() error {
	var errs []domain.FieldError
	if i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "required"})
	}
	if strings.TrimSpace(i.ConversationSummary) == "" {
		errs = append(errs, domain.FieldError{Field: "conversation_summary", Message: "required"})
	}
	if utf8.RuneCountInString(i.ConversationSummary) > MaxMessageLength {
		errs = append(errs, domain.FieldError{Field: "conversation_summary", Message: "too long"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ConsentInput records the user's sharing decision for a capsule.
type ConsentInput struct {
	CaseID    uuid.UUID
	CapsuleID string
	Confirmed bool
	Scope     []string
}

// Validate checks all fields and collects all errors.
func (i ConsentInput) Validate() error {
	var errs []domain.FieldError
	if i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "required"})
	}
	if strings.TrimSpace(i.CapsuleID) == "" {
		errs = append(errs, domain.FieldError{Field: "capsule_id", Message: "required"})
	}
	for _, s := range i.Scope {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, domain.FieldError{Field: "consent_scope", Message: "entries must not be blank"})
			break
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// normalizeScope trims and dedupes scope entries, keeping first-seen order.
func normalizeScope(scope []string) []string {
	out := make([]string, 0, len(scope))
	seen := make(map[string]struct{}, len(scope))
	for _, s := range scope {
		s = strings.TrimSpace(s)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
