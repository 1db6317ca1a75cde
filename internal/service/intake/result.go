package intake

import (
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// ChatResult is the outcome of a chat turn. The assessment is always present.
type ChatResult struct {
	Case          *domain.Case          `json:"case"`
	Reply         string                `json:"response"`
	Model         string                `json:"model"`
	Assessment    domain.RiskAssessment `json:"risk_assessment"`
	SafetyUpgrade *domain.SafetyUpgrade `json:"safety_upgrade,omitempty"`
}

// ReplyUnavailableError reports a chat turn whose reply could not be generated.
// Result still carries the case and the risk assessment, which were persisted.
type ReplyUnavailableError struct {
	Result *ChatResult
	Err    error
}

func (e *ReplyUnavailableError) Error() string { return "chat reply unavailable: " + e.Err.Error() }

func (e *ReplyUnavailableError) Unwrap() error { return e.Err }

// PreAssessResult is the stored capsule with the risk view of its self-description.
type PreAssessResult struct {
	Capsule       *domain.IntakeCapsule `json:"capsule"`
	Assessment    domain.RiskAssessment `json:"risk_assessment"`
	SafetyUpgrade *domain.SafetyUpgrade `json:"safety_upgrade,omitempty"`
}
