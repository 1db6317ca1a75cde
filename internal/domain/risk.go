package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiskAssessment is the explainable output of the rule engine.
type RiskAssessment struct {
	Level             RiskLevel `json:"risk_level"`
	Triggers          []string  `json:"triggers"`
	Explanation       string    `json:"explanation"`
	RecommendedAction string    `json:"recommended_action"`
	SeverityScore     *int      `json:"severity_score,omitempty"`
}

// RequiresEscalation reports whether the assessment crosses the safety upgrade threshold.
func (a RiskAssessment) RequiresEscalation() bool {
	return a.Level.AtLeast(RiskHigh)
}

// SafetyUpgrade is created only when the rule engine crosses the escalation threshold.
type SafetyUpgrade struct {
	ID                uuid.UUID      `json:"id"`
	CaseID            uuid.UUID      `json:"case_id"`
	TriggerReason     string         `json:"trigger_reason"`
	Assessment        RiskAssessment `json:"assessment"`
	RecommendedAction string         `json:"recommended_action"`
	Actor             string         `json:"actor"`
	CreatedAt         time.Time      `json:"created_at"`
}
