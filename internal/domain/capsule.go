package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IntakeCapsule is the structured intake artifact produced once per case.
// SelfDescription is the user's verbatim text and is never rewritten.
// ModelSummary is model-generated and tagged separately. Immutable after creation.
type IntakeCapsule struct {
	ID               string           `json:"capsule_id"`
	CaseID           uuid.UUID        `json:"case_id"`
	SelfDescription  string           `json:"self_description"`
	ModelSummary     string           `json:"model_summary"`
	StructuredData   json.RawMessage  `json:"structured_data"`
	RawOutput        string           `json:"raw_output,omitempty"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	RepairAttempts   int              `json:"repair_attempts"`
	Problems         []string         `json:"problems,omitempty"`
	Model            string           `json:"model"`
	CreatedAt        time.Time        `json:"created_at"`
}

// CapsuleFields is the typed view over StructuredData.
type CapsuleFields struct {
	ChiefComplaint  string   `json:"chief_complaint"`
	SymptomDuration string   `json:"symptom_duration,omitempty"`
	SeverityScore   *int     `json:"severity_score,omitempty"`
	RiskIndicators  []string `json:"risk_indicators,omitempty"`
	SelfDescription string   `json:"self_description"`
}

// Fields decodes StructuredData. An invalid capsule yields zero fields.
func (c *IntakeCapsule) Fields() CapsuleFields {
	var f CapsuleFields
	if len(c.StructuredData) > 0 {
		_ = json.Unmarshal(c.StructuredData, &f)
	}
	return f
}

// CapsuleSchema is the JSON schema every capsule's structured data must satisfy.
const CapsuleSchema = `{
  "type": "object",
  "properties": {
    "chief_complaint": {"type": "string", "minLength": 1},
    "symptom_duration": {"type": "string"},
    "severity_score": {"type": "integer", "minimum": 1, "maximum": 10},
    "risk_indicators": {"type": "array", "items": {"type": "string"}},
    "self_description": {"type": "string"}
  },
  "required": ["chief_complaint", "self_description"]
}`
