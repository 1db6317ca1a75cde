package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EventPayload is the tagged union of audit payloads, keyed by event type.
type EventPayload interface {
	EventType() EventType
}

// InputPayload records a public chat turn.
type InputPayload struct {
	Message string `json:"user_message"`
	Reply   string `json:"assistant_reply"`
}

func (InputPayload) EventType() EventType { return EventInput }

// GenerationPayload records a model-produced artifact.
type GenerationPayload struct {
	Artifact         string           `json:"artifact"`
	ArtifactID       string           `json:"artifact_id"`
	TemplateType     string           `json:"template_type,omitempty"`
	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
	RepairAttempts   int              `json:"repair_attempts"`
	EvidenceCount    int              `json:"evidence_count"`
}

func (GenerationPayload) EventType() EventType { return EventGeneration }

// EvidenceScore is a compact evidence reference.
type EvidenceScore struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// RetrievalPayload records an evidence search.
type RetrievalPayload struct {
	Query    string          `json:"query"`
	TopK     int             `json:"top_k"`
	Category string          `json:"category,omitempty"`
	Evidence []EvidenceScore `json:"evidence"`
}

func (RetrievalPayload) EventType() EventType { return EventRetrieval }

// EditPayload records a reviewer edit.
type EditPayload struct {
	DraftID       string `json:"draft_id"`
	EditCount     int    `json:"edit_count"`
	Notes         string `json:"notes,omitempty"`
	ContentLength int    `json:"content_length"`
}

func (EditPayload) EventType() EventType { return EventEdit }

// SignPayload records a successful sign-off.
type SignPayload struct {
	DraftID  string       `json:"draft_id"`
	SignerID string       `json:"signer_id"`
	Policy   PolicyResult `json:"policy_check"`
}

func (SignPayload) EventType() EventType { return EventSign }

// WriteBackPayload records the terminal write-back of a signed draft.
type WriteBackPayload struct {
	DraftID  string `json:"draft_id"`
	SignedBy string `json:"signed_by"`
}

func (WriteBackPayload) EventType() EventType { return EventWriteBack }

// PolicyTriggerPayload records a policy decision that blocked a transition.
type PolicyTriggerPayload struct {
	Policy      string         `json:"policy"`
	Allowed     bool           `json:"allowed"`
	Reason      string         `json:"reason"`
	Conditions  []string       `json:"conditions,omitempty"`
	Remediation string         `json:"remediation,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

func (PolicyTriggerPayload) EventType() EventType { return EventPolicyTrigger }

// SafetyUpgradePayload records an automatic escalation.
type SafetyUpgradePayload struct {
	UpgradeID  uuid.UUID      `json:"upgrade_id"`
	Assessment RiskAssessment `json:"risk_assessment"`
}

func (SafetyUpgradePayload) EventType() EventType { return EventSafetyUpgrade }

// RiskAssessmentPayload records a standalone rule engine run.
type RiskAssessmentPayload struct {
	Source     string         `json:"source"`
	InputChars int            `json:"input_chars"`
	Assessment RiskAssessment `json:"risk_assessment"`
}

func (RiskAssessmentPayload) EventType() EventType { return EventRiskAssessment }

// TransferPayload records a case handoff to the reviewer track.
type TransferPayload struct {
	CapsuleID   string    `json:"capsule_id"`
	ConsentID   uuid.UUID `json:"consent_id"`
	TargetTrack Track     `json:"target_track"`
}

func (TransferPayload) EventType() EventType { return EventTransfer }

// ConsentPayload records a consent decision.
type ConsentPayload struct {
	ConsentID uuid.UUID `json:"consent_id"`
	CapsuleID string    `json:"capsule_id"`
	Confirmed bool      `json:"consent_confirmed"`
	Scope     []string  `json:"consent_scope"`
}

func (ConsentPayload) EventType() EventType { return EventConsent }

// CaseStatusPayload records a case lifecycle step after transfer.
type CaseStatusPayload struct {
	From CaseStatus `json:"from"`
	To   CaseStatus `json:"to"`
}

func (CaseStatusPayload) EventType() EventType { return EventCaseStatus }

// InferenceFailurePayload records a failed or timed out inference call.
type InferenceFailurePayload struct {
	Operation string `json:"operation"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	LatencyMS int64  `json:"latency_ms"`
}

func (InferenceFailurePayload) EventType() EventType { return EventInferenceFailure }

// UnknownPayload preserves a payload whose event type has no variant.
type UnknownPayload struct {
	Type EventType       `json:"-"`
	Raw  json.RawMessage `json:"-"`
}

func (p UnknownPayload) EventType() EventType { return p.Type }

// MarshalJSON emits the preserved bytes unchanged.
func (p UnknownPayload) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return []byte("{}"), nil
	}
	return p.Raw, nil
}

// DecodePayload restores the variant for t. Types without a variant decode to UnknownPayload.
func DecodePayload(t EventType, raw []byte) (EventPayload, error) {
	var (
		p   EventPayload
		err error
	)
	switch t {
	case EventInput:
		p, err = decodeAs[InputPayload](raw)
	case EventGeneration:
		p, err = decodeAs[GenerationPayload](raw)
	case EventRetrieval:
		p, err = decodeAs[RetrievalPayload](raw)
	case EventEdit:
		p, err = decodeAs[EditPayload](raw)
	case EventSign:
		p, err = decodeAs[SignPayload](raw)
	case EventWriteBack:
		p, err = decodeAs[WriteBackPayload](raw)
	case EventPolicyTrigger:
		p, err = decodeAs[PolicyTriggerPayload](raw)
	case EventSafetyUpgrade:
		p, err = decodeAs[SafetyUpgradePayload](raw)
	case EventRiskAssessment:
		p, err = decodeAs[RiskAssessmentPayload](raw)
	case EventTransfer:
		p, err = decodeAs[TransferPayload](raw)
	case EventConsent:
		p, err = decodeAs[ConsentPayload](raw)
	case EventCaseStatus:
		p, err = decodeAs[CaseStatusPayload](raw)
	case EventInferenceFailure:
		p, err = decodeAs[InferenceFailurePayload](raw)
	default:
		return UnknownPayload{Type: t, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}

func decodeAs[T EventPayload](raw []byte) (EventPayload, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
