package domain

// Track identifies a workflow plane: the anonymous public track, the reviewer
// (clinician) track, or the shared governance plane.
type Track string

const (
	TrackPublic     Track = "public"
	TrackClinician  Track = "clinician"
	TrackGovernance Track = "governance"
)

func (t Track) String() string { return string(t) }

func (t Track) IsValid() bool {
	switch t {
	case TrackPublic, TrackClinician, TrackGovernance:
		return true
	}
	return false
}

// IsOrigin reports whether the track can be the origin of a case.
func (t Track) IsOrigin() bool {
	return t == TrackPublic || t == TrackClinician
}

// RiskLevel is ordered low < medium < high < critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (l RiskLevel) String() string { return string(l) }

func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Rank returns the ordinal of the level; unknown levels rank below low.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	}
	return 0
}

// AtLeast reports whether l is at or above other.
func (l RiskLevel) AtLeast(other RiskLevel) bool { return l.Rank() >= other.Rank() }

// MaxRisk returns the higher of two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ValidationStatus is the schema validation outcome of a structured artifact.
type ValidationStatus string

const (
	ValidationValid    ValidationStatus = "valid"
	ValidationRepaired ValidationStatus = "repaired"
	ValidationInvalid  ValidationStatus = "invalid"
)

func (s ValidationStatus) String() string { return string(s) }

func (s ValidationStatus) IsValid() bool {
	switch s {
	case ValidationValid, ValidationRepaired, ValidationInvalid:
		return true
	}
	return false
}

// Usable reports whether the artifact conforms to its schema (directly or after repair).
func (s ValidationStatus) Usable() bool {
	return s == ValidationValid || s == ValidationRepaired
}

// EventType is an open enumeration of audit event kinds.
type EventType string

const (
	EventInput            EventType = "input"
	EventGeneration       EventType = "generation"
	EventRetrieval        EventType = "retrieval"
	EventEdit             EventType = "edit"
	EventSign             EventType = "sign"
	EventWriteBack        EventType = "write_back"
	EventPolicyTrigger    EventType = "policy_trigger"
	EventSafetyUpgrade    EventType = "safety_upgrade"
	EventTransfer         EventType = "transfer"
	EventConsent          EventType = "consent"
	EventCaseStatus       EventType = "case_status"
	EventRiskAssessment   EventType = "risk_assessment"
	EventInferenceFailure EventType = "inference_failure"
)

func (t EventType) String() string { return string(t) }

// IsKnown reports whether the type has a dedicated payload variant.
func (t EventType) IsKnown() bool {
	switch t {
	case EventInput, EventGeneration, EventRetrieval, EventEdit, EventSign, EventWriteBack,
		EventPolicyTrigger, EventSafetyUpgrade, EventTransfer, EventConsent, EventCaseStatus,
		EventRiskAssessment, EventInferenceFailure:
		return true
	}
	return false
}

// Governance policy names.
const (
	PolicyMandatoryCitations  = "mandatory_citations"
	PolicyTransferEligibility = "transfer_eligibility"
	PolicySafetyUpgrade       = "safety_upgrade"
	PolicyWorkflowStateCheck  = "workflow_state_validation"
)
