package domain

// Citation policy violation codes.
const (
	ViolationNoEvidence        = "no_evidence_retrieved"
	ViolationMissingCitations  = "missing_citation_marks"
	ViolationUnmatchedCitation = "citations_not_in_evidence"
)

// PolicyResult is the structured outcome of a citation policy check.
type PolicyResult struct {
	Allowed        bool     `json:"allowed"`
	Reason         string   `json:"reason"`
	Violation      string   `json:"violation,omitempty"`
	CitationCount  int      `json:"citation_count"`
	CitedDocIDs    []string `json:"cited_doc_ids"`
	MatchedDocIDs  []string `json:"matched_doc_ids"`
	UnknownDocIDs  []string `json:"unknown_doc_ids"`
	EvidenceDocIDs []string `json:"evidence_doc_ids"`
	Valid          bool     `json:"valid"`
	Remediation    string   `json:"remediation,omitempty"`
}

// Policy is an entry of the governance policy catalogue.
type Policy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enforcement string `json:"enforcement"`
	Track       Track  `json:"track"`
}

// Policies is the static catalogue of enforced governance policies.
var Policies = []Policy{
	{Name: PolicyMandatoryCitations, Description: "All reviewer drafts must cite retrieved evidence before sign-off", Enforcement: "hard_block", Track: TrackClinician},
	{Name: PolicyTransferEligibility, Description: "Handoff requires a confirmed consent with non-empty scope", Enforcement: "hard_block", Track: TrackPublic},
	{Name: PolicySafetyUpgrade, Description: "High and critical risk assessments trigger automatic escalation", Enforcement: "automatic_trigger", Track: TrackPublic},
	{Name: PolicyWorkflowStateCheck, Description: "Case and draft state changes must follow the lifecycle tables", Enforcement: "hard_block", Track: TrackClinician},
}
