package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// DraftStatus is the lifecycle state of a reviewer draft.
type DraftStatus string

const (
	DraftNew         DraftStatus = "draft"
	DraftEditing     DraftStatus = "editing"
	DraftSigned      DraftStatus = "signed"
	DraftWrittenBack DraftStatus = "written_back"
	DraftBlocked     DraftStatus = "blocked"
)

func (s DraftStatus) String() string { return string(s) }

func (s DraftStatus) IsValid() bool {
	switch s {
	case DraftNew, DraftEditing, DraftSigned, DraftWrittenBack, DraftBlocked:
		return true
	}
	return false
}

var draftTransitions = map[DraftStatus][]DraftStatus{
	DraftNew:     {DraftEditing, DraftSigned, DraftBlocked},
	DraftEditing: {DraftEditing, DraftSigned, DraftBlocked},
	DraftBlocked: {DraftEditing},
	DraftSigned:  {DraftWrittenBack},
}

// CanTransitionTo reports whether to is reachable from s in one step.
// editing -> editing covers repeated edits; written_back is terminal.
func (s DraftStatus) CanTransitionTo(to DraftStatus) bool {
	return slices.Contains(draftTransitions[s], to)
}

// CanAttemptSign reports whether a sign attempt may start from s.
func (s DraftStatus) CanAttemptSign() bool {
	return s == DraftNew || s == DraftEditing
}

// CheckDraftTransition returns a *TransitionError when from -> to is not allowed.
func CheckDraftTransition(from, to DraftStatus) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	return &TransitionError{Entity: "draft", From: string(from), To: string(to)}
}

// DraftEdit is one entry of a draft's edit history.
type DraftEdit struct {
	EditedAt      time.Time `json:"edited_at"`
	Editor        string    `json:"editor"`
	Notes         string    `json:"notes,omitempty"`
	ContentLength int       `json:"content_length"`
}

// Draft is a generated document under reviewer control.
// Signed implies the content passed the citation policy at signing time.
type Draft struct {
	ID           string        `json:"draft_id"`
	CaseID       uuid.UUID     `json:"case_id"`
	TemplateType string        `json:"template_type"`
	Status       DraftStatus   `json:"status"`
	Content      string        `json:"content"`
	Evidence     []EvidenceRef `json:"evidence_refs"`
	Edits        []DraftEdit   `json:"edit_history"`
	PendingTasks []string      `json:"pending_tasks"`
	RiskPoints   []string      `json:"risk_points"`
	Model        string        `json:"model"`
	PolicyResult *PolicyResult `json:"policy_result,omitempty"`
	SignedBy     *string       `json:"signed_by,omitempty"`
	SignedAt     *time.Time    `json:"signed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// DraftTransition is a status-guarded update: it applies only while the row
// still has status From.
type DraftTransition struct {
	DraftID      string
	From         DraftStatus
	To           DraftStatus
	// IfContent, when set, also requires the stored content to equal it.
	IfContent    *string
	Content      *string
	Edit         *DraftEdit
	PolicyResult *PolicyResult
	SignedBy     *string
	SignedAt     *time.Time
}

// Template describes a reviewer document template.
type Template struct {
	Type                    string   `json:"template_type"`
	DisplayName             string   `json:"display_name"`
	InputScope              []string `json:"input_scope"`
	Steps                   []string `json:"steps"`
	HumanConfirmationPoints []string `json:"human_confirmation_points"`
	RetrievalCategory       string   `json:"retrieval_category,omitempty"`
}
