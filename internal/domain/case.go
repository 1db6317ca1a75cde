package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the lifecycle state of a case.
type CaseStatus string

const (
	CaseActive      CaseStatus = "active"
	CaseTransferred CaseStatus = "transferred"
	CaseCompleted   CaseStatus = "completed"
	CaseArchived    CaseStatus = "archived"
)

func (s CaseStatus) String() string { return string(s) }

func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseActive, CaseTransferred, CaseCompleted, CaseArchived:
		return true
	}
	return false
}

// caseTransitions lists the single successor of every case status. No state may be skipped.
var caseTransitions = map[CaseStatus]CaseStatus{
	CaseActive:      CaseTransferred,
	CaseTransferred: CaseCompleted,
	CaseCompleted:   CaseArchived,
}

// CanTransitionTo reports whether to directly follows s.
func (s CaseStatus) CanTransitionTo(to CaseStatus) bool {
	next, ok := caseTransitions[s]
	return ok && next == to
}

// CheckCaseTransition returns a *TransitionError when from -> to is not allowed.
func CheckCaseTransition(from, to CaseStatus) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	return &TransitionError{Entity: "case", From: string(from), To: string(to)}
}

// Case is one end-user interaction thread. Origin is immutable.
type Case struct {
	ID          uuid.UUID  `json:"id"`
	Number      string     `json:"case_number"`
	OriginTrack Track      `json:"origin_track"`
	Status      CaseStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// QueueItem is a case as shown in the reviewer queue.
type QueueItem struct {
	Case
	HasCapsule bool `json:"has_capsule"`
}

// CaseDetail aggregates a case with its related artifacts.
type CaseDetail struct {
	Case           Case            `json:"case"`
	Capsule        *IntakeCapsule  `json:"capsule,omitempty"`
	Consents       []Consent       `json:"consents"`
	SafetyUpgrades []SafetyUpgrade `json:"safety_upgrades"`
	Drafts         []Draft         `json:"drafts"`
}
