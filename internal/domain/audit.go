package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEvent is an immutable ledger entry. It is never updated or deleted after insertion.
type AuditEvent struct {
	ID            int64        `json:"id"`
	Track         Track        `json:"track"`
	Type          EventType    `json:"event_type"`
	Actor         Actor        `json:"actor"`
	CaseID        *uuid.UUID   `json:"case_id,omitempty"`
	DraftID       *string      `json:"draft_id,omitempty"`
	RiskLevel     *RiskLevel   `json:"risk_level,omitempty"`
	Payload       EventPayload `json:"-"`
	PayloadDigest string       `json:"payload_digest"`
	RequestID     string       `json:"request_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// MarshalJSON renders the payload inline under "payload".
func (e AuditEvent) MarshalJSON() ([]byte, error) {
	type plain AuditEvent
	return json.Marshal(struct {
		plain
		Payload EventPayload `json:"payload"`
	}{plain: plain(e), Payload: e.Payload})
}

// Validate checks the fields every append must supply.
func (e *AuditEvent) Validate() error {
	var errs []FieldError
	if !e.Track.IsValid() {
		errs = append(errs, FieldError{Field: "track", Message: "unknown track"})
	}
	if e.Type == "" {
		errs = append(errs, FieldError{Field: "event_type", Message: "required"})
	}
	if err := e.Actor.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve.Errors...)
		}
	}
	if e.RiskLevel != nil && !e.RiskLevel.IsValid() {
		errs = append(errs, FieldError{Field: "risk_level", Message: "unknown risk level"})
	}
	if e.Payload == nil {
		errs = append(errs, FieldError{Field: "payload", Message: "required"})
	} else if e.Payload.EventType() != e.Type {
		errs = append(errs, FieldError{
			Field:   "payload",
			Message: fmt.Sprintf("payload variant %s does not match event type %s", e.Payload.EventType(), e.Type),
		})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Risk returns a pointer to l for the optional RiskLevel field.
func Risk(l RiskLevel) *RiskLevel { return &l }

// AuditFilter selects ledger events. Zero values mean "any".
type AuditFilter struct {
	Track         *Track
	EventType     *EventType
	Actor         *string
	ActorCategory *ActorCategory
	RiskLevel     *RiskLevel
	CaseID        *uuid.UUID
	DraftID       *string
	Since         *time.Time
	Until         *time.Time
	// AfterID, when set, keeps events with a larger id and orders by id
	// ascending. Ascending is then ignored.
	AfterID       *int64
	Ascending     bool
	Limit         int
	Offset        int
}

// Audit query limits.
const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 1000
)

// Normalize applies limit defaults and bounds.
func (f *AuditFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultAuditLimit
	}
	if f.Limit > MaxAuditLimit {
		f.Limit = MaxAuditLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// StatsDimension names a ledger column events can be grouped by.
type StatsDimension string

const (
	DimTrack         StatsDimension = "track"
	DimActor         StatsDimension = "actor"
	DimActorCategory StatsDimension = "actor_category"
	DimRiskLevel     StatsDimension = "risk_level"
	DimEventType     StatsDimension = "event_type"
)

// AuditStats holds aggregate event counts.
type AuditStats struct {
	Total           int            `json:"total"`
	ByTrack         map[string]int `json:"by_track"`
	ByActor         map[string]int `json:"by_actor"`
	ByActorCategory map[string]int `json:"by_actor_category"`
	ByRiskLevel     map[string]int `json:"by_risk_level"`
	ByEventType     map[string]int `json:"by_event_type"`
}

// ActorSummary is one row of the distinct actor list.
type ActorSummary struct {
	Actor    string        `json:"actor" db:"actor"`
	Category ActorCategory `json:"category" db:"actor_category"`
	Events   int           `json:"events" db:"events"`
	LastSeen time.Time     `json:"last_seen" db:"last_seen"`
}
