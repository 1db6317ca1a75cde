package domain

import (
	"time"

	"github.com/google/uuid"
)

// Consent records which artifacts the end user agreed to share.
type Consent struct {
	ID           uuid.UUID `json:"id"`
	CaseID       uuid.UUID `json:"case_id"`
	CapsuleID    string    `json:"capsule_id"`
	Scope        []string  `json:"scope"`
	Confirmed    bool      `json:"confirmed"`
	ActorModel   string    `json:"actor_model"`
	Notification string    `json:"notification"`
	CreatedAt    time.Time `json:"created_at"`
}

// Permits reports whether the consent satisfies the transfer guard.
func (c *Consent) Permits() bool {
	return c != nil && c.Confirmed && len(c.Scope) > 0
}
