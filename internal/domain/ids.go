package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// randomHex returns n upper-case hex characters from a fresh UUIDv4.
func randomHex(n int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:n]
}

// NewCaseNumber returns a human-readable case number such as PUB-20260101-1A2B3C4D.
func NewCaseNumber(origin Track, now time.Time) string {
	prefix := "PUB"
	if origin == TrackClinician {
		prefix = "CLN"
	}
	return prefix + "-" + now.UTC().Format("20060102") + "-" + randomHex(8)
}

// NewCapsuleID returns a capsule identifier such as CAP-1A2B3C4D5E6F.
func NewCapsuleID() string { return "CAP-" + randomHex(12) }

// NewDraftID returns a draft identifier such as DRAFT-1A2B3C4D5E6F.
func NewDraftID() string { return "DRAFT-" + randomHex(12) }
