package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")

	ErrPolicyBlocked          = errors.New("blocked by policy")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrRetrievalUnavailable   = errors.New("retrieval unavailable")
	ErrSchemaValidationFailed = errors.New("schema validation failed")
	ErrLedgerWriteFailed      = errors.New("ledger write failed")
	ErrInferenceUnavailable   = errors.New("inference unavailable")
	ErrSignInProgress         = errors.New("sign already in progress")
)

// Stable machine-readable codes carried in API payloads.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodePolicyBlocked     = "POLICY_BLOCKED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeRetrievalUnavail  = "RETRIEVAL_UNAVAILABLE"
	CodeSchemaInvalid     = "SCHEMA_VALIDATION_FAILED"
	CodeLedgerWriteFailed = "LEDGER_WRITE_FAILED"
	CodeInferenceUnavail  = "INFERENCE_UNAVAILABLE"
	CodeSignInProgress    = "SIGN_IN_PROGRESS"
	CodeInternal          = "INTERNAL"
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// PolicyDenial is returned when a governed transition's precondition fails.
// Conditions lists every unmet condition in evaluation order.
type PolicyDenial struct {
	Policy      string
	Reason      string
	Conditions  []string
	Remediation string
	Detail      any
}

func (e *PolicyDenial) Error() string {
	if len(e.Conditions) == 0 {
		return fmt.Sprintf("policy %s: %s", e.Policy, e.Reason)
	}
	return fmt.Sprintf("policy %s: %s (%s)", e.Policy, e.Reason, strings.Join(e.Conditions, "; "))
}

func (e *PolicyDenial) Unwrap() error { return ErrPolicyBlocked }

// Code returns the API error code.
func (e *PolicyDenial) Code() string { return CodePolicyBlocked }

// Transfer blocker texts. They appear verbatim in PolicyDenial.Conditions.
const (
	BlockerConsentNotConfirmed = "consent not confirmed"
	BlockerCapsuleInvalid      = "intake capsule invalid"
)

// NewTransferBlocked builds the denial for a case handoff that failed its guard.
func NewTransferBlocked(conditions []string) *PolicyDenial {
	remediation := "record a confirmed consent with a non-empty scope, then retry the transfer"
	for _, c := range conditions {
		if c == BlockerCapsuleInvalid {
			remediation = "regenerate the intake capsule and record a confirmed consent, then retry the transfer"
		}
	}
	return &PolicyDenial{
		Policy:      PolicyTransferEligibility,
		Reason:      "transfer blocked by policy",
		Conditions:  conditions,
		Remediation: remediation,
	}
}

// TransitionError reports a state change that is not reachable from the current state.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: invalid transition %s -> %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Code returns the API error code.
func (e *TransitionError) Code() string { return CodeInvalidTransition }

// SchemaError reports structured output that failed schema checks after the repair attempt.
// RawOutput is the last model output and is never discarded.
type SchemaError struct {
	RawOutput string
	Problems  []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 0 {
		return "structured output failed schema validation"
	}
	return "structured output failed schema validation: " + strings.Join(e.Problems, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrSchemaValidationFailed }

// Code returns the API error code.
func (e *SchemaError) Code() string { return CodeSchemaInvalid }
