package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a prompt.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GenerationRequest is a call to the inference service.
// Format, when set, constrains the output to JSON (a schema or {"type":"object"}).
type GenerationRequest struct {
	Model    string
	Messages []ChatMessage
	Format   json.RawMessage
	Track    Track
	CaseID   *uuid.UUID
	Fault    FaultPolicy
}

// Generation is the text returned by the inference service.
type Generation struct {
	Text  string
	Model string
}

// Inference operations recorded in llm_runs.
const (
	OpChat     = "chat"
	OpGenerate = "generate"
	OpEmbed    = "embed"
)

// Inference failure codes.
const (
	InferenceCodeTimeout = "TIMEOUT"
	InferenceCodeError   = "ERROR"
	InferenceCodeDecode  = "DECODE"
)

// InferenceCodeHTTP returns the failure code for a non-2xx upstream status.
func InferenceCodeHTTP(status int) string { return fmt.Sprintf("HTTP_%d", status) }

// InferenceError describes a failed inference call. It matches both
// ErrInferenceUnavailable and the underlying cause.
type InferenceError struct {
	Model     string
	Operation string
	Code      string
	Err       error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s (%s): %s: %v", e.Operation, e.Model, e.Code, e.Err)
}

func (e *InferenceError) Unwrap() []error { return []error{ErrInferenceUnavailable, e.Err} }

// LLMRun is one recorded inference call.
type LLMRun struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Model        string     `json:"model" db:"model"`
	Track        string     `json:"track" db:"track"`
	Operation    string     `json:"operation" db:"operation"`
	CaseID       *uuid.UUID `json:"case_id,omitempty" db:"case_id"`
	LatencyMS    int64      `json:"latency_ms" db:"latency_ms"`
	LoadMS       *int64     `json:"load_ms,omitempty" db:"load_ms"`
	PromptTokens *int       `json:"prompt_tokens,omitempty" db:"prompt_tokens"`
	EvalTokens   *int       `json:"eval_tokens,omitempty" db:"eval_tokens"`
	TokensPerSec *float64   `json:"tokens_per_sec,omitempty" db:"tokens_per_sec"`
	Success      bool       `json:"success" db:"success"`
	ErrorCode    *string    `json:"error_code,omitempty" db:"error_code"`
	Retries      int        `json:"retries" db:"retries"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ModelPerf aggregates runs of one model.
type ModelPerf struct {
	Model           string  `json:"model" db:"model"`
	Runs            int     `json:"runs" db:"runs"`
	SuccessRate     float64 `json:"success_rate" db:"success_rate"`
	AvgLatencyMS    float64 `json:"avg_latency_ms" db:"avg_latency_ms"`
	P95LatencyMS    float64 `json:"p95_latency_ms" db:"p95_latency_ms"`
	AvgTokensPerSec float64 `json:"avg_tokens_per_sec" db:"avg_tokens_per_sec"`
}

// PerfSummary is the inference monitor roll-up.
type PerfSummary struct {
	Runs            int            `json:"runs"`
	SuccessRate     float64        `json:"success_rate"`
	AvgLatencyMS    float64        `json:"avg_latency_ms"`
	P95LatencyMS    float64        `json:"p95_latency_ms"`
	AvgTokensPerSec float64        `json:"avg_tokens_per_sec"`
	ByModel         []ModelPerf    `json:"by_model"`
	ErrorCodes      map[string]int `json:"error_codes"`
	Since           *time.Time     `json:"since,omitempty"`
}
