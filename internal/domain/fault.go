package domain

import (
	"fmt"
	"strings"
)

// FaultPolicy forces failure modes for a single call. It is passed explicitly
// with each request and never stored globally.
type FaultPolicy struct {
	FailEmbedding    bool
	InferenceTimeout bool
	MalformedOutput  bool
}

// Any reports whether any fault is enabled.
func (p FaultPolicy) Any() bool {
	return p.FailEmbedding || p.InferenceTimeout || p.MalformedOutput
}

// ParseFaultPolicy parses a comma-separated list of fault names
// (embed_failure, inference_timeout, malformed_output).
func ParseFaultPolicy(raw string) (FaultPolicy, error) {
	var p FaultPolicy
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "":
		case "embed_failure":
			p.FailEmbedding = true
		case "inference_timeout":
			p.InferenceTimeout = true
		case "malformed_output":
			p.MalformedOutput = true
		default:
			return FaultPolicy{}, fmt.Errorf("unknown fault %q", part)
		}
	}
	return p, nil
}
