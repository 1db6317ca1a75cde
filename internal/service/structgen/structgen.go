// Package structgen asks a chat model for JSON that must satisfy a fixed
// schema. Output that fails the schema gets exactly one repair re-prompt.
package structgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonschema"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

type generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error)
}

// objectFormat forces JSON mode without pinning the model to a strict grammar.
var objectFormat = json.RawMessage(`{"type":"object"}`)

const repairPrompt = "The JSON output was invalid (%s). Please provide a valid JSON object matching the required schema."

// Generator validates model output against a compiled schema.
type Generator struct {
	gen    generator
	schema *jsonschema.Schema
	log    *slog.Logger
}

// New compiles schemaJSON and returns a Generator backed by gen.
func New(log *slog.Logger, gen generator, schemaJSON string) (*Generator, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Generator{
		gen:    gen,
		schema: schema,
		log:    log.With("service", "structgen"),
	}, nil
}

// Request is one structured generation.
type Request struct {
	Model    string
	Messages []domain.ChatMessage
	Track    domain.Track
	CaseID   *uuid.UUID
	Fault    domain.FaultPolicy
}

// Result is the outcome of a structured generation. Raw always holds the last
// model output, including when Status is invalid.
type Result struct {
	Data           json.RawMessage
	Raw            string
	Status         domain.ValidationStatus
	RepairAttempts int
	Problems       []string
	Model          string
}

// Err returns a *domain.SchemaError for an invalid result and nil otherwise.
func (r *Result) Err() error {
	if r.Status.Usable() {
		return nil
	}
	return &domain.SchemaError{RawOutput: r.Raw, Problems: r.Problems}
}

// Generate runs the model, validates the output and re-prompts once on failure.
// A second failure is reported as an invalid Result, not as an error; errors are
// reserved for inference failures.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	messages := slices.Clone(req.Messages)

	out, err := g.call(ctx, req, messages)
	if err != nil {
		return nil, err
	}

	data, problems := g.check(out.Text)
	if len(problems) == 0 {
		return &Result{Data: data, Raw: out.Text, Status: domain.ValidationValid, Model: out.Model}, nil
	}

	g.log.WarnContext(ctx, "structured output failed validation, repairing",
		slog.String("model", out.Model),
		slog.Int("problems", len(problems)),
	)

	messages = append(messages,
		domain.ChatMessage{Role: domain.RoleAssistant, Content: out.Text},
		domain.ChatMessage{Role: domain.RoleUser, Content: fmt.Sprintf(repairPrompt, strings.Join(problems, "; "))},
	)

	out, err = g.call(ctx, req, messages)
	if err != nil {
		return nil, err
	}

	data, problems = g.check(out.Text)
	if len(problems) == 0 {
		return &Result{
			Data:           data,
			Raw:            out.Text,
			Status:         domain.ValidationRepaired,
			RepairAttempts: 1,
			Model:          out.Model,
		}, nil
	}

	g.log.WarnContext(ctx, "structured output invalid after repair",
		slog.String("model", out.Model),
		slog.Int("problems", len(problems)),
	)

	return &Result{
		Raw:            out.Text,
		Status:         domain.ValidationInvalid,
		RepairAttempts: 1,
		Problems:       problems,
		Model:          out.Model,
	}, nil
}

func (g *Generator) call(ctx context.Context, req Request, messages []domain.ChatMessage) (domain.Generation, error) {
	out, err := g.gen.Generate(ctx, domain.GenerationRequest{
		Model:    req.Model,
		Messages: messages,
		Format:   objectFormat,
		Track:    req.Track,
		CaseID:   req.CaseID,
		Fault:    req.Fault,
	})
	if err != nil {
		return domain.Generation{}, fmt.Errorf("structured generation: %w", err)
	}
	if out.Model == "" {
		out.Model = req.Model
	}
	return out, nil
}

// check extracts the JSON object from text and validates it. Problems are sorted.
func (g *Generator) check(text string) (json.RawMessage, []string) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if !json.Valid([]byte(raw)) {
		return nil, []string{"output is not valid JSON"}
	}

	result := g.schema.ValidateJSON([]byte(raw))
	if result.IsValid() {
		return json.RawMessage(raw), nil
	}

	problems := make([]string, 0, len(result.Errors))
	for key, e := range result.Errors {
		problems = append(problems, fmt.Sprintf("%v: %v", key, e))
	}
	if len(problems) == 0 {
		problems = append(problems, "output does not match schema")
	}
	sort.Strings(problems)
	return nil, problems
}

// extractJSON returns the span between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in output")
	}
	return s[start : end+1], nil
}
