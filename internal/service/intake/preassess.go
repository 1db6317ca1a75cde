package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/structgen"
)

const (
	preAssessSystemPrompt = "Generate structured pre-assessment. Respond with a JSON object with the fields " +
		"chief_complaint, symptom_duration, severity_score (integer 1-10), risk_indicators (array of strings) " +
		"and self_description."
	preAssessUserPrompt = "Based on this conversation: %s\n\nCreate a structured pre-assessment capsule."
)

// PreAssess generates and stores the single intake capsule of a case. The
// self-description is the caller's text verbatim; an invalid generation is
// still stored, with its raw output, so the transfer guard can see it.
func (s *Service) PreAssess(ctx context.Context, input PreAssessInput) (*PreAssessResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.cases.GetByID(ctx, input.CaseID); err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}

	if _, err := s.capsules.GetByCase(ctx, input.CaseID); err == nil {
		return nil, fmt.Errorf("capsule for case %s: %w", input.CaseID, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get capsule: %w", err)
	}

	started := time.Now()
	res, err := s.structured.Generate(ctx, structgen.Request{
		Model: s.cfg.PublicModel,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: preAssessSystemPrompt},
			{Role: domain.RoleUser, Content: fmt.Sprintf(preAssessUserPrompt, input.ConversationSummary)},
		},
		Track:  domain.TrackPublic,
		CaseID: &input.CaseID,
		Fault:  input.Fault,
	})
	if err != nil {
		if ledgerErr := s.recordFailure(ctx, &input.CaseID, domain.OpChat, started, err); ledgerErr != nil {
			return nil, ledgerErr
		}
		return nil, err
	}

	capsule := domain.IntakeCapsule{
		ID:               domain.NewCapsuleID(),
		CaseID:           input.CaseID,
		SelfDescription:  input.ConversationSummary,
		StructuredData:   res.Data,
		RawOutput:        res.Raw,
		ValidationStatus: res.Status,
		RepairAttempts:   res.RepairAttempts,
		Problems:         res.Problems,
		Model:            res.Model,
	}
	if len(capsule.StructuredData) == 0 {
		capsule.StructuredData = json.RawMessage(`{}`)
	}
	fields := capsule.Fields()
	capsule.ModelSummary = modelSummary(fields)

	assessment := s.risk.Assess(input.ConversationSummary, fields.SeverityScore)

	out := &PreAssessResult{Assessment: assessment}
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		stored, err := s.capsules.Create(txCtx, capsule)
		if err != nil {
			return fmt.Errorf("create capsule: %w", err)
		}
		out.Capsule = stored

		if _, err := s.ledger.Append(txCtx, domain.AuditEvent{
			Track:     domain.TrackPublic,
			Type:      domain.EventGeneration,
			Actor:     domain.ModelActor(stored.Model),
			CaseID:    &stored.CaseID,
			RiskLevel: domain.Risk(assessment.Level),
			Payload: domain.GenerationPayload{
				Artifact:         "intake_capsule",
				ArtifactID:       stored.ID,
				ValidationStatus: stored.ValidationStatus,
				RepairAttempts:   stored.RepairAttempts,
			},
		}); err != nil {
			return err
		}

		if assessment.RequiresEscalation() {
			upgrade, err := s.escalate(txCtx, stored.CaseID, assessment)
			if err != nil {
				return err
			}
			out.SafetyUpgrade = upgrade
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "intake capsule created",
		slog.String("case_id", input.CaseID.String()),
		slog.String("capsule_id", out.Capsule.ID),
		slog.String("validation_status", out.Capsule.ValidationStatus.String()),
		slog.Int("repair_attempts", out.Capsule.RepairAttempts),
	)
	return out, nil
}

func modelSummary(f domain.CapsuleFields) string {
	complaint, severity := "N/A", "N/A"
	if f.ChiefComplaint != "" {
		complaint = f.ChiefComplaint
	}
	if f.SeverityScore != nil {
		severity = strconv.Itoa(*f.SeverityScore)
	}
	return fmt.Sprintf("Model-generated summary: %s (Severity: %s/10)", complaint, severity)
}
