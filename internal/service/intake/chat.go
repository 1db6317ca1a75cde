package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

const chatSystemPrompt = "You are a compassionate healthcare support assistant. " +
	"Listen empathetically and ask clarifying questions. Keep responses brief and supportive."

// Chat answers one message and runs the rule engine on it. The safety path
// does not depend on the model: when the reply fails, the case and any safety
// upgrade are still stored and a *ReplyUnavailableError carries the assessment.
func (s *Service) Chat(ctx context.Context, input ChatInput) (*ChatResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var existing *domain.Case
	if input.CaseID != nil {
		c, err := s.cases.GetByID(ctx, *input.CaseID)
		if err != nil {
			return nil, fmt.Errorf("get case: %w", err)
		}
		existing = c
	}

	assessment := s.risk.Assess(input.Message, nil)

	started := time.Now()
	gen, genErr := s.chat.Generate(ctx, domain.GenerationRequest{
		Model: s.cfg.PublicModel,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: chatSystemPrompt},
			{Role: domain.RoleUser, Content: input.Message},
		},
		Track:  domain.TrackPublic,
		CaseID: input.CaseID,
		Fault:  input.Fault,
	})

	result := &ChatResult{Case: existing, Assessment: assessment, Model: s.cfg.PublicModel}
	if genErr == nil {
		result.Reply = gen.Text
		if gen.Model != "" {
			result.Model = gen.Model
		}
	}

	err := s.runGoverned(ctx, func(txCtx context.Context) error {
		if result.Case == nil {
			c, err := s.cases.Create(txCtx, domain.Case{
				Number:      domain.NewCaseNumber(domain.TrackPublic, time.Now()),
				OriginTrack: domain.TrackPublic,
				Status:      domain.CaseActive,
			})
			if err != nil {
				return fmt.Errorf("create case: %w", err)
			}
			result.Case = c
		}

		if genErr == nil {
			if _, err := s.ledger.Append(txCtx, domain.AuditEvent{
				Track:     domain.TrackPublic,
				Type:      domain.EventInput,
				Actor:     domain.ModelActor(result.Model),
				CaseID:    &result.Case.ID,
				RiskLevel: domain.Risk(assessment.Level),
				Payload:   domain.InputPayload{Message: input.Message, Reply: result.Reply},
			}); err != nil {
				return err
			}
		}

		if assessment.RequiresEscalation() {
			upgrade, err := s.escalate(txCtx, result.Case.ID, assessment)
			if err != nil {
				return err
			}
			result.SafetyUpgrade = upgrade
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.SafetyUpgrade != nil {
		s.log.WarnContext(ctx, "safety upgrade triggered",
			slog.String("case_id", result.Case.ID.String()),
			slog.String("risk_level", assessment.Level.String()),
			slog.Int("triggers", len(assessment.Triggers)),
		)
	}

	if genErr != nil {
		if err := s.recordFailure(ctx, &result.Case.ID, domain.OpChat, started, genErr); err != nil {
			return nil, err
		}
		s.log.WarnContext(ctx, "chat reply unavailable",
			slog.String("case_id", result.Case.ID.String()),
			slog.String("error", genErr.Error()),
		)
		if !errors.Is(genErr, domain.ErrInferenceUnavailable) {
			genErr = fmt.Errorf("%w: %w", domain.ErrInferenceUnavailable, genErr)
		}
		return nil, &ReplyUnavailableError{Result: result, Err: genErr}
	}

	s.log.InfoContext(ctx, "chat turn recorded",
		slog.String("case_id", result.Case.ID.String()),
		slog.String("risk_level", assessment.Level.String()),
		slog.Int("message_chars", len([]rune(input.Message))),
	)
	return result, nil
}
