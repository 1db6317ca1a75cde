package risk

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

type eventAppender interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
}

// SourceGovernanceAPI marks assessments requested through the governance endpoint.
const SourceGovernanceAPI = "governance_api"

// Service runs standalone assessments and ledgers each one.
type Service struct {
	engine *Engine
	ledger eventAppender
	log    *slog.Logger
}

// NewService creates a risk Service.
func NewService(log *slog.Logger, engine *Engine, ledger eventAppender) *Service {
	return &Service{
		engine: engine,
		ledger: ledger,
		log:    log.With("service", "risk"),
	}
}

// AssessInput is a standalone assessment request.
type AssessInput struct {
	Text          string
	SeverityScore *int
	CaseID        *uuid.UUID
	Source        string
}

// Validate checks all fields and collects all errors.
func (i AssessInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Text) == "" && i.SeverityScore == nil {
		errs = append(errs, domain.FieldError{Field: "text", Message: "text or severity_score required"})
	}
	if i.SeverityScore != nil && (*i.SeverityScore < 1 || *i.SeverityScore > 10) {
		errs = append(errs, domain.FieldError{Field: "severity_score", Message: "must be between 1 and 10"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Assess classifies the input and appends a risk_assessment event on the
// governance track. The assessment is returned only once it is ledgered.
func (s *Service) Assess(ctx context.Context, input AssessInput) (domain.RiskAssessment, error) {
	if err := input.Validate(); err != nil {
		return domain.RiskAssessment{}, err
	}

	source := input.Source
	if source == "" {
		source = SourceGovernanceAPI
	}

	assessment := s.engine.Assess(input.Text, input.SeverityScore)

	_, err := s.ledger.Append(ctx, domain.AuditEvent{
		Track:     domain.TrackGovernance,
		Type:      domain.EventRiskAssessment,
		Actor:     domain.RuleEngineActor,
		CaseID:    input.CaseID,
		RiskLevel: domain.Risk(assessment.Level),
		Payload: domain.RiskAssessmentPayload{
			Source:     source,
			InputChars: utf8.RuneCountInString(input.Text),
			Assessment: assessment,
		},
	})
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("ledger risk assessment: %w", err)
	}

	s.log.InfoContext(ctx, "risk assessed",
		slog.String("level", assessment.Level.String()),
		slog.Int("triggers", len(assessment.Triggers)),
		slog.String("source", source),
	)
	return assessment, nil
}
