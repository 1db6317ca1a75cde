// Package intake runs the anonymous public track: supportive chat turns,
// the structured pre-assessment capsule and consent collection.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"github.com/heartmarshall/dualtrack-backend/internal/service/structgen"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type caseRepo interface {
	Create(ctx context.Context, c domain.Case) (*domain.Case, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
}

type capsuleRepo interface {
	Create(ctx context.Context, c domain.IntakeCapsule) (*domain.IntakeCapsule, error)
	GetByID(ctx context.Context, capsuleID string) (*domain.IntakeCapsule, error)
	GetByCase(ctx context.Context, caseID uuid.UUID) (*domain.IntakeCapsule, error)
}

type consentRepo interface {
	Create(ctx context.Context, c domain.Consent) (*domain.Consent, error)
}

type safetyRepo interface {
	Create(ctx context.Context, u domain.SafetyUpgrade) (*domain.SafetyUpgrade, error)
}

type chatModel interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error)
}

type structuredModel interface {
	Generate(ctx context.Context, req structgen.Request) (*structgen.Result, error)
}

type riskAssessor interface {
	Assess(text string, severity *int) domain.RiskAssessment
}

type eventLedger interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
	RecordInferenceFailure(ctx context.Context, f ledger.InferenceFailure) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds the intake model and write bounds.
type Config struct {
	PublicModel        string
	LedgerWriteTimeout time.Duration
}

// Service provides public track operations.
type Service struct {
	cases      caseRepo
	capsules   capsuleRepo
	consents   consentRepo
	safety     safetyRepo
	chat       chatModel
	structured structuredModel
	risk       riskAssessor
	ledger     eventLedger
	tx         txManager
	cfg        Config
	log        *slog.Logger
}

// NewService creates a new intake Service.
func NewService(
	log *slog.Logger,
	cases caseRepo,
	capsules capsuleRepo,
	consents consentRepo,
	safety safetyRepo,
	chat chatModel,
	structured structuredModel,
	risk riskAssessor,
	ledger eventLedger,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.LedgerWriteTimeout <= 0 {
		cfg.LedgerWriteTimeout = 5 * time.Second
	}
	return &Service{
		cases:      cases,
		capsules:   capsules,
		consents:   consents,
		safety:     safety,
		chat:       chat,
		structured: structured,
		risk:       risk,
		ledger:     ledger,
		tx:         tx,
		cfg:        cfg,
		log:        log.With("service", "intake"),
	}
}

// runGoverned runs fn in a transaction that is not canceled with the caller,
// so a committed ledger write is never rolled back by a client going away.
func (s *Service) runGoverned(ctx context.Context, fn func(ctx context.Context) error) error {
	dctx, cancel := ctxutil.Detached(ctx, s.cfg.LedgerWriteTimeout)
	defer cancel()
	return s.tx.RunInTx(dctx, fn)
}

// escalate stores a safety upgrade and its ledger event. Call only inside a
// transaction and only when the assessment requires escalation.
func (s *Service) escalate(ctx context.Context, caseID uuid.UUID, a domain.RiskAssessment) (*domain.SafetyUpgrade, error) {
	upgrade, err := s.safety.Create(ctx, domain.SafetyUpgrade{
		CaseID:            caseID,
		TriggerReason:     "risk_level_" + a.Level.String(),
		Assessment:        a,
		RecommendedAction: a.RecommendedAction,
		Actor:             domain.RuleEngineActor.Label,
	})
	if err != nil {
		return nil, fmt.Errorf("create safety upgrade: %w", err)
	}

	if _, err := s.ledger.Append(ctx, domain.AuditEvent{
		Track:     domain.TrackGovernance,
		Type:      domain.EventSafetyUpgrade,
		Actor:     domain.RuleEngineActor,
		CaseID:    &caseID,
		RiskLevel: domain.Risk(a.Level),
		Payload:   domain.SafetyUpgradePayload{UpgradeID: upgrade.ID, Assessment: a},
	}); err != nil {
		return nil, err
	}
	return upgrade, nil
}

// recordFailure ledgers a failed model call. The returned error is non-nil only
// when the ledger itself failed.
func (s *Service) recordFailure(ctx context.Context, caseID *uuid.UUID, op string, started time.Time, cause error) error {
	err := s.ledger.RecordInferenceFailure(ctx, ledger.InferenceFailure{
		Model:     s.cfg.PublicModel,
		Track:     domain.TrackPublic,
		CaseID:    caseID,
		Operation: op,
		Err:       cause,
		Latency:   time.Since(started),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "ledger inference failure", slog.String("error", err.Error()))
		return fmt.Errorf("ledger inference failure: %w", err)
	}
	return nil
}
