// Package casework moves cases between tracks and through their lifecycle.
// Every transition attempt, allowed or blocked, is ledgered before it returns.
package casework

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type caseRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.CaseStatus) (*domain.Case, error)
	ListQueue(ctx context.Context, statuses []domain.CaseStatus, limit int) ([]domain.QueueItem, error)
}

type capsuleRepo interface {
	GetByID(ctx context.Context, capsuleID string) (*domain.IntakeCapsule, error)
	GetByCase(ctx context.Context, caseID uuid.UUID) (*domain.IntakeCapsule, error)
}

type consentRepo interface {
	LatestByCase(ctx context.Context, caseID uuid.UUID) (*domain.Consent, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Consent, error)
}

type safetyRepo interface {
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.SafetyUpgrade, error)
}

type draftRepo interface {
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error)
}

type eventAppender interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config controls the transfer guard.
type Config struct {
	RequireValidCapsule bool
	LedgerWriteTimeout  time.Duration
	QueueLimit          int
}

// DefaultQueueLimit bounds the reviewer queue when no limit is configured.
const DefaultQueueLimit = 200

// Service provides case lifecycle operations.
type Service struct {
	cases    caseRepo
	capsules capsuleRepo
	consents consentRepo
	safety   safetyRepo
	drafts   draftRepo
	ledger   eventAppender
	tx       txManager
	cfg      Config
	log      *slog.Logger
}

// NewService creates a new casework Service.
func NewService(
	log *slog.Logger,
	cases caseRepo,
	capsules capsuleRepo,
	consents consentRepo,
	safety safetyRepo,
	drafts draftRepo,
	ledger eventAppender,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.LedgerWriteTimeout <= 0 {
		cfg.LedgerWriteTimeout = 5 * time.Second
	}
	if cfg.QueueLimit <= 0 {
		cfg.QueueLimit = DefaultQueueLimit
	}
	return &Service{
		cases:    cases,
		capsules: capsules,
		consents: consents,
		safety:   safety,
		drafts:   drafts,
		ledger:   ledger,
		tx:       tx,
		cfg:      cfg,
		log:      log.With("service", "casework"),
	}
}

func (s *Service) runGoverned(ctx context.Context, fn func(ctx context.Context) error) error {
	dctx, cancel := ctxutil.Detached(ctx, s.cfg.LedgerWriteTimeout)
	defer cancel()
	return s.tx.RunInTx(dctx, fn)
}

// recordBlocked ledgers a denied transition on the governance track. The
// returned error is the ledger failure, if any; the caller returns the denial.
func (s *Service) recordBlocked(ctx context.Context, caseID uuid.UUID, p domain.PolicyTriggerPayload) error {
	err := s.runGoverned(ctx, func(txCtx context.Context) error {
		_, err := s.ledger.Append(txCtx, domain.AuditEvent{
			Track:     domain.TrackGovernance,
			Type:      domain.EventPolicyTrigger,
			Actor:     domain.PolicyEngineActor,
			CaseID:    &caseID,
			RiskLevel: domain.Risk(domain.RiskHigh),
			Payload:   p,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("ledger policy trigger: %w", err)
	}
	s.log.WarnContext(ctx, "case transition blocked",
		slog.String("case_id", caseID.String()),
		slog.String("policy", p.Policy),
		slog.Int("conditions", len(p.Conditions)),
	)
	return nil
}

// recordInvalidTransition ledgers a lifecycle violation and returns the
// TransitionError the caller should see.
func (s *Service) recordInvalidTransition(ctx context.Context, caseID uuid.UUID, from, to domain.CaseStatus) error {
	terr := &domain.TransitionError{Entity: "case", From: from.String(), To: to.String()}
	if err := s.recordBlocked(ctx, caseID, domain.PolicyTriggerPayload{
		Policy:      domain.PolicyWorkflowStateCheck,
		Allowed:     false,
		Reason:      terr.Error(),
		Conditions:  []string{fmt.Sprintf("case status is %s", from)},
		Remediation: nextStepHint(from),
		Context:     map[string]any{"from": from, "to": to},
	}); err != nil {
		return err
	}
	return terr
}

func nextStepHint(from domain.CaseStatus) string {
	switch from {
	case domain.CaseActive:
		return "transfer the case first"
	case domain.CaseTransferred:
		return "complete the case first"
	case domain.CaseCompleted:
		return "the case can only be archived"
	}
	return "the case is archived and cannot change"
}
