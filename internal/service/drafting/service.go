// Package drafting runs the reviewer track: evidence-backed draft generation,
// edits, citation-gated sign-off and write-back.
package drafting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"github.com/heartmarshall/dualtrack-backend/internal/service/retrieval"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type caseRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
}

type capsuleRepo interface {
	GetByCase(ctx context.Context, caseID uuid.UUID) (*domain.IntakeCapsule, error)
}

type draftRepo interface {
	Create(ctx context.Context, d domain.Draft) (*domain.Draft, error)
	GetByID(ctx context.Context, draftID string) (*domain.Draft, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error)
	Transition(ctx context.Context, t domain.DraftTransition) (*domain.Draft, error)
}

type retriever interface {
	Query(ctx context.Context, q retrieval.Query) ([]domain.EvidenceRef, error)
	DefaultTopK() int
	EmbedModel() string
}

type chatModel interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error)
}

type eventLedger interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
	RecordInferenceFailure(ctx context.Context, f ledger.InferenceFailure) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds the reviewer model and write bounds.
type Config struct {
	ReviewerModel      string
	LedgerWriteTimeout time.Duration
}

// Service provides reviewer track operations.
type Service struct {
	cases     caseRepo
	capsules  capsuleRepo
	drafts    draftRepo
	retrieval retriever
	chat      chatModel
	ledger    eventLedger
	tx        txManager
	markdown  goldmark.Markdown
	locks     *draftLocks
	cfg       Config
	log       *slog.Logger
}

// NewService creates a new drafting Service.
func NewService(
	log *slog.Logger,
	cases caseRepo,
	capsules capsuleRepo,
	drafts draftRepo,
	retrieval retriever,
	chat chatModel,
	ledger eventLedger,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.LedgerWriteTimeout <= 0 {
		cfg.LedgerWriteTimeout = 5 * time.Second
	}
	return &Service{
		cases:     cases,
		capsules:  capsules,
		drafts:    drafts,
		retrieval: retrieval,
		chat:      chat,
		ledger:    ledger,
		tx:        tx,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
		locks:     newDraftLocks(),
		cfg:       cfg,
		log:       log.With("service", "drafting"),
	}
}

func (s *Service) runGoverned(ctx context.Context, fn func(ctx context.Context) error) error {
	dctx, cancel := ctxutil.Detached(ctx, s.cfg.LedgerWriteTimeout)
	defer cancel()
	return s.tx.RunInTx(dctx, fn)
}

// recordTrigger ledgers a blocked draft transition on the governance track.
func (s *Service) recordTrigger(ctx context.Context, d *domain.Draft, p domain.PolicyTriggerPayload) error {
	err := s.runGoverned(ctx, func(txCtx context.Context) error {
		_, err := s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackGovernance,
			Type:    domain.EventPolicyTrigger,
			Actor:   domain.PolicyEngineActor,
			CaseID:  &d.CaseID,
			DraftID: &d.ID,
			Payload: p,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("ledger policy trigger: %w", err)
	}
	s.log.WarnContext(ctx, "draft transition blocked",
		slog.String("draft_id", d.ID),
		slog.String("policy", p.Policy),
	)
	return nil
}

// rejectTransition ledgers a lifecycle violation and returns the
// TransitionError the caller should see.
func (s *Service) rejectTransition(ctx context.Context, d *domain.Draft, to domain.DraftStatus) error {
	terr := &domain.TransitionError{Entity: "draft", From: d.Status.String(), To: to.String()}
	if err := s.recordTrigger(ctx, d, domain.PolicyTriggerPayload{
		Policy:     domain.PolicyWorkflowStateCheck,
		Allowed:    false,
		Reason:     terr.Error(),
		Conditions: []string{fmt.Sprintf("draft status is %s", d.Status)},
		Context:    map[string]any{"from": d.Status, "to": to},
	}); err != nil {
		return err
	}
	return terr
}

// lockKind names the operation holding a draft.
type lockKind string

const (
	lockSign lockKind = "sign"
	lockEdit lockKind = "edit"
)

// draftLocks serializes mutations of one draft within this process. The
// status compare-and-set in the store covers other processes.
type draftLocks struct {
	mu   sync.Mutex
	held map[string]lockKind
}

func newDraftLocks() *draftLocks {
	return &draftLocks{held: make(map[string]lockKind)}
}

// tryLock takes the draft for kind. When the draft is busy it returns the
// kind of the current holder and false.
func (l *draftLocks) tryLock(draftID string, kind lockKind) (lockKind, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if holder, ok := l.held[draftID]; ok {
		return holder, false
	}
	l.held[draftID] = kind
	return kind, true
}

func (l *draftLocks) unlock(draftID string) {
	l.mu.Lock()
	delete(l.held, draftID)
	l.mu.Unlock()
}

// acquire takes the draft lock for an attempt to move the draft to status to.
// A busy draft is ledgered as a blocked transition and mapped to the error
// the caller should see.
func (s *Service) acquire(ctx context.Context, draftID string, kind lockKind, to domain.DraftStatus) error {
	holder, ok := s.locks.tryLock(draftID, kind)
	if ok {
		return nil
	}
	busy := fmt.Errorf("draft %s is being edited: %w", draftID, domain.ErrConflict)
	if holder == lockSign {
		busy = fmt.Errorf("draft %s: %w", draftID, domain.ErrSignInProgress)
	}

	d, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return fmt.Errorf("get draft: %w", err)
	}
	if err := s.recordTrigger(ctx, d, domain.PolicyTriggerPayload{
		Policy:     domain.PolicyWorkflowStateCheck,
		Allowed:    false,
		Reason:     busy.Error(),
		Conditions: []string{fmt.Sprintf("draft is held by %s", holder)},
		Context:    map[string]any{"from": d.Status, "to": to, "attempt": kind},
	}); err != nil {
		return err
	}
	return busy
}
