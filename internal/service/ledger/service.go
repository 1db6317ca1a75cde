// Package ledger is the single write path to the append-only audit log.
// Every governed operation appends through Service; a failed append fails
// the operation.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type eventRepo interface {
	Append(ctx context.Context, event domain.AuditEvent, payload json.RawMessage) (domain.AuditEvent, error)
	GetByID(ctx context.Context, id int64) (*domain.AuditEvent, error)
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEvent, error)
	Count(ctx context.Context, filter domain.AuditFilter) (int, error)
	CountBy(ctx context.Context, dim domain.StatsDimension) (map[string]int, error)
	Actors(ctx context.Context) ([]domain.ActorSummary, error)
}

// DefaultWriteTimeout bounds detached appends when no timeout is configured.
const DefaultWriteTimeout = 5 * time.Second

// Service appends and queries audit events.
type Service struct {
	events       eventRepo
	writeTimeout time.Duration
	log          *slog.Logger
}

// NewService creates a ledger Service. writeTimeout bounds appends that must
// outlive the caller's context.
func NewService(log *slog.Logger, events eventRepo, writeTimeout time.Duration) *Service {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Service{
		events:       events,
		writeTimeout: writeTimeout,
		log:          log.With("service", "ledger"),
	}
}

// WriteTimeout returns the bound used for detached writes.
func (s *Service) WriteTimeout() time.Duration { return s.writeTimeout }

// Append validates and stores event. Any failure, including validation,
// is reported as ErrLedgerWriteFailed.
func (s *Service) Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if err := event.Validate(); err != nil {
		return domain.AuditEvent{}, fmt.Errorf("%w: %w", domain.ErrLedgerWriteFailed, err)
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("%w: marshal %s payload: %w", domain.ErrLedgerWriteFailed, event.Type, err)
	}

	digest, err := Digest(payload)
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("%w: digest %s payload: %w", domain.ErrLedgerWriteFailed, event.Type, err)
	}
	event.PayloadDigest = digest

	if reqID := ctxutil.RequestIDFromCtx(ctx); reqID != "" {
		event.RequestID = reqID
	}

	stored, err := s.events.Append(ctx, event, payload)
	if err != nil {
		s.log.ErrorContext(ctx, "ledger append failed",
			slog.String("event_type", event.Type.String()),
			slog.String("actor", event.Actor.String()),
			slog.String("error", err.Error()),
		)
		return domain.AuditEvent{}, fmt.Errorf("%w: %w", domain.ErrLedgerWriteFailed, err)
	}

	s.log.DebugContext(ctx, "ledger event appended",
		slog.Int64("event_id", stored.ID),
		slog.String("event_type", stored.Type.String()),
		slog.String("track", stored.Track.String()),
		slog.String("actor", stored.Actor.String()),
	)
	return stored, nil
}

// AppendDetached appends on a context that survives cancellation of ctx and is
// bounded by the write timeout. Used for records that must exist even when the
// caller has gone away: denials, inference failures, retrieval evidence.
func (s *Service) AppendDetached(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	dctx, cancel := ctxutil.Detached(ctx, s.writeTimeout)
	defer cancel()
	return s.Append(dctx, event)
}

// InferenceFailure describes a failed model call for the ledger.
type InferenceFailure struct {
	Model     string
	Track     domain.Track
	CaseID    *uuid.UUID
	Operation string
	Err       error
	Latency   time.Duration
}

// RecordInferenceFailure ledgers a failed or timed out inference call with the
// model as actor.
func (s *Service) RecordInferenceFailure(ctx context.Context, f InferenceFailure) error {
	code, msg := domain.InferenceCodeError, "unknown failure"
	var ie *domain.InferenceError
	if errors.As(f.Err, &ie) {
		code = ie.Code
	}
	if f.Err != nil {
		msg = f.Err.Error()
	}

	track := f.Track
	if !track.IsValid() {
		track = domain.TrackGovernance
	}

	_, err := s.AppendDetached(ctx, domain.AuditEvent{
		Track:  track,
		Type:   domain.EventInferenceFailure,
		Actor:  domain.ModelActor(f.Model),
		CaseID: f.CaseID,
		Payload: domain.InferenceFailurePayload{
			Operation: f.Operation,
			ErrorCode: code,
			Message:   msg,
			LatencyMS: f.Latency.Milliseconds(),
		},
	})
	return err
}

// Digest returns the sha256 hex digest of the RFC 8785 canonical form of payload.
func Digest(payload []byte) (string, error) {
	canonical, err := jcs.Transform(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
