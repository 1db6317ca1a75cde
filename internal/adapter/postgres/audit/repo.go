// Package audit implements the append-only audit ledger using PostgreSQL.
// The table rejects UPDATE, DELETE and TRUNCATE at the database level;
// this package only ever inserts and reads.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

const table = "audit_events"

var columns = []string{
	"id", "track", "event_type", "actor", "actor_category", "case_id", "draft_id",
	"risk_level", "payload", "payload_digest", "request_id", "created_at",
}

// dimensionColumns whitelists the columns events may be grouped by.
var dimensionColumns = map[domain.StatsDimension]string{
	domain.DimTrack:         "track",
	domain.DimActor:         "actor",
	domain.DimActorCategory: "actor_category",
	domain.DimRiskLevel:     "risk_level",
	domain.DimEventType:     "event_type",
}

// Repo provides ledger persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type eventRow struct {
	ID            int64      `db:"id"`
	Track         string     `db:"track"`
	EventType     string     `db:"event_type"`
	Actor         string     `db:"actor"`
	ActorCategory string     `db:"actor_category"`
	CaseID        *uuid.UUID `db:"case_id"`
	DraftID       *string    `db:"draft_id"`
	RiskLevel     *string    `db:"risk_level"`
	Payload       []byte     `db:"payload"`
	PayloadDigest string     `db:"payload_digest"`
	RequestID     string     `db:"request_id"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (r eventRow) toDomain() (domain.AuditEvent, error) {
	e := domain.AuditEvent{
		ID:            r.ID,
		Track:         domain.Track(r.Track),
		Type:          domain.EventType(r.EventType),
		Actor:         domain.Actor{Category: domain.ActorCategory(r.ActorCategory), Label: r.Actor},
		CaseID:        r.CaseID,
		DraftID:       r.DraftID,
		PayloadDigest: r.PayloadDigest,
		RequestID:     r.RequestID,
		CreatedAt:     r.CreatedAt,
	}
	if r.RiskLevel != nil {
		e.RiskLevel = domain.Risk(domain.RiskLevel(*r.RiskLevel))
	}
	p, err := domain.DecodePayload(e.Type, r.Payload)
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("audit_event %d: %w", r.ID, err)
	}
	e.Payload = p
	return e, nil
}

// Append inserts event with its encoded payload and returns it with the
// assigned id and timestamp.
func (r *Repo) Append(ctx context.Context, event domain.AuditEvent, payload json.RawMessage) (domain.AuditEvent, error) {
	var risk *string
	if event.RiskLevel != nil {
		s := event.RiskLevel.String()
		risk = &s
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("track", "event_type", "actor", "actor_category", "case_id", "draft_id",
			"risk_level", "payload", "payload_digest", "request_id").
		Values(event.Track.String(), event.Type.String(), event.Actor.Label, event.Actor.Category.String(),
			event.CaseID, event.DraftID, risk, []byte(payload), event.PayloadDigest, event.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("build insert audit_event: %w", err)
	}

	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		return domain.AuditEvent{}, postgres.MapError(err, "audit_event", event.Type)
	}
	return event, nil
}

// GetByID returns a single event.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.AuditEvent, error) {
	query, args, err := postgres.Builder.Select(columns...).From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select audit_event: %w", err)
	}

	var row eventRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "audit_event", id)
	}
	e, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns events matching f, newest first unless f.Ascending. With
// f.AfterID the order is by id alone.
func (r *Repo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEvent, error) {
	b := applyFilter(postgres.Builder.Select(columns...).From(table), f)
	switch {
	case f.AfterID != nil:
		b = b.OrderBy("id ASC")
	case f.Ascending:
		b = b.OrderBy("created_at ASC", "id ASC")
	default:
		b = b.OrderBy("created_at DESC", "id DESC")
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit_events: %w", err)
	}

	var rows []eventRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit_events: %w", err)
	}

	events := make([]domain.AuditEvent, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Count returns the number of events matching f, ignoring limit and offset.
func (r *Repo) Count(ctx context.Context, f domain.AuditFilter) (int, error) {
	query, args, err := applyFilter(postgres.Builder.Select("count(*)").From(table), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count audit_events: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit_events: %w", err)
	}
	return n, nil
}

type bucket struct {
	Key string `db:"key"`
	N   int    `db:"n"`
}

// CountBy groups all events by dim. Events without a value for dim are omitted.
func (r *Repo) CountBy(ctx context.Context, dim domain.StatsDimension) (map[string]int, error) {
	col, ok := dimensionColumns[dim]
	if !ok {
		return nil, domain.NewValidationError("dimension", fmt.Sprintf("unknown dimension %q", dim))
	}

	query, args, err := postgres.Builder.
		Select(col+" AS key", "count(*)::int AS n").
		From(table).
		Where(col + " IS NOT NULL").
		GroupBy(col).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count by %s: %w", dim, err)
	}

	var rows []bucket
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count audit_events by %s: %w", dim, err)
	}

	out := make(map[string]int, len(rows))
	for _, b := range rows {
		out[b.Key] = b.N
	}
	return out, nil
}

// Actors lists every distinct actor that has produced an event, most recent first.
func (r *Repo) Actors(ctx context.Context) ([]domain.ActorSummary, error) {
	query, args, err := postgres.Builder.
		Select("actor", "actor_category", "events", "last_seen").
		From("audit_actors").
		OrderBy("last_seen DESC", "actor").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list actors: %w", err)
	}

	var out []domain.ActorSummary
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	if out == nil {
		out = []domain.ActorSummary{}
	}
	return out, nil
}

func applyFilter(b sq.SelectBuilder, f domain.AuditFilter) sq.SelectBuilder {
	if f.Track != nil {
		b = b.Where(sq.Eq{"track": f.Track.String()})
	}
	if f.EventType != nil {
		b = b.Where(sq.Eq{"event_type": f.EventType.String()})
	}
	if f.Actor != nil {
		b = b.Where(sq.Eq{"actor": *f.Actor})
	}
	if f.ActorCategory != nil {
		b = b.Where(sq.Eq{"actor_category": f.ActorCategory.String()})
	}
	if f.RiskLevel != nil {
		b = b.Where(sq.Eq{"risk_level": f.RiskLevel.String()})
	}
	if f.CaseID != nil {
		b = b.Where(sq.Eq{"case_id": *f.CaseID})
	}
	if f.DraftID != nil {
		b = b.Where(sq.Eq{"draft_id": *f.DraftID})
	}
	if f.Since != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.Since})
	}
	if f.Until != nil {
		b = b.Where(sq.Lt{"created_at": *f.Until})
	}
	if f.AfterID != nil {
		b = b.Where(sq.Gt{"id": *f.AfterID})
	}
	return b
}
