// Package cases implements the case repository using PostgreSQL.
// Status changes are compare-and-set on the stored status.
package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

const table = "cases"

var columns = []string{"id", "case_number", "origin_track", "status", "created_at", "updated_at"}

// Repo provides case persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new case repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type caseRow struct {
	ID          uuid.UUID `db:"id"`
	Number      string    `db:"case_number"`
	OriginTrack string    `db:"origin_track"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r caseRow) toDomain() domain.Case {
	return domain.Case{
		ID:          r.ID,
		Number:      r.Number,
		OriginTrack: domain.Track(r.OriginTrack),
		Status:      domain.CaseStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type queueRow struct {
	caseRow
	HasCapsule bool `db:"has_capsule"`
}

// Create inserts a case. A zero ID is replaced with a fresh UUID.
func (r *Repo) Create(ctx context.Context, c domain.Case) (*domain.Case, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "case_number", "origin_track", "status").
		Values(c.ID, c.Number, string(c.OriginTrack), string(c.Status)).
		Suffix("RETURNING " + sqlColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert case: %w", err)
	}

	var row caseRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "case", c.ID)
	}

	out := row.toDomain()
	return &out, nil
}

// GetByID returns a case by primary key.
// Returns domain.ErrNotFound if the case does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select case: %w", err)
	}

	var row caseRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "case", id)
	}

	out := row.toDomain()
	return &out, nil
}

// UpdateStatus moves a case from one status to another.
// Returns domain.ErrConflict when the stored status is no longer from,
// and domain.ErrNotFound when the case does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.CaseStatus) (*domain.Case, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder.
		Update(table).
		Set("status", string(to)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "status": string(from)}).
		Suffix("RETURNING " + sqlColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update case status: %w", err)
	}

	var rows []caseRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "case", id)
	}
	if len(rows) == 1 {
		out := rows[0].toDomain()
		return &out, nil
	}

	// Nothing updated: either the case is gone or another writer moved it first.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("case %s: status is no longer %s: %w", id, from, domain.ErrConflict)
}

// ListQueue returns cases with one of statuses, newest first, each flagged
// with whether an intake capsule exists.
func (r *Repo) ListQueue(ctx context.Context, statuses []domain.CaseStatus, limit int) ([]domain.QueueItem, error) {
	wanted := make([]string, len(statuses))
	for i, s := range statuses {
		wanted[i] = string(s)
	}

	b := postgres.Builder.
		Select(prefixed("c")...).
		Column("EXISTS (SELECT 1 FROM intake_capsules ic WHERE ic.case_id = c.id) AS has_capsule").
		From(table + " c").
		OrderBy("c.created_at DESC", "c.id")
	if len(wanted) > 0 {
		b = b.Where(sq.Eq{"c.status": wanted})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build queue query: %w", err)
	}

	var rows []queueRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}

	items := make([]domain.QueueItem, len(rows))
	for i, row := range rows {
		items[i] = domain.QueueItem{Case: row.toDomain(), HasCapsule: row.HasCapsule}
	}
	return items, nil
}

func sqlColumns() string { return strings.Join(columns, ", ") }

func prefixed(alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
