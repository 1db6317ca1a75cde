// Package consents implements the consent repository using PostgreSQL.
package consents

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

const table = "consents"

var columns = []string{"id", "case_id", "capsule_id", "scope", "confirmed", "actor_model", "notification", "created_at"}

// Repo provides consent persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new consent repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type consentRow struct {
	ID           uuid.UUID `db:"id"`
	CaseID       uuid.UUID `db:"case_id"`
	CapsuleID    string    `db:"capsule_id"`
	Scope        []string  `db:"scope"`
	Confirmed    bool      `db:"confirmed"`
	ActorModel   string    `db:"actor_model"`
	Notification string    `db:"notification"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r consentRow) toDomain() domain.Consent {
	scope := r.Scope
	if scope == nil {
		scope = []string{}
	}
	return domain.Consent{
		ID:           r.ID,
		CaseID:       r.CaseID,
		CapsuleID:    r.CapsuleID,
		Scope:        scope,
		Confirmed:    r.Confirmed,
		ActorModel:   r.ActorModel,
		Notification: r.Notification,
		CreatedAt:    r.CreatedAt,
	}
}

// Create inserts a consent record. A zero ID is replaced with a fresh UUID.
func (r *Repo) Create(ctx context.Context, c domain.Consent) (*domain.Consent, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	scope := c.Scope
	if scope == nil {
		scope = []string{}
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "case_id", "capsule_id", "scope", "confirmed", "actor_model", "notification").
		Values(c.ID, c.CaseID, c.CapsuleID, scope, c.Confirmed, c.ActorModel, c.Notification).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert consent: %w", err)
	}

	var row consentRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "consent", c.ID)
	}
	out := row.toDomain()
	return &out, nil
}

// LatestByCase returns the most recent consent of a case.
// Returns domain.ErrNotFound when none was recorded.
func (r *Repo) LatestByCase(ctx context.Context, caseID uuid.UUID) (*domain.Consent, error) {
	query, args, err := r.byCase(caseID).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest consent: %w", err)
	}

	var row consentRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "consent for case", caseID)
	}
	out := row.toDomain()
	return &out, nil
}

// ListByCase returns all consents of a case, newest first.
func (r *Repo) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Consent, error) {
	query, args, err := r.byCase(caseID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list consents: %w", err)
	}

	var rows []consentRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}

	out := make([]domain.Consent, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repo) byCase(caseID uuid.UUID) sq.SelectBuilder {
	return postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"case_id": caseID}).
		OrderBy("created_at DESC", "id DESC")
}
