// Package safety implements the safety upgrade repository using PostgreSQL.
package safety

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

const table = "safety_upgrades"

var columns = []string{"id", "case_id", "trigger_reason", "assessment", "recommended_action", "actor", "created_at"}

// Repo provides safety upgrade persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new safety upgrade repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type upgradeRow struct {
	ID                uuid.UUID `db:"id"`
	CaseID            uuid.UUID `db:"case_id"`
	TriggerReason     string    `db:"trigger_reason"`
	Assessment        []byte    `db:"assessment"`
	RecommendedAction string    `db:"recommended_action"`
	Actor             string    `db:"actor"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r upgradeRow) toDomain() (domain.SafetyUpgrade, error) {
	u := domain.SafetyUpgrade{
		ID:                r.ID,
		CaseID:            r.CaseID,
		TriggerReason:     r.TriggerReason,
		RecommendedAction: r.RecommendedAction,
		Actor:             r.Actor,
		CreatedAt:         r.CreatedAt,
	}
	if err := json.Unmarshal(r.Assessment, &u.Assessment); err != nil {
		return domain.SafetyUpgrade{}, fmt.Errorf("decode assessment of %s: %w", r.ID, err)
	}
	return u, nil
}

// Create inserts a safety upgrade. A zero ID is replaced with a fresh UUID.
func (r *Repo) Create(ctx context.Context, u domain.SafetyUpgrade) (*domain.SafetyUpgrade, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	assessment, err := json.Marshal(u.Assessment)
	if err != nil {
		return nil, fmt.Errorf("encode assessment: %w", err)
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "case_id", "trigger_reason", "assessment", "recommended_action", "actor").
		Values(u.ID, u.CaseID, u.TriggerReason, assessment, u.RecommendedAction, u.Actor).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert safety upgrade: %w", err)
	}

	var row upgradeRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "safety upgrade", u.ID)
	}
	out, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByCase returns the upgrades of a case in creation order.
func (r *Repo) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.SafetyUpgrade, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"case_id": caseID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list safety upgrades: %w", err)
	}

	var rows []upgradeRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list safety upgrades: %w", err)
	}

	out := make([]domain.SafetyUpgrade, 0, len(rows))
	for _, row := range rows {
		u, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
