// Package capsules implements the intake capsule repository using PostgreSQL.
// Capsules are write-once; there is no update path.
package capsules

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

const table = "intake_capsules"

var columns = []string{
	"id", "case_id", "self_description", "model_summary", "structured_data", "raw_output",
	"validation_status", "repair_attempts", "problems", "model", "created_at",
}

// Repo provides capsule persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new capsule repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type capsuleRow struct {
	ID               string    `db:"id"`
	CaseID           uuid.UUID `db:"case_id"`
	SelfDescription  string    `db:"self_description"`
	ModelSummary     string    `db:"model_summary"`
	StructuredData   []byte    `db:"structured_data"`
	RawOutput        string    `db:"raw_output"`
	ValidationStatus string    `db:"validation_status"`
	RepairAttempts   int       `db:"repair_attempts"`
	Problems         []string  `db:"problems"`
	Model            string    `db:"model"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r capsuleRow) toDomain() *domain.IntakeCapsule {
	c := &domain.IntakeCapsule{
		ID:               r.ID,
		CaseID:           r.CaseID,
		SelfDescription:  r.SelfDescription,
		ModelSummary:     r.ModelSummary,
		RawOutput:        r.RawOutput,
		ValidationStatus: domain.ValidationStatus(r.ValidationStatus),
		RepairAttempts:   r.RepairAttempts,
		Problems:         r.Problems,
		Model:            r.Model,
		CreatedAt:        r.CreatedAt,
	}
	if len(r.StructuredData) > 0 {
		c.StructuredData = json.RawMessage(r.StructuredData)
	}
	return c
}

// Create inserts a capsule. A second capsule for the same case fails with
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c domain.IntakeCapsule) (*domain.IntakeCapsule, error) {
	if c.ID == "" {
		c.ID = domain.NewCapsuleID()
	}
	problems := c.Problems
	if problems == nil {
		problems = []string{}
	}
	var structured any
	if len(c.StructuredData) > 0 {
		structured = []byte(c.StructuredData)
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "case_id", "self_description", "model_summary", "structured_data", "raw_output",
			"validation_status", "repair_attempts", "problems", "model").
		Values(c.ID, c.CaseID, c.SelfDescription, c.ModelSummary, structured, c.RawOutput,
			string(c.ValidationStatus), c.RepairAttempts, problems, c.Model).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert capsule: %w", err)
	}

	var row capsuleRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "capsule", c.ID)
	}
	return row.toDomain(), nil
}

// GetByID returns a capsule by its identifier.
func (r *Repo) GetByID(ctx context.Context, capsuleID string) (*domain.IntakeCapsule, error) {
	return r.getOne(ctx, sq.Eq{"id": capsuleID}, capsuleID)
}

// GetByCase returns the capsule of a case.
// Returns domain.ErrNotFound when the case has none yet.
func (r *Repo) GetByCase(ctx context.Context, caseID uuid.UUID) (*domain.IntakeCapsule, error) {
	return r.getOne(ctx, sq.Eq{"case_id": caseID}, caseID)
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq, id any) (*domain.IntakeCapsule, error) {
	query, args, err := postgres.Builder.Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select capsule: %w", err)
	}

	var row capsuleRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "capsule", id)
	}
	return row.toDomain(), nil
}
