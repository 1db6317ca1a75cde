// Package drafts implements the reviewer draft repository using PostgreSQL.
// Every status change is guarded by the expected current status, so two
// concurrent writers can never both move the same draft.
package drafts

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

const table = "drafts"

var columns = []string{
	"id", "case_id", "template_type", "status", "content", "evidence", "edits", "pending_tasks",
	"risk_points", "model", "policy_result", "signed_by", "signed_at", "created_at", "updated_at",
}

// Repo provides draft persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new draft repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type draftRow struct {
	ID           string     `db:"id"`
	CaseID       uuid.UUID  `db:"case_id"`
	TemplateType string     `db:"template_type"`
	Status       string     `db:"status"`
	Content      string     `db:"content"`
	Evidence     []byte     `db:"evidence"`
	Edits        []byte     `db:"edits"`
	PendingTasks []string   `db:"pending_tasks"`
	RiskPoints   []string   `db:"risk_points"`
	Model        string     `db:"model"`
	PolicyResult []byte     `db:"policy_result"`
	SignedBy     *string    `db:"signed_by"`
	SignedAt     *time.Time `db:"signed_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r draftRow) toDomain() (*domain.Draft, error) {
	d := &domain.Draft{
		ID:           r.ID,
		CaseID:       r.CaseID,
		TemplateType: r.TemplateType,
		Status:       domain.DraftStatus(r.Status),
		Content:      r.Content,
		Evidence:     []domain.EvidenceRef{},
		Edits:        []domain.DraftEdit{},
		PendingTasks: nonNil(r.PendingTasks),
		RiskPoints:   nonNil(r.RiskPoints),
		Model:        r.Model,
		SignedBy:     r.SignedBy,
		SignedAt:     r.SignedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Evidence) > 0 {
		if err := json.Unmarshal(r.Evidence, &d.Evidence); err != nil {
			return nil, fmt.Errorf("decode evidence of %s: %w", r.ID, err)
		}
	}
	if len(r.Edits) > 0 {
		if err := json.Unmarshal(r.Edits, &d.Edits); err != nil {
			return nil, fmt.Errorf("decode edits of %s: %w", r.ID, err)
		}
	}
	if len(r.PolicyResult) > 0 {
		var pr domain.PolicyResult
		if err := json.Unmarshal(r.PolicyResult, &pr); err != nil {
			return nil, fmt.Errorf("decode policy result of %s: %w", r.ID, err)
		}
		d.PolicyResult = &pr
	}
	return d, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Create inserts a new draft. An empty ID is replaced with a fresh draft id.
func (r *Repo) Create(ctx context.Context, d domain.Draft) (*domain.Draft, error) {
	if d.ID == "" {
		d.ID = domain.NewDraftID()
	}
	if d.Status == "" {
		d.Status = domain.DraftNew
	}
	evidence, err := json.Marshal(orEmpty(d.Evidence))
	if err != nil {
		return nil, fmt.Errorf("encode evidence: %w", err)
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "case_id", "template_type", "status", "content", "evidence", "pending_tasks", "risk_points", "model").
		Values(d.ID, d.CaseID, d.TemplateType, string(d.Status), d.Content, evidence,
			nonNil(d.PendingTasks), nonNil(d.RiskPoints), d.Model).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert draft: %w", err)
	}

	return r.getWith(ctx, d.ID, query, args)
}

// GetByID returns a draft by its identifier.
func (r *Repo) GetByID(ctx context.Context, draftID string) (*domain.Draft, error) {
	query, args, err := postgres.Builder.Select(columns...).From(table).Where(sq.Eq{"id": draftID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select draft: %w", err)
	}
	return r.getWith(ctx, draftID, query, args)
}

// ListByCase returns the drafts of a case, newest first.
func (r *Repo) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"case_id": caseID}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list drafts: %w", err)
	}

	var rows []draftRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	out := make([]domain.Draft, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// Transition applies t while the draft still has status t.From and, with
// t.IfContent, the given content. Returns domain.ErrConflict when the stored
// draft differs and domain.ErrNotFound when it does not exist.
func (r *Repo) Transition(ctx context.Context, t domain.DraftTransition) (*domain.Draft, error) {
	b := postgres.Builder.
		Update(table).
		Set("status", string(t.To)).
		Set("updated_at", sq.Expr("now()"))
	if t.Content != nil {
		b = b.Set("content", *t.Content)
	}
	if t.Edit != nil {
		entry, err := json.Marshal([]domain.DraftEdit{*t.Edit})
		if err != nil {
			return nil, fmt.Errorf("encode edit: %w", err)
		}
		b = b.Set("edits", sq.Expr("edits || ?::jsonb", entry))
	}
	if t.PolicyResult != nil {
		pr, err := json.Marshal(t.PolicyResult)
		if err != nil {
			return nil, fmt.Errorf("encode policy result: %w", err)
		}
		b = b.Set("policy_result", sq.Expr("?::jsonb", pr))
	}
	if t.SignedBy != nil {
		b = b.Set("signed_by", *t.SignedBy)
	}
	if t.SignedAt != nil {
		b = b.Set("signed_at", *t.SignedAt)
	}

	b = b.Where(sq.Eq{"id": t.DraftID, "status": string(t.From)})
	if t.IfContent != nil {
		b = b.Where(sq.Eq{"content": *t.IfContent})
	}
	query, args, err := b.
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build draft transition: %w", err)
	}

	var rows []draftRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "draft", t.DraftID)
	}
	if len(rows) == 1 {
		return rows[0].toDomain()
	}

	if _, err := r.GetByID(ctx, t.DraftID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("draft %s changed since it was read as %s: %w", t.DraftID, t.From, domain.ErrConflict)
}

func (r *Repo) getWith(ctx context.Context, id, query string, args []any) (*domain.Draft, error) {
	var row draftRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "draft", id)
	}
	return row.toDomain()
}

func orEmpty(refs []domain.EvidenceRef) []domain.EvidenceRef {
	if refs == nil {
		return []domain.EvidenceRef{}
	}
	return refs
}
