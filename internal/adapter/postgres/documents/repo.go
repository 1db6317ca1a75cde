// Package documents implements the reference corpus repository using PostgreSQL.
// Document text is write-once; only a missing embedding may be filled in later.
package documents

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

const table = "documents"

var columns = []string{"id", "title", "category", "body", "embedding", "embed_model", "created_at"}

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new document repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type documentRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Category   string    `db:"category"`
	Body       string    `db:"body"`
	Embedding  []float32 `db:"embedding"`
	EmbedModel string    `db:"embed_model"`
	CreatedAt  time.Time `db:"created_at"`
}

// Create inserts doc and fills its CreatedAt.
// A repeated id fails with domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, doc *domain.Document) error {
	var embedding any
	if len(doc.Embedding) > 0 {
		embedding = doc.Embedding
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "title", "category", "body", "embedding", "embed_model").
		Values(doc.ID, doc.Title, doc.Category, doc.Body, embedding, doc.EmbedModel).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert document: %w", err)
	}

	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&doc.CreatedAt); err != nil {
		return postgres.MapError(err, "document", doc.ID)
	}
	return nil
}

// List returns every document ordered by id.
func (r *Repo) List(ctx context.Context) ([]domain.Document, error) {
	query, args, err := postgres.Builder.Select(columns...).From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents: %w", err)
	}

	var rows []documentRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]domain.Document, len(rows))
	for i, row := range rows {
		docs[i] = domain.Document(row)
	}
	return docs, nil
}

// SetEmbedding stores a vector for a document that has none yet.
// A document that already carries an embedding is left unchanged.
func (r *Repo) SetEmbedding(ctx context.Context, docID string, vec []float32, model string) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("embedding", vec).
		Set("embed_model", model).
		Where(sq.Eq{"id": docID, "embedding": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set embedding: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "document", docID)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := postgres.QuerierFromCtx(ctx, r.db).
			QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM documents WHERE id = $1)`, docID).
			Scan(&exists); err != nil {
			return postgres.MapError(err, "document", docID)
		}
		if !exists {
			return fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
		}
	}
	return nil
}
