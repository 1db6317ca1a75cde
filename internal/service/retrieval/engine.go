// Package retrieval ranks reference documents against free text by cosine
// similarity of their embeddings.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
)

type embedder interface {
	Embed(ctx context.Context, text string, fault domain.FaultPolicy) ([]float32, error)
	Model() string
}

type documentStore interface {
	Create(ctx context.Context, doc *domain.Document) error
	List(ctx context.Context) ([]domain.Document, error)
	SetEmbedding(ctx context.Context, docID string, vec []float32, model string) error
}

type failureRecorder interface {
	RecordInferenceFailure(ctx context.Context, f ledger.InferenceFailure) error
}

// docIDPattern keeps document ids citable as [DOC:<id>].
var docIDPattern = regexp.MustCompile(`^\w+$`)

// Config tunes query defaults.
type Config struct {
	DefaultTopK   int
	SnippetLength int
	RetryBackoff  time.Duration
}

// Engine owns the in-memory index and keeps it in step with the document store.
type Engine struct {
	index    Index
	embed    embedder
	docs     documentStore
	failures failureRecorder
	cfg      Config
	log      *slog.Logger
}

// NewEngine creates an Engine over index. Embedding failures outside of Query
// are ledgered through failures. Zero config values fall back to 3 results,
// 200-rune snippets and no retry backoff.
func NewEngine(log *slog.Logger, index Index, embed embedder, docs documentStore, failures failureRecorder, cfg Config) *Engine {
	if cfg.DefaultTopK < 1 {
		cfg.DefaultTopK = 3
	}
	if cfg.SnippetLength < 1 {
		cfg.SnippetLength = 200
	}
	return &Engine{
		index:    index,
		embed:    embed,
		docs:     docs,
		failures: failures,
		cfg:      cfg,
		log:      log.With("service", "retrieval"),
	}
}

// Query is one evidence search. Vector, when set, skips embedding Text.
type Query struct {
	Text     string
	K        int
	Category string
	Vector   []float32
	Fault    domain.FaultPolicy
}

// DefaultTopK returns the configured result count for callers that omit K.
func (e *Engine) DefaultTopK() int { return e.cfg.DefaultTopK }

// EmbedModel returns the embedding model id.
func (e *Engine) EmbedModel() string { return e.embed.Model() }

// Len returns the number of indexed documents.
func (e *Engine) Len() int { return e.index.Len() }

// Query returns at most K evidence refs in non-increasing score order. A failure
// to embed the query is reported as ErrRetrievalUnavailable, never as an empty result.
func (e *Engine) Query(ctx context.Context, q Query) ([]domain.EvidenceRef, error) {
	if q.K < 1 {
		return nil, domain.NewValidationError("top_k", "must be at least 1")
	}

	vec := q.Vector
	if len(vec) == 0 {
		if strings.TrimSpace(q.Text) == "" {
			return nil, domain.NewValidationError("query", "required")
		}
		var err error
		vec, err = e.embedWithRetry(ctx, q.Text, q.Fault)
		if err != nil {
			return nil, err
		}
	}

	hits, err := e.index.Search(vec, q.K, q.Category)
	if err != nil {
		if errors.Is(err, ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
		}
		return nil, err
	}

	refs := make([]domain.EvidenceRef, len(hits))
	for i, h := range hits {
		refs[i] = domain.EvidenceRef{
			DocID:    h.Doc.ID,
			Title:    h.Doc.Title,
			Snippet:  snippet(h.Doc.Body, e.cfg.SnippetLength),
			Score:    h.Score,
			Category: h.Doc.Category,
		}
	}

	e.log.InfoContext(ctx, "evidence retrieved",
		slog.Int("top_k", q.K),
		slog.Int("results", len(refs)),
		slog.String("category", q.Category),
	)
	return refs, nil
}

// Search is Query for callers without a case of their own. A query that
// cannot be embedded is ledgered as an inference failure of the embedding model.
func (e *Engine) Search(ctx context.Context, q Query) ([]domain.EvidenceRef, error) {
	started := time.Now()
	refs, err := e.Query(ctx, q)
	if err != nil && errors.Is(err, domain.ErrRetrievalUnavailable) {
		if lerr := e.recordFailure(ctx, started, err); lerr != nil {
			return nil, lerr
		}
	}
	return refs, err
}

func (e *Engine) recordFailure(ctx context.Context, started time.Time, cause error) error {
	err := e.failures.RecordInferenceFailure(ctx, ledger.InferenceFailure{
		Model:     e.embed.Model(),
		Track:     domain.TrackGovernance,
		Operation: domain.OpEmbed,
		Err:       cause,
		Latency:   time.Since(started),
	})
	if err != nil {
		e.log.ErrorContext(ctx, "ledger inference failure", slog.String("error", err.Error()))
		return fmt.Errorf("ledger inference failure: %w", err)
	}
	return nil
}

// embedWithRetry tries twice, waiting RetryBackoff in between.
func (e *Engine) embedWithRetry(ctx context.Context, text string, fault domain.FaultPolicy) ([]float32, error) {
	vec, err := e.embed.Embed(ctx, text, fault)
	if err == nil {
		return vec, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, ctx.Err())
	}

	e.log.WarnContext(ctx, "query embedding failed, retrying", slog.String("error", err.Error()))

	if e.cfg.RetryBackoff > 0 {
		timer := time.NewTimer(e.cfg.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, ctx.Err())
		case <-timer.C:
		}
	}

	vec, err = e.embed.Embed(ctx, text, fault)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	return vec, nil
}

// Index embeds doc if needed, persists it and adds it to the in-memory index.
// Documents are write-once: a repeated id is ErrAlreadyExists, and a vector
// whose dimension differs from the index is rejected before it is stored.
func (e *Engine) Index(ctx context.Context, doc domain.Document, fault domain.FaultPolicy) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	if len(doc.Embedding) == 0 {
		started := time.Now()
		vec, err := e.embed.Embed(ctx, doc.Body, fault)
		if err != nil {
			err = fmt.Errorf("embed document %s: %w: %w", doc.ID, domain.ErrRetrievalUnavailable, err)
			if lerr := e.recordFailure(ctx, started, err); lerr != nil {
				return lerr
			}
			return err
		}
		doc.Embedding = vec
		doc.EmbedModel = e.embed.Model()
	}

	if dim := e.index.Dim(); dim != 0 && len(doc.Embedding) != dim {
		return fmt.Errorf("index document %s: %w: has %d, index has %d", doc.ID, ErrDimensionMismatch, len(doc.Embedding), dim)
	}

	if err := e.docs.Create(ctx, &doc); err != nil {
		return fmt.Errorf("store document %s: %w", doc.ID, err)
	}
	if err := e.index.Add(doc); err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}

	e.log.InfoContext(ctx, "document indexed",
		slog.String("doc_id", doc.ID),
		slog.Int("dims", len(doc.Embedding)),
	)
	return nil
}

// Load fills the index from the store, embedding and saving vectors for
// documents stored without one. Documents the index rejects are logged and
// skipped. It returns the number of documents indexed.
func (e *Engine) Load(ctx context.Context) (int, error) {
	docs, err := e.docs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	loaded, skipped := 0, 0
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			started := time.Now()
			vec, err := e.embed.Embed(ctx, doc.Body, domain.FaultPolicy{})
			if err != nil {
				err = fmt.Errorf("embed document %s: %w: %w", doc.ID, domain.ErrRetrievalUnavailable, err)
				if lerr := e.recordFailure(ctx, started, err); lerr != nil {
					return loaded, errors.Join(err, lerr)
				}
				return loaded, err
			}
			if err := e.docs.SetEmbedding(ctx, doc.ID, vec, e.embed.Model()); err != nil {
				return loaded, fmt.Errorf("save embedding %s: %w", doc.ID, err)
			}
			doc.Embedding = vec
			doc.EmbedModel = e.embed.Model()
		}
		if err := e.index.Add(doc); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			skipped++
			e.log.WarnContext(ctx, "stored document not indexed",
				slog.String("doc_id", doc.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		loaded++
	}

	e.log.InfoContext(ctx, "corpus loaded", slog.Int("documents", loaded), slog.Int("skipped", skipped))
	return loaded, nil
}

func validateDocument(doc domain.Document) error {
	var errs []domain.FieldError
	if strings.TrimSpace(doc.ID) == "" {
		errs = append(errs, domain.FieldError{Field: "doc_id", Message: "required"})
	} else if !docIDPattern.MatchString(doc.ID) {
		errs = append(errs, domain.FieldError{Field: "doc_id", Message: "letters, digits and underscore only"})
	}
	if strings.TrimSpace(doc.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(doc.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// snippet returns the first n runes of body, with "..." only when truncated.
func snippet(body string, n int) string {
	r := []rune(body)
	if len(r) <= n {
		return body
	}
	return string(r[:n]) + "..."
}
