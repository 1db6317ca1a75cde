// Package llmruns stores one row per inference call and aggregates them for
// the inference monitor.
package llmruns

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

const table = "llm_runs"

// aggregates are shared by Totals and ByModel. Success rate is a fraction in 0..1.
var aggregates = []string{
	"count(*)::int AS runs",
	"COALESCE(avg(success::int), 0)::float8 AS success_rate",
	"COALESCE(avg(latency_ms), 0)::float8 AS avg_latency_ms",
	"COALESCE(percentile_cont(0.95) WITHIN GROUP (ORDER BY latency_ms), 0)::float8 AS p95_latency_ms",
	"COALESCE(avg(tokens_per_sec), 0)::float8 AS avg_tokens_per_sec",
}

// Repo provides inference run persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new run repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Record inserts a run. A zero ID is replaced with a fresh UUID.
func (r *Repo) Record(ctx context.Context, run domain.LLMRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "model", "track", "operation", "case_id", "latency_ms", "load_ms",
			"prompt_tokens", "eval_tokens", "tokens_per_sec", "success", "error_code", "retries").
		Values(run.ID, run.Model, run.Track, run.Operation, run.CaseID, run.LatencyMS, run.LoadMS,
			run.PromptTokens, run.EvalTokens, run.TokensPerSec, run.Success, run.ErrorCode, run.Retries).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert llm_run: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "llm_run", run.ID)
	}
	return nil
}

// Totals aggregates every run at or after since.
func (r *Repo) Totals(ctx context.Context, since *time.Time) (domain.ModelPerf, error) {
	query, args, err := sinceFilter(postgres.Builder.Select(aggregates...).From(table), since).ToSql()
	if err != nil {
		return domain.ModelPerf{}, fmt.Errorf("build run totals: %w", err)
	}

	var out domain.ModelPerf
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return domain.ModelPerf{}, fmt.Errorf("run totals: %w", err)
	}
	return out, nil
}

// ByModel aggregates runs per model, busiest first.
func (r *Repo) ByModel(ctx context.Context, since *time.Time) ([]domain.ModelPerf, error) {
	query, args, err := sinceFilter(
		postgres.Builder.Select(append([]string{"model"}, aggregates...)...).From(table), since,
	).GroupBy("model").OrderBy("runs DESC", "model").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs by model: %w", err)
	}

	var out []domain.ModelPerf
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, fmt.Errorf("runs by model: %w", err)
	}
	return out, nil
}

type codeCount struct {
	Code string `db:"error_code"`
	N    int    `db:"n"`
}

// ErrorCodes counts failed runs per error code.
func (r *Repo) ErrorCodes(ctx context.Context, since *time.Time) (map[string]int, error) {
	query, args, err := sinceFilter(
		postgres.Builder.Select("error_code", "count(*)::int AS n").From(table).
			Where(sq.Eq{"success": false}).
			Where(sq.NotEq{"error_code": nil}),
		since,
	).GroupBy("error_code").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run error codes: %w", err)
	}

	var rows []codeCount
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("run error codes: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Code] = row.N
	}
	return out, nil
}

func sinceFilter(b sq.SelectBuilder, since *time.Time) sq.SelectBuilder {
	if since != nil {
		return b.Where(sq.GtOrEq{"created_at": *since})
	}
	return b
}
