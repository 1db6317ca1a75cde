package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/heartmarshall/dualtrack-backend/migrations"
)

// Migrate applies pending migrations through a database/sql view of pool.
func Migrate(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	results, err := migrations.Up(ctx, db)
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Duration("took", r.Duration),
		)
	}
	return err
}
