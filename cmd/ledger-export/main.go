// Command ledger-export writes a filtered slice of the audit ledger to a
// zstd-compressed CBOR archive, or verifies an existing archive offline.
//
// Usage:
//
//	ledger-export --out ledger.cbor.zst [--track governance] [--event-type sign] [--case-id ID]
//	              [--since 2026-01-01T00:00:00Z] [--until ...] [--config config.yaml]
//	ledger-export --verify ledger.cbor.zst
//
// Exit codes: 0 = success, 1 = error, 2 = archive contains digest mismatches.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/dualtrack-backend/internal/app"
	"github.com/heartmarshall/dualtrack-backend/internal/config"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/export"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
)

const exitMismatch = 2

type options struct {
	configPath string
	out        string
	verify     string
	track      string
	eventType  string
	caseID     string
	since      string
	until      string
	timeout    time.Duration
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledger-export: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var opts options
	flags := pflag.NewFlagSet("ledger-export", pflag.ContinueOnError)
	flags.StringVar(&opts.configPath, "config", "", "path to YAML config (default: CONFIG_PATH or ./config.yaml)")
	flags.StringVarP(&opts.out, "out", "o", "", "archive to write")
	flags.StringVar(&opts.verify, "verify", "", "archive to verify instead of exporting")
	flags.StringVar(&opts.track, "track", "", "only events of this track")
	flags.StringVar(&opts.eventType, "event-type", "", "only events of this type")
	flags.StringVar(&opts.caseID, "case-id", "", "only events of this case")
	flags.StringVar(&opts.since, "since", "", "only events at or after this RFC 3339 time")
	flags.StringVar(&opts.until, "until", "", "only events before this RFC 3339 time")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Minute, "overall deadline")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0, nil
		}
		return 1, err
	}

	switch {
	case opts.verify != "":
		return verify(opts.verify)
	case opts.out != "":
		return exportTo(opts)
	default:
		flags.Usage()
		return 1, fmt.Errorf("one of --out or --verify is required")
	}
}

func verify(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 1, err
	}
	defer f.Close()

	header, stats, err := export.Verify(f)
	if err != nil {
		return 1, fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("%s: %s exported %s, %d events\n", path, header.Format, header.ExportedAt, stats.Events)
	if len(stats.Mismatched) > 0 {
		fmt.Printf("digest mismatch on events %v\n", stats.Mismatched)
		return exitMismatch, nil
	}
	return 0, nil
}

func exportTo(opts options) (int, error) {
	filter, err := buildFilter(opts)
	if err != nil {
		return 1, err
	}

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return 1, err
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return 1, err
	}
	defer pool.Close()

	ledgerSvc := ledger.NewService(logger, audit.New(pool), cfg.Governance.LedgerWriteTimeout)

	f, err := os.Create(opts.out)
	if err != nil {
		return 1, err
	}
	stats, err := export.Write(ctx, ledgerSvc, filter, f, time.Now())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(opts.out)
		return 1, err
	}

	logger.Info("ledger exported",
		slog.String("file", opts.out),
		slog.Int("events", stats.Events),
		slog.Int("mismatched", len(stats.Mismatched)),
	)
	if len(stats.Mismatched) > 0 {
		return exitMismatch, nil
	}
	return 0, nil
}

func buildFilter(opts options) (domain.AuditFilter, error) {
	var f domain.AuditFilter
	if opts.track != "" {
		t := domain.Track(opts.track)
		if !t.IsValid() {
			return f, fmt.Errorf("--track: unknown track %q", opts.track)
		}
		f.Track = &t
	}
	if opts.eventType != "" {
		et := domain.EventType(opts.eventType)
		f.EventType = &et
	}
	if opts.caseID != "" {
		id, err := uuid.Parse(opts.caseID)
		if err != nil {
			return f, fmt.Errorf("--case-id: %w", err)
		}
		f.CaseID = &id
	}
	for _, tf := range []struct {
		name, val string
		dst       **time.Time
	}{
		{"since", opts.since, &f.Since},
		{"until", opts.until, &f.Until},
	} {
		if tf.val == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, tf.val)
		if err != nil {
			return f, fmt.Errorf("--%s: %w", tf.name, err)
		}
		*tf.dst = &ts
	}
	return f, nil
}
