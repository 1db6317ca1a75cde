package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/anthropic"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/embedcache"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/ollama"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/capsules"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/cases"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/consents"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/documents"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/drafts"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/llmruns"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/safety"
	"github.com/heartmarshall/dualtrack-backend/internal/config"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/casework"
	"github.com/heartmarshall/dualtrack-backend/internal/service/drafting"
	"github.com/heartmarshall/dualtrack-backend/internal/service/intake"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"github.com/heartmarshall/dualtrack-backend/internal/service/monitor"
	"github.com/heartmarshall/dualtrack-backend/internal/service/retrieval"
	"github.com/heartmarshall/dualtrack-backend/internal/service/risk"
	"github.com/heartmarshall/dualtrack-backend/internal/service/structgen"
	"github.com/heartmarshall/dualtrack-backend/internal/transport/grpchealth"
	"github.com/heartmarshall/dualtrack-backend/internal/transport/middleware"
	"github.com/heartmarshall/dualtrack-backend/internal/transport/rest"
)

const (
	preloadTimeout     = 2 * time.Minute
	grpcHealthInterval = 10 * time.Second
)

type chatGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error)
}

// Run loads configuration, connects to the database, wires every service
// and serves HTTP until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("reviewer_provider", cfg.Inference.ReviewerProvider),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := Migrate(ctx, logger, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	srv, err := build(ctx, logger, cfg, pool)
	if err != nil {
		return err
	}
	defer srv.close()

	return srv.serve(ctx, cfg.Server)
}

type server struct {
	log     *slog.Logger
	handler http.Handler
	pool    *pgxpool.Pool
	ollama  *ollama.Client
	models  []string
	closers []func() error
}

// build creates repositories, adapters and services and mounts them on the router.
func build(ctx context.Context, log *slog.Logger, cfg *config.Config, pool *pgxpool.Pool) (_ *server, err error) {
	s := &server{log: log, pool: pool}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	// Repositories.
	caseRepo := cases.New(pool)
	capsuleRepo := capsules.New(pool)
	consentRepo := consents.New(pool)
	documentRepo := documents.New(pool)
	draftRepo := drafts.New(pool)
	auditRepo := audit.New(pool)
	safetyRepo := safety.New(pool)
	runRepo := llmruns.New(pool)
	txm := postgres.NewTxManager(pool)

	// Inference.
	s.ollama = ollama.NewClient(log, ollama.Config{
		BaseURL:        cfg.Inference.OllamaBaseURL,
		RequestTimeout: cfg.Inference.RequestTimeout,
		ConnectTimeout: cfg.Inference.ConnectTimeout,
	}, runRepo)
	s.models = []string{cfg.Inference.PublicModel}

	var (
		reviewerChat  chatGenerator = s.ollama
		reviewerModel               = cfg.Inference.ReviewerModel
	)
	if cfg.Inference.ReviewerProvider == config.ProviderAnthropic {
		ac := anthropic.NewClient(log, anthropic.Config{
			APIKey:         cfg.Inference.AnthropicAPIKey,
			Model:          cfg.Inference.AnthropicModel,
			MaxTokens:      cfg.Inference.AnthropicMaxTok,
			RequestTimeout: cfg.Inference.RequestTimeout,
		}, runRepo)
		reviewerChat, reviewerModel = ac, ac.Model()
	} else {
		s.models = append(s.models, cfg.Inference.ReviewerModel)
	}

	// Retrieval.
	var gateway *retrieval.Gateway
	if cfg.Retrieval.EmbedCachePath != "" {
		cache, err := embedcache.Open(cfg.Retrieval.EmbedCachePath)
		if err != nil {
			return nil, fmt.Errorf("embed cache: %w", err)
		}
		s.closers = append(s.closers, cache.Close)
		gateway = retrieval.NewGateway(log, s.ollama, cache, cfg.Inference.EmbedModel)
	} else {
		gateway = retrieval.NewGateway(log, s.ollama, nil, cfg.Inference.EmbedModel)
	}

	ledgerSvc := ledger.NewService(log, auditRepo, cfg.Governance.LedgerWriteTimeout)

	engine := retrieval.NewEngine(log, retrieval.NewBruteForceIndex(), gateway, documentRepo, ledgerSvc, retrieval.Config{
		DefaultTopK:   cfg.Retrieval.DefaultTopK,
		SnippetLength: cfg.Retrieval.SnippetLength,
		RetryBackoff:  cfg.Retrieval.RetryBackoff,
	})
	n, loadErr := engine.Load(ctx)
	if loadErr != nil {
		// An unreachable embedding model leaves the corpus partially indexed;
		// retrieval reports itself unavailable until the next start.
		log.WarnContext(ctx, "corpus load incomplete", slog.Int("indexed", n), slog.String("error", loadErr.Error()))
	} else {
		log.InfoContext(ctx, "corpus loaded", slog.Int("documents", n))
	}

	// Services.
	riskEngine := risk.NewEngine()
	riskSvc := risk.NewService(log, riskEngine, ledgerSvc)

	capsuleGen, err := structgen.New(log, s.ollama, domain.CapsuleSchema)
	if err != nil {
		return nil, fmt.Errorf("capsule schema: %w", err)
	}

	intakeSvc := intake.NewService(log, caseRepo, capsuleRepo, consentRepo, safetyRepo,
		s.ollama, capsuleGen, riskEngine, ledgerSvc, txm, intake.Config{
			PublicModel:        cfg.Inference.PublicModel,
			LedgerWriteTimeout: cfg.Governance.LedgerWriteTimeout,
		})
	caseSvc := casework.NewService(log, caseRepo, capsuleRepo, consentRepo, safetyRepo, draftRepo,
		ledgerSvc, txm, casework.Config{
			RequireValidCapsule: cfg.Governance.RequireValidCapsule,
			LedgerWriteTimeout:  cfg.Governance.LedgerWriteTimeout,
		})
	draftSvc := drafting.NewService(log, caseRepo, capsuleRepo, draftRepo, engine, reviewerChat,
		ledgerSvc, txm, drafting.Config{
			ReviewerModel:      reviewerModel,
			LedgerWriteTimeout: cfg.Governance.LedgerWriteTimeout,
		})
	monitorSvc := monitor.NewService(log, runRepo)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	s.closers = append(s.closers, func() error { limiter.Stop(); return nil })

	s.handler = newRouter(log, cfg.CORS, handlers{
		health:     rest.NewHealthHandler(pool, s.ollama, BuildVersion()),
		public:     rest.NewPublicHandler(intakeSvc, caseSvc, log),
		clinician:  rest.NewClinicianHandler(draftSvc, caseSvc, log),
		audit:      rest.NewAuditHandler(ledgerSvc, log),
		governance: rest.NewGovernanceHandler(riskSvc, engine, monitorSvc, log),
	}, limiter.Limit(cfg.RateLimit.PublicPerMinute))

	return s, nil
}

// serve runs the HTTP server and the optional gRPC health listener until
// ctx is canceled or one of them fails, then shuts both down.
func (s *server) serve(ctx context.Context, cfg config.ServerConfig) error {
	httpSrv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	var health *grpchealth.Server
	var healthLis net.Listener
	if cfg.GRPCHealthPort > 0 {
		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.GRPCHealthPort))
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc health listen: %w", err)
		}
		health, healthLis = grpchealth.New(s.log, s.pool, grpcHealthInterval), lis
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if health != nil {
		g.Go(func() error {
			s.log.Info("grpc health listening", slog.String("addr", healthLis.Addr().String()))
			if err := health.Serve(gctx, healthLis); err != nil {
				return fmt.Errorf("grpc health: %w", err)
			}
			return nil
		})
	}

	go s.preload(gctx)

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if health != nil {
			health.Stop()
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// preload warms the configured models so the first request does not pay
// the load time. Failures are logged only.
func (s *server) preload(ctx context.Context) {
	for _, model := range s.models {
		pctx, cancel := context.WithTimeout(ctx, preloadTimeout)
		err := s.ollama.Preload(pctx, model)
		cancel()
		if err != nil {
			s.log.WarnContext(ctx, "model preload failed", slog.String("model", model), slog.String("error", err.Error()))
			continue
		}
		s.log.InfoContext(ctx, "model preloaded", slog.String("model", model))
	}
}

func (s *server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.Warn("close resource", slog.String("error", err.Error()))
		}
	}
}
