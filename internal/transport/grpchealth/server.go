// Package grpchealth exposes the standard gRPC health service so that
// orchestrators can probe the API without speaking HTTP.
package grpchealth

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ServiceName is the health service name probes should ask for. The empty
// name reports overall status and mirrors it.
const ServiceName = "dualtrack.api"

const probeTimeout = 3 * time.Second

// Server serves grpc.health.v1 backed by a database ping loop.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	db       pinger
	interval time.Duration
	log      *slog.Logger
}

// New creates a Server that re-probes db every interval.
func New(log *slog.Logger, db pinger, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		grpc:     gs,
		health:   hs,
		db:       db,
		interval: interval,
		log:      log.With("transport", "grpchealth"),
	}
}

// Serve probes once, then serves on lis until Stop or ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.probe(ctx)
	go s.watch(ctx)

	s.log.InfoContext(ctx, "grpc health listening", slog.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop marks the service as not serving and drains connections.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *Server) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(pctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.log.WarnContext(ctx, "health probe failed", slog.String("error", err.Error()))
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
