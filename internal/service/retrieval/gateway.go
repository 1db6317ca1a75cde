package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// ErrEmbeddingFaultInjected is returned when the per-call fault policy forces an embedding failure.
var ErrEmbeddingFaultInjected = errors.New("embedding failure injected")

type embedClient interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

type embedCache interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Put(ctx context.Context, model, text string, vec []float32) error
}

// Gateway turns text into an embedding vector with a single model.
// The cache is optional; cache failures never fail an embed.
type Gateway struct {
	client embedClient
	cache  embedCache
	model  string
	log    *slog.Logger
}

// NewGateway creates a Gateway. cache may be nil.
func NewGateway(log *slog.Logger, client embedClient, cache embedCache, model string) *Gateway {
	return &Gateway{
		client: client,
		cache:  cache,
		model:  model,
		log:    log.With("service", "embedding"),
	}
}

// Model returns the embedding model id, used as the actor of retrieval events.
func (g *Gateway) Model() string { return g.model }

// Embed returns the vector for text.
func (g *Gateway) Embed(ctx context.Context, text string, fault domain.FaultPolicy) ([]float32, error) {
	if fault.FailEmbedding {
		return nil, ErrEmbeddingFaultInjected
	}

	if g.cache != nil {
		vec, ok, err := g.cache.Get(ctx, g.model, text)
		switch {
		case err != nil:
			g.log.WarnContext(ctx, "embed cache read failed", slog.String("error", err.Error()))
		case ok:
			return vec, nil
		}
	}

	vec, err := g.client.Embed(ctx, g.model, text)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embed %s: empty vector", g.model)
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, g.model, text, vec); err != nil {
			g.log.WarnContext(ctx, "embed cache write failed", slog.String("error", err.Error()))
		}
	}
	return vec, nil
}
