package retrieval

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ embedder = &embedderMock{}

type embedderMock struct {
	EmbedFunc func(ctx context.Context, text string, fault domain.FaultPolicy) ([]float32, error)
	ModelFunc func() string

	calls struct {
		Embed []struct {
			Ctx   context.Context
			Text  string
			Fault domain.FaultPolicy
		}
		Model []struct{}
	}
	lockEmbed sync.RWMutex
	lockModel sync.RWMutex
}

func (mock *embedderMock) Embed(ctx context.Context, text string, fault domain.FaultPolicy) ([]float32, error) {
	if mock.EmbedFunc == nil {
		panic("embedderMock.EmbedFunc: method is nil but embedder.Embed was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Text  string
		Fault domain.FaultPolicy
	}{Ctx: ctx, Text: text, Fault: fault}
	mock.lockEmbed.Lock()
	mock.calls.Embed = append(mock.calls.Embed, callInfo)
	mock.lockEmbed.Unlock()
	return mock.EmbedFunc(ctx, text, fault)
}

func (mock *embedderMock) EmbedCalls() []struct {
	Ctx   context.Context
	Text  string
	Fault domain.FaultPolicy
} {
	mock.lockEmbed.RLock()
	calls := mock.calls.Embed
	mock.lockEmbed.RUnlock()
	return calls
}

func (mock *embedderMock) Model() string {
	if mock.ModelFunc == nil {
		panic("embedderMock.ModelFunc: method is nil but embedder.Model was just called")
	}
	mock.lockModel.Lock()
	mock.calls.Model = append(mock.calls.Model, struct{}{})
	mock.lockModel.Unlock()
	return mock.ModelFunc()
}

func (mock *embedderMock) ModelCalls() []struct{} {
	mock.lockModel.RLock()
	calls := mock.calls.Model
	mock.lockModel.RUnlock()
	return calls
}
