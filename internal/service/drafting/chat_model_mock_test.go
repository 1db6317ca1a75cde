package drafting

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ chatModel = &chatModelMock{}

type chatModelMock struct {
	GenerateFunc func(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error)

	calls struct {
		Generate []struct {
			Ctx context.Context
			Req domain.GenerationRequest
		}
	}
	lockGenerate sync.RWMutex
}

func (mock *chatModelMock) Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error) {
	if mock.GenerateFunc == nil {
		panic("chatModelMock.GenerateFunc: method is nil but chatModel.Generate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Req domain.GenerationRequest
	}{Ctx: ctx, Req: req}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, callInfo)
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(ctx, req)
}

func (mock *chatModelMock) GenerateCalls() []struct {
	Ctx context.Context
	Req domain.GenerationRequest
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}
