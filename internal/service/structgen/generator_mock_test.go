package structgen

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ generator = &generatorMock{}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error)

	calls struct {
		Generate []struct {
			Ctx context.Context
			Req domain.GenerationRequest
		}
	}
	lockGenerate sync.RWMutex
}

func (mock *generatorMock) Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error) {
	if mock.GenerateFunc == nil {
		panic("generatorMock.GenerateFunc: method is nil but generator.Generate was just called")
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

func (mock *generatorMock) GenerateCalls() []struct {
	Ctx context.Context
	Req domain.GenerationRequest
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}
