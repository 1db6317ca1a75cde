package intake

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/service/structgen"
	"sync"
)

var _ structuredModel = &structuredModelMock{}

type structuredModelMock struct {
	GenerateFunc func(ctx context.Context, req structgen.Request) (*structgen.Result, error)

	calls struct {
		Generate []struct {
			Ctx context.Context
			Req structgen.Request
		}
	}
	lockGenerate sync.RWMutex
}

func (mock *structuredModelMock) Generate(ctx context.Context, req structgen.Request) (*structgen.Result, error) {
	if mock.GenerateFunc == nil {
		panic("structuredModelMock.GenerateFunc: method is nil but structuredModel.Generate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Req structgen.Request
	}{Ctx: ctx, Req: req}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, callInfo)
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(ctx, req)
}

func (mock *structuredModelMock) GenerateCalls() []struct {
	Ctx context.Context
	Req structgen.Request
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}
