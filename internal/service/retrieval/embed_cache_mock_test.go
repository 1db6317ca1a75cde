package retrieval

import (
	"context"
	"sync"
)

var _ embedCache = &embedCacheMock{}

type embedCacheMock struct {
	GetFunc func(ctx context.Context, model string, text string) ([]float32, bool, error)
	PutFunc func(ctx context.Context, model string, text string, vec []float32) error

	calls struct {
		Get []struct {
			Ctx   context.Context
			Model string
			Text  string
		}
		Put []struct {
			Ctx   context.Context
			Model string
			Text  string
			Vec   []float32
		}
	}
	lockGet sync.RWMutex
	lockPut sync.RWMutex
}

func (mock *embedCacheMock) Get(ctx context.Context, model string, text string) ([]float32, bool, error) {
	if mock.GetFunc == nil {
		panic("embedCacheMock.GetFunc: method is nil but embedCache.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Model string
		Text  string
	}{Ctx: ctx, Model: model, Text: text}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, model, text)
}

func (mock *embedCacheMock) GetCalls() []struct {
	Ctx   context.Context
	Model string
	Text  string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *embedCacheMock) Put(ctx context.Context, model string, text string, vec []float32) error {
	if mock.PutFunc == nil {
		panic("embedCacheMock.PutFunc: method is nil but embedCache.Put was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Model string
		Text  string
		Vec   []float32
	}{Ctx: ctx, Model: model, Text: text, Vec: vec}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, model, text, vec)
}

func (mock *embedCacheMock) PutCalls() []struct {
	Ctx   context.Context
	Model string
	Text  string
	Vec   []float32
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}
