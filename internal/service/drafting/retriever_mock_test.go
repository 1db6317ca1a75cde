package drafting

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/retrieval"
	"sync"
)

var _ retriever = &retrieverMock{}

type retrieverMock struct {
	QueryFunc       func(ctx context.Context, q retrieval.Query) ([]domain.EvidenceRef, error)
	DefaultTopKFunc func() int
	EmbedModelFunc  func() string

	calls struct {
		Query []struct {
			Ctx context.Context
			Q   retrieval.Query
		}
		DefaultTopK []struct{}
		EmbedModel  []struct{}
	}
	lockQuery       sync.RWMutex
	lockDefaultTopK sync.RWMutex
	lockEmbedModel  sync.RWMutex
}

func (mock *retrieverMock) Query(ctx context.Context, q retrieval.Query) ([]domain.EvidenceRef, error) {
	if mock.QueryFunc == nil {
		panic("retrieverMock.QueryFunc: method is nil but retriever.Query was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Q   retrieval.Query
	}{Ctx: ctx, Q: q}
	mock.lockQuery.Lock()
	mock.calls.Query = append(mock.calls.Query, callInfo)
	mock.lockQuery.Unlock()
	return mock.QueryFunc(ctx, q)
}

func (mock *retrieverMock) QueryCalls() []struct {
	Ctx context.Context
	Q   retrieval.Query
} {
	mock.lockQuery.RLock()
	calls := mock.calls.Query
	mock.lockQuery.RUnlock()
	return calls
}

func (mock *retrieverMock) DefaultTopK() int {
	if mock.DefaultTopKFunc == nil {
		panic("retrieverMock.DefaultTopKFunc: method is nil but retriever.DefaultTopK was just called")
	}
	mock.lockDefaultTopK.Lock()
	mock.calls.DefaultTopK = append(mock.calls.DefaultTopK, struct{}{})
	mock.lockDefaultTopK.Unlock()
	return mock.DefaultTopKFunc()
}

func (mock *retrieverMock) DefaultTopKCalls() []struct{} {
	mock.lockDefaultTopK.RLock()
	calls := mock.calls.DefaultTopK
	mock.lockDefaultTopK.RUnlock()
	return calls
}

func (mock *retrieverMock) EmbedModel() string {
	if mock.EmbedModelFunc == nil {
		panic("retrieverMock.EmbedModelFunc: method is nil but retriever.EmbedModel was just called")
	}
	mock.lockEmbedModel.Lock()
	mock.calls.EmbedModel = append(mock.calls.EmbedModel, struct{}{})
	mock.lockEmbedModel.Unlock()
	return mock.EmbedModelFunc()
}

func (mock *retrieverMock) EmbedModelCalls() []struct{} {
	mock.lockEmbedModel.RLock()
	calls := mock.calls.EmbedModel
	mock.lockEmbedModel.RUnlock()
	return calls
}
