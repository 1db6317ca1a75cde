package retrieval

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ documentStore = &documentStoreMock{}

type documentStoreMock struct {
	CreateFunc       func(ctx context.Context, doc *domain.Document) error
	ListFunc         func(ctx context.Context) ([]domain.Document, error)
	SetEmbeddingFunc func(ctx context.Context, docID string, vec []float32, model string) error

	calls struct {
		Create []struct {
			Ctx context.Context
			Doc *domain.Document
		}
		List []struct {
			Ctx context.Context
		}
		SetEmbedding []struct {
			Ctx   context.Context
			DocID string
			Vec   []float32
			Model string
		}
	}
	lockCreate       sync.RWMutex
	lockList         sync.RWMutex
	lockSetEmbedding sync.RWMutex
}

func (mock *documentStoreMock) Create(ctx context.Context, doc *domain.Document) error {
	if mock.CreateFunc == nil {
		panic("documentStoreMock.CreateFunc: method is nil but documentStore.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Doc *domain.Document
	}{Ctx: ctx, Doc: doc}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, doc)
}

func (mock *documentStoreMock) CreateCalls() []struct {
	Ctx context.Context
	Doc *domain.Document
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *documentStoreMock) List(ctx context.Context) ([]domain.Document, error) {
	if mock.ListFunc == nil {
		panic("documentStoreMock.ListFunc: method is nil but documentStore.List was just called")
	}
	callInfo := struct{ Ctx context.Context }{Ctx: ctx}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx)
}

func (mock *documentStoreMock) ListCalls() []struct {
	Ctx context.Context
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *documentStoreMock) SetEmbedding(ctx context.Context, docID string, vec []float32, model string) error {
	if mock.SetEmbeddingFunc == nil {
		panic("documentStoreMock.SetEmbeddingFunc: method is nil but documentStore.SetEmbedding was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		DocID string
		Vec   []float32
		Model string
	}{Ctx: ctx, DocID: docID, Vec: vec, Model: model}
	mock.lockSetEmbedding.Lock()
	mock.calls.SetEmbedding = append(mock.calls.SetEmbedding, callInfo)
	mock.lockSetEmbedding.Unlock()
	return mock.SetEmbeddingFunc(ctx, docID, vec, model)
}

func (mock *documentStoreMock) SetEmbeddingCalls() []struct {
	Ctx   context.Context
	DocID string
	Vec   []float32
	Model string
} {
	mock.lockSetEmbedding.RLock()
	calls := mock.calls.SetEmbedding
	mock.lockSetEmbedding.RUnlock()
	return calls
}
