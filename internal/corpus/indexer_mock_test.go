package corpus

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ indexer = &indexerMock{}

type indexerMock struct {
	IndexFunc func(ctx context.Context, doc domain.Document, fault domain.FaultPolicy) error

	calls struct {
		Index []struct {
			Ctx   context.Context
			Doc   domain.Document
			Fault domain.FaultPolicy
		}
	}
	lockIndex sync.RWMutex
}

func (mock *indexerMock) Index(ctx context.Context, doc domain.Document, fault domain.FaultPolicy) error {
	if mock.IndexFunc == nil {
		panic("indexerMock.IndexFunc: method is nil but indexer.Index was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Doc   domain.Document
		Fault domain.FaultPolicy
	}{
		Ctx:   ctx,
		Doc:   doc,
		Fault: fault,
	}
	mock.lockIndex.Lock()
	mock.calls.Index = append(mock.calls.Index, callInfo)
	mock.lockIndex.Unlock()
	return mock.IndexFunc(ctx, doc, fault)
}

func (mock *indexerMock) IndexCalls() []struct {
	Ctx   context.Context
	Doc   domain.Document
	Fault domain.FaultPolicy
} {
	mock.lockIndex.RLock()
	calls := mock.calls.Index
	mock.lockIndex.RUnlock()
	return calls
}

