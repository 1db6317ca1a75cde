package export

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"sync"
)

var _ eventSource = &eventSourceMock{}

type eventSourceMock struct {
	QueryFunc func(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error)

	calls struct {
		Query []struct {
			Ctx    context.Context
			Filter domain.AuditFilter
		}
	}
	lockQuery sync.RWMutex
}

func (mock *eventSourceMock) Query(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error) {
	if mock.QueryFunc == nil {
		panic("eventSourceMock.QueryFunc: method is nil but eventSource.Query was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.AuditFilter
	}{
		Ctx:    ctx,
		Filter: filter,
	}
	mock.lockQuery.Lock()
	mock.calls.Query = append(mock.calls.Query, callInfo)
	mock.lockQuery.Unlock()
	return mock.QueryFunc(ctx, filter)
}

func (mock *eventSourceMock) QueryCalls() []struct {
	Ctx    context.Context
	Filter domain.AuditFilter
} {
	mock.lockQuery.RLock()
	calls := mock.calls.Query
	mock.lockQuery.RUnlock()
	return calls
}

