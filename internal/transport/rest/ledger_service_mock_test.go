package rest

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"sync"
)

var _ ledgerService = &ledgerServiceMock{}

type ledgerServiceMock struct {
	ActorsFunc         func(ctx context.Context) ([]domain.ActorSummary, error)
	GetFunc            func(ctx context.Context, id int64) (*domain.AuditEvent, error)
	PolicyTriggersFunc func(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error)
	QueryFunc          func(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error)
	StatsFunc          func(ctx context.Context) (domain.AuditStats, error)

	calls struct {
		Actors []struct {
			Ctx context.Context
		}
		Get []struct {
			Ctx context.Context
			Id  int64
		}
		PolicyTriggers []struct {
			Ctx    context.Context
			Filter domain.AuditFilter
		}
		Query []struct {
			Ctx    context.Context
			Filter domain.AuditFilter
		}
		Stats []struct {
			Ctx context.Context
		}
	}
	lockActors         sync.RWMutex
	lockGet            sync.RWMutex
	lockPolicyTriggers sync.RWMutex
	lockQuery          sync.RWMutex
	lockStats          sync.RWMutex
}

func (mock *ledgerServiceMock) Actors(ctx context.Context) ([]domain.ActorSummary, error) {
	if mock.ActorsFunc == nil {
		panic("ledgerServiceMock.ActorsFunc: method is nil but ledgerService.Actors was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockActors.Lock()
	mock.calls.Actors = append(mock.calls.Actors, callInfo)
	mock.lockActors.Unlock()
	return mock.ActorsFunc(ctx)
}

func (mock *ledgerServiceMock) ActorsCalls() []struct {
	Ctx context.Context
} {
	mock.lockActors.RLock()
	calls := mock.calls.Actors
	mock.lockActors.RUnlock()
	return calls
}

func (mock *ledgerServiceMock) Get(ctx context.Context, id int64) (*domain.AuditEvent, error) {
	if mock.GetFunc == nil {
		panic("ledgerServiceMock.GetFunc: method is nil but ledgerService.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  int64
	}{
		Ctx: ctx,
		Id:  id,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *ledgerServiceMock) GetCalls() []struct {
	Ctx context.Context
	Id  int64
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *ledgerServiceMock) PolicyTriggers(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error) {
	if mock.PolicyTriggersFunc == nil {
		panic("ledgerServiceMock.PolicyTriggersFunc: method is nil but ledgerService.PolicyTriggers was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.AuditFilter
	}{
		Ctx:    ctx,
		Filter: filter,
	}
	mock.lockPolicyTriggers.Lock()
	mock.calls.PolicyTriggers = append(mock.calls.PolicyTriggers, callInfo)
	mock.lockPolicyTriggers.Unlock()
	return mock.PolicyTriggersFunc(ctx, filter)
}

func (mock *ledgerServiceMock) PolicyTriggersCalls() []struct {
	Ctx    context.Context
	Filter domain.AuditFilter
} {
	mock.lockPolicyTriggers.RLock()
	calls := mock.calls.PolicyTriggers
	mock.lockPolicyTriggers.RUnlock()
	return calls
}

func (mock *ledgerServiceMock) Query(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error) {
	if mock.QueryFunc == nil {
		panic("ledgerServiceMock.QueryFunc: method is nil but ledgerService.Query was just called")
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

func (mock *ledgerServiceMock) QueryCalls() []struct {
	Ctx    context.Context
	Filter domain.AuditFilter
} {
	mock.lockQuery.RLock()
	calls := mock.calls.Query
	mock.lockQuery.RUnlock()
	return calls
}

func (mock *ledgerServiceMock) Stats(ctx context.Context) (domain.AuditStats, error) {
	if mock.StatsFunc == nil {
		panic("ledgerServiceMock.StatsFunc: method is nil but ledgerService.Stats was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *ledgerServiceMock) StatsCalls() []struct {
	Ctx context.Context
} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}

