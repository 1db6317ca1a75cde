package ledger

import (
	"context"
	"encoding/json"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	AppendFunc  func(ctx context.Context, event domain.AuditEvent, payload json.RawMessage) (domain.AuditEvent, error)
	GetByIDFunc func(ctx context.Context, id int64) (*domain.AuditEvent, error)
	ListFunc    func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEvent, error)
	CountFunc   func(ctx context.Context, filter domain.AuditFilter) (int, error)
	CountByFunc func(ctx context.Context, dim domain.StatsDimension) (map[string]int, error)
	ActorsFunc  func(ctx context.Context) ([]domain.ActorSummary, error)

	calls struct {
		Append []struct {
			Ctx     context.Context
			Event   domain.AuditEvent
			Payload json.RawMessage
		}
		GetByID []struct {
			Ctx context.Context
			ID  int64
		}
		List []struct {
			Ctx    context.Context
			Filter domain.AuditFilter
		}
		Count []struct {
			Ctx    context.Context
			Filter domain.AuditFilter
		}
		CountBy []struct {
			Ctx context.Context
			Dim domain.StatsDimension
		}
		Actors []struct {
			Ctx context.Context
		}
	}
	lockAppend  sync.RWMutex
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
	lockCount   sync.RWMutex
	lockCountBy sync.RWMutex
	lockActors  sync.RWMutex
}

func (mock *eventRepoMock) Append(ctx context.Context, event domain.AuditEvent, payload json.RawMessage) (domain.AuditEvent, error) {
	if mock.AppendFunc == nil {
		panic("eventRepoMock.AppendFunc: method is nil but eventRepo.Append was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Event   domain.AuditEvent
		Payload json.RawMessage
	}{Ctx: ctx, Event: event, Payload: payload}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, event, payload)
}

func (mock *eventRepoMock) AppendCalls() []struct {
	Ctx     context.Context
	Event   domain.AuditEvent
	Payload json.RawMessage
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *eventRepoMock) GetByID(ctx context.Context, id int64) (*domain.AuditEvent, error) {
	if mock.GetByIDFunc == nil {
		panic("eventRepoMock.GetByIDFunc: method is nil but eventRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  int64
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *eventRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *eventRepoMock) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEvent, error) {
	if mock.ListFunc == nil {
		panic("eventRepoMock.ListFunc: method is nil but eventRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.AuditFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *eventRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Filter domain.AuditFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *eventRepoMock) Count(ctx context.Context, filter domain.AuditFilter) (int, error) {
	if mock.CountFunc == nil {
		panic("eventRepoMock.CountFunc: method is nil but eventRepo.Count was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.AuditFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockCount.Lock()
	mock.calls.Count = append(mock.calls.Count, callInfo)
	mock.lockCount.Unlock()
	return mock.CountFunc(ctx, filter)
}

func (mock *eventRepoMock) CountCalls() []struct {
	Ctx    context.Context
	Filter domain.AuditFilter
} {
	mock.lockCount.RLock()
	calls := mock.calls.Count
	mock.lockCount.RUnlock()
	return calls
}

func (mock *eventRepoMock) CountBy(ctx context.Context, dim domain.StatsDimension) (map[string]int, error) {
	if mock.CountByFunc == nil {
		panic("eventRepoMock.CountByFunc: method is nil but eventRepo.CountBy was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Dim domain.StatsDimension
	}{Ctx: ctx, Dim: dim}
	mock.lockCountBy.Lock()
	mock.calls.CountBy = append(mock.calls.CountBy, callInfo)
	mock.lockCountBy.Unlock()
	return mock.CountByFunc(ctx, dim)
}

func (mock *eventRepoMock) CountByCalls() []struct {
	Ctx context.Context
	Dim domain.StatsDimension
} {
	mock.lockCountBy.RLock()
	calls := mock.calls.CountBy
	mock.lockCountBy.RUnlock()
	return calls
}

func (mock *eventRepoMock) Actors(ctx context.Context) ([]domain.ActorSummary, error) {
	if mock.ActorsFunc == nil {
		panic("eventRepoMock.ActorsFunc: method is nil but eventRepo.Actors was just called")
	}
	callInfo := struct{ Ctx context.Context }{Ctx: ctx}
	mock.lockActors.Lock()
	mock.calls.Actors = append(mock.calls.Actors, callInfo)
	mock.lockActors.Unlock()
	return mock.ActorsFunc(ctx)
}

func (mock *eventRepoMock) ActorsCalls() []struct {
	Ctx context.Context
} {
	mock.lockActors.RLock()
	calls := mock.calls.Actors
	mock.lockActors.RUnlock()
	return calls
}
