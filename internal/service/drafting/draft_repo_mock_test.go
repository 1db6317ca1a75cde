package drafting

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ draftRepo = &draftRepoMock{}

type draftRepoMock struct {
	CreateFunc     func(ctx context.Context, d domain.Draft) (*domain.Draft, error)
	GetByIDFunc    func(ctx context.Context, draftID string) (*domain.Draft, error)
	ListByCaseFunc func(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error)
	TransitionFunc func(ctx context.Context, t domain.DraftTransition) (*domain.Draft, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			D   domain.Draft
		}
		GetByID []struct {
			Ctx     context.Context
			DraftID string
		}
		ListByCase []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
		Transition []struct {
			Ctx context.Context
			T   domain.DraftTransition
		}
	}
	lockCreate     sync.RWMutex
	lockGetByID    sync.RWMutex
	lockListByCase sync.RWMutex
	lockTransition sync.RWMutex
}

func (mock *draftRepoMock) Create(ctx context.Context, d domain.Draft) (*domain.Draft, error) {
	if mock.CreateFunc == nil {
		panic("draftRepoMock.CreateFunc: method is nil but draftRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		D   domain.Draft
	}{Ctx: ctx, D: d}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, d)
}

func (mock *draftRepoMock) CreateCalls() []struct {
	Ctx context.Context
	D   domain.Draft
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *draftRepoMock) GetByID(ctx context.Context, draftID string) (*domain.Draft, error) {
	if mock.GetByIDFunc == nil {
		panic("draftRepoMock.GetByIDFunc: method is nil but draftRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		DraftID string
	}{Ctx: ctx, DraftID: draftID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, draftID)
}

func (mock *draftRepoMock) GetByIDCalls() []struct {
	Ctx     context.Context
	DraftID string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *draftRepoMock) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error) {
	if mock.ListByCaseFunc == nil {
		panic("draftRepoMock.ListByCaseFunc: method is nil but draftRepo.ListByCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID uuid.UUID
	}{Ctx: ctx, CaseID: caseID}
	mock.lockListByCase.Lock()
	mock.calls.ListByCase = append(mock.calls.ListByCase, callInfo)
	mock.lockListByCase.Unlock()
	return mock.ListByCaseFunc(ctx, caseID)
}

func (mock *draftRepoMock) ListByCaseCalls() []struct {
	Ctx    context.Context
	CaseID uuid.UUID
} {
	mock.lockListByCase.RLock()
	calls := mock.calls.ListByCase
	mock.lockListByCase.RUnlock()
	return calls
}

func (mock *draftRepoMock) Transition(ctx context.Context, t domain.DraftTransition) (*domain.Draft, error) {
	if mock.TransitionFunc == nil {
		panic("draftRepoMock.TransitionFunc: method is nil but draftRepo.Transition was just called")
	}
	callInfo := struct {
		Ctx context.Context
		T   domain.DraftTransition
	}{Ctx: ctx, T: t}
	mock.lockTransition.Lock()
	mock.calls.Transition = append(mock.calls.Transition, callInfo)
	mock.lockTransition.Unlock()
	return mock.TransitionFunc(ctx, t)
}

func (mock *draftRepoMock) TransitionCalls() []struct {
	Ctx context.Context
	T   domain.DraftTransition
} {
	mock.lockTransition.RLock()
	calls := mock.calls.Transition
	mock.lockTransition.RUnlock()
	return calls
}
