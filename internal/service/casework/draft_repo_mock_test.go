package casework

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ draftRepo = &draftRepoMock{}

type draftRepoMock struct {
	ListByCaseFunc func(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error)

	calls struct {
		ListByCase []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
	}
	lockListByCase sync.RWMutex
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
