package casework

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ capsuleRepo = &capsuleRepoMock{}

type capsuleRepoMock struct {
	GetByIDFunc   func(ctx context.Context, capsuleID string) (*domain.IntakeCapsule, error)
	GetByCaseFunc func(ctx context.Context, caseID uuid.UUID) (*domain.IntakeCapsule, error)

	calls struct {
		GetByID []struct {
			Ctx       context.Context
			CapsuleID string
		}
		GetByCase []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
	}
	lockGetByID   sync.RWMutex
	lockGetByCase sync.RWMutex
}

func (mock *capsuleRepoMock) GetByID(ctx context.Context, capsuleID string) (*domain.IntakeCapsule, error) {
	if mock.GetByIDFunc == nil {
		panic("capsuleRepoMock.GetByIDFunc: method is nil but capsuleRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		CapsuleID string
	}{Ctx: ctx, CapsuleID: capsuleID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, capsuleID)
}

func (mock *capsuleRepoMock) GetByIDCalls() []struct {
	Ctx       context.Context
	CapsuleID string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *capsuleRepoMock) GetByCase(ctx context.Context, caseID uuid.UUID) (*domain.IntakeCapsule, error) {
	if mock.GetByCaseFunc == nil {
		panic("capsuleRepoMock.GetByCaseFunc: method is nil but capsuleRepo.GetByCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID uuid.UUID
	}{Ctx: ctx, CaseID: caseID}
	mock.lockGetByCase.Lock()
	mock.calls.GetByCase = append(mock.calls.GetByCase, callInfo)
	mock.lockGetByCase.Unlock()
	return mock.GetByCaseFunc(ctx, caseID)
}

func (mock *capsuleRepoMock) GetByCaseCalls() []struct {
	Ctx    context.Context
	CaseID uuid.UUID
} {
	mock.lockGetByCase.RLock()
	calls := mock.calls.GetByCase
	mock.lockGetByCase.RUnlock()
	return calls
}
