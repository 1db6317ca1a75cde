package casework

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ consentRepo = &consentRepoMock{}

type consentRepoMock struct {
	LatestByCaseFunc func(ctx context.Context, caseID uuid.UUID) (*domain.Consent, error)
	ListByCaseFunc   func(ctx context.Context, caseID uuid.UUID) ([]domain.Consent, error)

	calls struct {
		LatestByCase []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
		ListByCase []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
	}
	lockLatestByCase sync.RWMutex
	lockListByCase   sync.RWMutex
}

func (mock *consentRepoMock) LatestByCase(ctx context.Context, caseID uuid.UUID) (*domain.Consent, error) {
	if mock.LatestByCaseFunc == nil {
		panic("consentRepoMock.LatestByCaseFunc: method is nil but consentRepo.LatestByCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID uuid.UUID
	}{Ctx: ctx, CaseID: caseID}
	mock.lockLatestByCase.Lock()
	mock.calls.LatestByCase = append(mock.calls.LatestByCase, callInfo)
	mock.lockLatestByCase.Unlock()
	return mock.LatestByCaseFunc(ctx, caseID)
}

func (mock *consentRepoMock) LatestByCaseCalls() []struct {
	Ctx    context.Context
	CaseID uuid.UUID
} {
	mock.lockLatestByCase.RLock()
	calls := mock.calls.LatestByCase
	mock.lockLatestByCase.RUnlock()
	return calls
}

func (mock *consentRepoMock) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Consent, error) {
	if mock.ListByCaseFunc == nil {
		panic("consentRepoMock.ListByCaseFunc: method is nil but consentRepo.ListByCase was just called")
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

func (mock *consentRepoMock) ListByCaseCalls() []struct {
	Ctx    context.Context
	CaseID uuid.UUID
} {
	mock.lockListByCase.RLock()
	calls := mock.calls.ListByCase
	mock.lockListByCase.RUnlock()
	return calls
}
