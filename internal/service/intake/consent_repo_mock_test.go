package intake

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ consentRepo = &consentRepoMock{}

type consentRepoMock struct {
	CreateFunc func(ctx context.Context, c domain.Consent) (*domain.Consent, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			C   domain.Consent
		}
	}
	lockCreate sync.RWMutex
}

func (mock *consentRepoMock) Create(ctx context.Context, c domain.Consent) (*domain.Consent, error) {
	if mock.CreateFunc == nil {
		panic("consentRepoMock.CreateFunc: method is nil but consentRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C   domain.Consent
	}{Ctx: ctx, C: c}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, c)
}

func (mock *consentRepoMock) CreateCalls() []struct {
	Ctx context.Context
	C   domain.Consent
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
