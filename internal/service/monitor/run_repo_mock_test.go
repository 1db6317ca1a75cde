package monitor

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
	"time"
)

var _ runRepo = &runRepoMock{}

type runRepoMock struct {
	TotalsFunc     func(ctx context.Context, since *time.Time) (domain.ModelPerf, error)
	ByModelFunc    func(ctx context.Context, since *time.Time) ([]domain.ModelPerf, error)
	ErrorCodesFunc func(ctx context.Context, since *time.Time) (map[string]int, error)

	calls struct {
		Totals []struct {
			Ctx   context.Context
			Since *time.Time
		}
		ByModel []struct {
			Ctx   context.Context
			Since *time.Time
		}
		ErrorCodes []struct {
			Ctx   context.Context
			Since *time.Time
		}
	}
	lockTotals     sync.RWMutex
	lockByModel    sync.RWMutex
	lockErrorCodes sync.RWMutex
}

func (mock *runRepoMock) Totals(ctx context.Context, since *time.Time) (domain.ModelPerf, error) {
	if mock.TotalsFunc == nil {
		panic("runRepoMock.TotalsFunc: method is nil but runRepo.Totals was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Since *time.Time
	}{Ctx: ctx, Since: since}
	mock.lockTotals.Lock()
	mock.calls.Totals = append(mock.calls.Totals, callInfo)
	mock.lockTotals.Unlock()
	return mock.TotalsFunc(ctx, since)
}

func (mock *runRepoMock) TotalsCalls() []struct {
	Ctx   context.Context
	Since *time.Time
} {
	mock.lockTotals.RLock()
	calls := mock.calls.Totals
	mock.lockTotals.RUnlock()
	return calls
}

func (mock *runRepoMock) ByModel(ctx context.Context, since *time.Time) ([]domain.ModelPerf, error) {
	if mock.ByModelFunc == nil {
		panic("runRepoMock.ByModelFunc: method is nil but runRepo.ByModel was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Since *time.Time
	}{Ctx: ctx, Since: since}
	mock.lockByModel.Lock()
	mock.calls.ByModel = append(mock.calls.ByModel, callInfo)
	mock.lockByModel.Unlock()
	return mock.ByModelFunc(ctx, since)
}

func (mock *runRepoMock) ByModelCalls() []struct {
	Ctx   context.Context
	Since *time.Time
} {
	mock.lockByModel.RLock()
	calls := mock.calls.ByModel
	mock.lockByModel.RUnlock()
	return calls
}

func (mock *runRepoMock) ErrorCodes(ctx context.Context, since *time.Time) (map[string]int, error) {
	if mock.ErrorCodesFunc == nil {
		panic("runRepoMock.ErrorCodesFunc: method is nil but runRepo.ErrorCodes was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Since *time.Time
	}{Ctx: ctx, Since: since}
	mock.lockErrorCodes.Lock()
	mock.calls.ErrorCodes = append(mock.calls.ErrorCodes, callInfo)
	mock.lockErrorCodes.Unlock()
	return mock.ErrorCodesFunc(ctx, since)
}

func (mock *runRepoMock) ErrorCodesCalls() []struct {
	Ctx   context.Context
	Since *time.Time
} {
	mock.lockErrorCodes.RLock()
	calls := mock.calls.ErrorCodes
	mock.lockErrorCodes.RUnlock()
	return calls
}
