package anthropic

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ runRecorder = &runRecorderMock{}

type runRecorderMock struct {
	RecordFunc func(ctx context.Context, run domain.LLMRun) error

	calls struct {
		Record []struct {
			Ctx context.Context
			Run domain.LLMRun
		}
	}
	lockRecord sync.RWMutex
}

func (mock *runRecorderMock) Record(ctx context.Context, run domain.LLMRun) error {
	if mock.RecordFunc == nil {
		panic("runRecorderMock.RecordFunc: method is nil but runRecorder.Record was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Run domain.LLMRun
	}{Ctx: ctx, Run: run}
	mock.lockRecord.Lock()
	mock.calls.Record = append(mock.calls.Record, callInfo)
	mock.lockRecord.Unlock()
	return mock.RecordFunc(ctx, run)
}

func (mock *runRecorderMock) RecordCalls() []struct {
	Ctx context.Context
	Run domain.LLMRun
} {
	mock.lockRecord.RLock()
	calls := mock.calls.Record
	mock.lockRecord.RUnlock()
	return calls
}
