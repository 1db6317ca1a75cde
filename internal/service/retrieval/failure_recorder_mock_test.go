package retrieval

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"sync"
)

var _ failureRecorder = &failureRecorderMock{}

type failureRecorderMock struct {
	RecordInferenceFailureFunc func(ctx context.Context, f ledger.InferenceFailure) error

	calls struct {
		RecordInferenceFailure []struct {
			Ctx context.Context
			F   ledger.InferenceFailure
		}
	}
	lockRecordInferenceFailure sync.RWMutex
}

func (mock *failureRecorderMock) RecordInferenceFailure(ctx context.Context, f ledger.InferenceFailure) error {
	if mock.RecordInferenceFailureFunc == nil {
		panic("failureRecorderMock.RecordInferenceFailureFunc: method is nil but failureRecorder.RecordInferenceFailure was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   ledger.InferenceFailure
	}{
		Ctx: ctx,
		F:   f,
	}
	mock.lockRecordInferenceFailure.Lock()
	mock.calls.RecordInferenceFailure = append(mock.calls.RecordInferenceFailure, callInfo)
	mock.lockRecordInferenceFailure.Unlock()
	return mock.RecordInferenceFailureFunc(ctx, f)
}

func (mock *failureRecorderMock) RecordInferenceFailureCalls() []struct {
	Ctx context.Context
	F   ledger.InferenceFailure
} {
	mock.lockRecordInferenceFailure.RLock()
	calls := mock.calls.RecordInferenceFailure
	mock.lockRecordInferenceFailure.RUnlock()
	return calls
}

