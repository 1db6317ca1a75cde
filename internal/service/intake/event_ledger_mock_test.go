package intake

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"sync"
)

var _ eventLedger = &eventLedgerMock{}

type eventLedgerMock struct {
	AppendFunc                 func(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
	RecordInferenceFailureFunc func(ctx context.Context, f ledger.InferenceFailure) error

	calls struct {
		Append []struct {
			Ctx   context.Context
			Event domain.AuditEvent
		}
		RecordInferenceFailure []struct {
			Ctx context.Context
			F   ledger.InferenceFailure
		}
	}
	lockAppend                 sync.RWMutex
	lockRecordInferenceFailure sync.RWMutex
}

func (mock *eventLedgerMock) Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if mock.AppendFunc == nil {
		panic("eventLedgerMock.AppendFunc: method is nil but eventLedger.Append was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event domain.AuditEvent
	}{Ctx: ctx, Event: event}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, event)
}

func (mock *eventLedgerMock) AppendCalls() []struct {
	Ctx   context.Context
	Event domain.AuditEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *eventLedgerMock) RecordInferenceFailure(ctx context.Context, f ledger.InferenceFailure) error {
	if mock.RecordInferenceFailureFunc == nil {
		panic("eventLedgerMock.RecordInferenceFailureFunc: method is nil but eventLedger.RecordInferenceFailure was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   ledger.InferenceFailure
	}{Ctx: ctx, F: f}
	mock.lockRecordInferenceFailure.Lock()
	mock.calls.RecordInferenceFailure = append(mock.calls.RecordInferenceFailure, callInfo)
	mock.lockRecordInferenceFailure.Unlock()
	return mock.RecordInferenceFailureFunc(ctx, f)
}

func (mock *eventLedgerMock) RecordInferenceFailureCalls() []struct {
	Ctx context.Context
	F   ledger.InferenceFailure
} {
	mock.lockRecordInferenceFailure.RLock()
	calls := mock.calls.RecordInferenceFailure
	mock.lockRecordInferenceFailure.RUnlock()
	return calls
}
