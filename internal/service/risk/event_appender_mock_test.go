package risk

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ eventAppender = &eventAppenderMock{}

type eventAppenderMock struct {
	AppendFunc func(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)

	calls struct {
		Append []struct {
			Ctx   context.Context
			Event domain.AuditEvent
		}
	}
	lockAppend sync.RWMutex
}

func (mock *eventAppenderMock) Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if mock.AppendFunc == nil {
		panic("eventAppenderMock.AppendFunc: method is nil but eventAppender.Append was just called")
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

func (mock *eventAppenderMock) AppendCalls() []struct {
	Ctx   context.Context
	Event domain.AuditEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}
