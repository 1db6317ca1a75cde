package rest

import (
	"context"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/intake"
	"sync"
)

var _ intakeService = &intakeServiceMock{}

type intakeServiceMock struct {
	ChatFunc          func(ctx context.Context, input intake.ChatInput) (*intake.ChatResult, error)
	PreAssessFunc     func(ctx context.Context, input intake.PreAssessInput) (*intake.PreAssessResult, error)
	RecordConsentFunc func(ctx context.Context, input intake.ConsentInput) (*domain.Consent, error)

	calls struct {
		Chat []struct {
			Ctx   context.Context
			Input intake.ChatInput
		}
		PreAssess []struct {
			Ctx   context.Context
			Input intake.PreAssessInput
		}
		RecordConsent []struct {
			Ctx   context.Context
			Input intake.ConsentInput
		}
	}
	lockChat          sync.RWMutex
	lockPreAssess     sync.RWMutex
	lockRecordConsent sync.RWMutex
}

func (mock *intakeServiceMock) Chat(ctx context.Context, input intake.ChatInput) (*intake.ChatResult, error) {
	if mock.ChatFunc == nil {
		panic("intakeServiceMock.ChatFunc: method is nil but intakeService.Chat was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input intake.ChatInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockChat.Lock()
	mock.calls.Chat = append(mock.calls.Chat, callInfo)
	mock.lockChat.Unlock()
	return mock.ChatFunc(ctx, input)
}

func (mock *intakeServiceMock) ChatCalls() []struct {
	Ctx   context.Context
	Input intake.ChatInput
} {
	mock.lockChat.RLock()
	calls := mock.calls.Chat
	mock.lockChat.RUnlock()
	return calls
}

func (mock *intakeServiceMock) PreAssess(ctx context.Context, input intake.PreAssessInput) (*intake.PreAssessResult, error) {
	if mock.PreAssessFunc == nil {
		panic("intakeServiceMock.PreAssessFunc: method is nil but intakeService.PreAssess was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input intake.PreAssessInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockPreAssess.Lock()
	mock.calls.PreAssess = append(mock.calls.PreAssess, callInfo)
	mock.lockPreAssess.Unlock()
	return mock.PreAssessFunc(ctx, input)
}

func (mock *intakeServiceMock) PreAssessCalls() []struct {
	Ctx   context.Context
	Input intake.PreAssessInput
} {
	mock.lockPreAssess.RLock()
	calls := mock.calls.PreAssess
	mock.lockPreAssess.RUnlock()
	return calls
}

func (mock *intakeServiceMock) RecordConsent(ctx context.Context, input intake.ConsentInput) (*domain.Consent, error) {
	if mock.RecordConsentFunc == nil {
		panic("intakeServiceMock.RecordConsentFunc: method is nil but intakeService.RecordConsent was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input intake.ConsentInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockRecordConsent.Lock()
	mock.calls.RecordConsent = append(mock.calls.RecordConsent, callInfo)
	mock.lockRecordConsent.Unlock()
	return mock.RecordConsentFunc(ctx, input)
}

func (mock *intakeServiceMock) RecordConsentCalls() []struct {
	Ctx   context.Context
	Input intake.ConsentInput
} {
	mock.lockRecordConsent.RLock()
	calls := mock.calls.RecordConsent
	mock.lockRecordConsent.RUnlock()
	return calls
}

