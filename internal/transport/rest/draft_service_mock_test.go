package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/drafting"
	"sync"
)

var _ draftService = &draftServiceMock{}

type draftServiceMock struct {
	EditFunc       func(ctx context.Context, input drafting.EditInput) (*domain.Draft, error)
	GenerateFunc   func(ctx context.Context, input drafting.GenerateInput) (*domain.Draft, error)
	GetFunc        func(ctx context.Context, draftID string) (*domain.Draft, error)
	ListByCaseFunc func(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error)
	PreviewFunc    func(ctx context.Context, draftID string) (string, error)
	SignFunc       func(ctx context.Context, input drafting.SignInput) (*domain.Draft, error)
	TemplatesFunc  func() []domain.Template
	WriteBackFunc  func(ctx context.Context, input drafting.WriteBackInput) (*domain.Draft, error)

	calls struct {
		Edit []struct {
			Ctx   context.Context
			Input drafting.EditInput
		}
		Generate []struct {
			Ctx   context.Context
			Input drafting.GenerateInput
		}
		Get []struct {
			Ctx     context.Context
			DraftID string
		}
		ListByCase []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
		Preview []struct {
			Ctx     context.Context
			DraftID string
		}
		Sign []struct {
			Ctx   context.Context
			Input drafting.SignInput
		}
		Templates []struct {
		}
		WriteBack []struct {
			Ctx   context.Context
			Input drafting.WriteBackInput
		}
	}
	lockEdit       sync.RWMutex
	lockGenerate   sync.RWMutex
	lockGet        sync.RWMutex
	lockListByCase sync.RWMutex
	lockPreview    sync.RWMutex
	lockSign       sync.RWMutex
	lockTemplates  sync.RWMutex
	lockWriteBack  sync.RWMutex
}

func (mock *draftServiceMock) Edit(ctx context.Context, input drafting.EditInput) (*domain.Draft, error) {
	if mock.EditFunc == nil {
		panic("draftServiceMock.EditFunc: method is nil but draftService.Edit was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input drafting.EditInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockEdit.Lock()
	mock.calls.Edit = append(mock.calls.Edit, callInfo)
	mock.lockEdit.Unlock()
	return mock.EditFunc(ctx, input)
}

func (mock *draftServiceMock) EditCalls() []struct {
	Ctx   context.Context
	Input drafting.EditInput
} {
	mock.lockEdit.RLock()
	calls := mock.calls.Edit
	mock.lockEdit.RUnlock()
	return calls
}

func (mock *draftServiceMock) Generate(ctx context.Context, input drafting.GenerateInput) (*domain.Draft, error) {
	if mock.GenerateFunc == nil {
		panic("draftServiceMock.GenerateFunc: method is nil but draftService.Generate was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input drafting.GenerateInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, callInfo)
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(ctx, input)
}

func (mock *draftServiceMock) GenerateCalls() []struct {
	Ctx   context.Context
	Input drafting.GenerateInput
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}

func (mock *draftServiceMock) Get(ctx context.Context, draftID string) (*domain.Draft, error) {
	if mock.GetFunc == nil {
		panic("draftServiceMock.GetFunc: method is nil but draftService.Get was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		DraftID string
	}{
		Ctx:     ctx,
		DraftID: draftID,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, draftID)
}

func (mock *draftServiceMock) GetCalls() []struct {
	Ctx     context.Context
	DraftID string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *draftServiceMock) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error) {
	if mock.ListByCaseFunc == nil {
		panic("draftServiceMock.ListByCaseFunc: method is nil but draftService.ListByCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID uuid.UUID
	}{
		Ctx:    ctx,
		CaseID: caseID,
	}
	mock.lockListByCase.Lock()
	mock.calls.ListByCase = append(mock.calls.ListByCase, callInfo)
	mock.lockListByCase.Unlock()
	return mock.ListByCaseFunc(ctx, caseID)
}

func (mock *draftServiceMock) ListByCaseCalls() []struct {
	Ctx    context.Context
	CaseID uuid.UUID
} {
	mock.lockListByCase.RLock()
	calls := mock.calls.ListByCase
	mock.lockListByCase.RUnlock()
	return calls
}

func (mock *draftServiceMock) Preview(ctx context.Context, draftID string) (string, error) {
	if mock.PreviewFunc == nil {
		panic("draftServiceMock.PreviewFunc: method is nil but draftService.Preview was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		DraftID string
	}{
		Ctx:     ctx,
		DraftID: draftID,
	}
	mock.lockPreview.Lock()
	mock.calls.Preview = append(mock.calls.Preview, callInfo)
	mock.lockPreview.Unlock()
	return mock.PreviewFunc(ctx, draftID)
}

func (mock *draftServiceMock) PreviewCalls() []struct {
	Ctx     context.Context
	DraftID string
} {
	mock.lockPreview.RLock()
	calls := mock.calls.Preview
	mock.lockPreview.RUnlock()
	return calls
}

func (mock *draftServiceMock) Sign(ctx context.Context, input drafting.SignInput) (*domain.Draft, error) {
	if mock.SignFunc == nil {
		panic("draftServiceMock.SignFunc: method is nil but draftService.Sign was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input drafting.SignInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockSign.Lock()
	mock.calls.Sign = append(mock.calls.Sign, callInfo)
	mock.lockSign.Unlock()
	return mock.SignFunc(ctx, input)
}

func (mock *draftServiceMock) SignCalls() []struct {
	Ctx   context.Context
	Input drafting.SignInput
} {
	mock.lockSign.RLock()
	calls := mock.calls.Sign
	mock.lockSign.RUnlock()
	return calls
}

func (mock *draftServiceMock) Templates() []domain.Template {
	if mock.TemplatesFunc == nil {
		panic("draftServiceMock.TemplatesFunc: method is nil but draftService.Templates was just called")
	}
	callInfo := struct {
	}{}
	mock.lockTemplates.Lock()
	mock.calls.Templates = append(mock.calls.Templates, callInfo)
	mock.lockTemplates.Unlock()
	return mock.TemplatesFunc()
}

func (mock *draftServiceMock) TemplatesCalls() []struct {
} {
	mock.lockTemplates.RLock()
	calls := mock.calls.Templates
	mock.lockTemplates.RUnlock()
	return calls
}

func (mock *draftServiceMock) WriteBack(ctx context.Context, input drafting.WriteBackInput) (*domain.Draft, error) {
	if mock.WriteBackFunc == nil {
		panic("draftServiceMock.WriteBackFunc: method is nil but draftService.WriteBack was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input drafting.WriteBackInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockWriteBack.Lock()
	mock.calls.WriteBack = append(mock.calls.WriteBack, callInfo)
	mock.lockWriteBack.Unlock()
	return mock.WriteBackFunc(ctx, input)
}

func (mock *draftServiceMock) WriteBackCalls() []struct {
	Ctx   context.Context
	Input drafting.WriteBackInput
} {
	mock.lockWriteBack.RLock()
	calls := mock.calls.WriteBack
	mock.lockWriteBack.RUnlock()
	return calls
}

