package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/casework"
	"sync"
)

var _ caseService = &caseServiceMock{}

type caseServiceMock struct {
	ArchiveFunc  func(ctx context.Context, input casework.StatusInput) (*domain.Case, error)
	CompleteFunc func(ctx context.Context, input casework.StatusInput) (*domain.Case, error)
	GetFunc      func(ctx context.Context, caseID uuid.UUID) (*domain.CaseDetail, error)
	QueueFunc    func(ctx context.Context) ([]domain.QueueItem, error)
	TransferFunc func(ctx context.Context, input casework.TransferInput) (*domain.Case, error)

	calls struct {
		Archive []struct {
			Ctx   context.Context
			Input casework.StatusInput
		}
		Complete []struct {
			Ctx   context.Context
			Input casework.StatusInput
		}
		Get []struct {
			Ctx    context.Context
			CaseID uuid.UUID
		}
		Queue []struct {
			Ctx context.Context
		}
		Transfer []struct {
			Ctx   context.Context
			Input casework.TransferInput
		}
	}
	lockArchive  sync.RWMutex
	lockComplete sync.RWMutex
	lockGet      sync.RWMutex
	lockQueue    sync.RWMutex
	lockTransfer sync.RWMutex
}

func (mock *caseServiceMock) Archive(ctx context.Context, input casework.StatusInput) (*domain.Case, error) {
	if mock.ArchiveFunc == nil {
		panic("caseServiceMock.ArchiveFunc: method is nil but caseService.Archive was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input casework.StatusInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockArchive.Lock()
	mock.calls.Archive = append(mock.calls.Archive, callInfo)
	mock.lockArchive.Unlock()
	return mock.ArchiveFunc(ctx, input)
}

func (mock *caseServiceMock) ArchiveCalls() []struct {
	Ctx   context.Context
	Input casework.StatusInput
} {
	mock.lockArchive.RLock()
	calls := mock.calls.Archive
	mock.lockArchive.RUnlock()
	return calls
}

func (mock *caseServiceMock) Complete(ctx context.Context, input casework.StatusInput) (*domain.Case, error) {
	if mock.CompleteFunc == nil {
		panic("caseServiceMock.CompleteFunc: method is nil but caseService.Complete was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input casework.StatusInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, input)
}

func (mock *caseServiceMock) CompleteCalls() []struct {
	Ctx   context.Context
	Input casework.StatusInput
} {
	mock.lockComplete.RLock()
	calls := mock.calls.Complete
	mock.lockComplete.RUnlock()
	return calls
}

func (mock *caseServiceMock) Get(ctx context.Context, caseID uuid.UUID) (*domain.CaseDetail, error) {
	if mock.GetFunc == nil {
		panic("caseServiceMock.GetFunc: method is nil but caseService.Get was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID uuid.UUID
	}{
		Ctx:    ctx,
		CaseID: caseID,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, caseID)
}

func (mock *caseServiceMock) GetCalls() []struct {
	Ctx    context.Context
	CaseID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *caseServiceMock) Queue(ctx context.Context) ([]domain.QueueItem, error) {
	if mock.QueueFunc == nil {
		panic("caseServiceMock.QueueFunc: method is nil but caseService.Queue was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockQueue.Lock()
	mock.calls.Queue = append(mock.calls.Queue, callInfo)
	mock.lockQueue.Unlock()
	return mock.QueueFunc(ctx)
}

func (mock *caseServiceMock) QueueCalls() []struct {
	Ctx context.Context
} {
	mock.lockQueue.RLock()
	calls := mock.calls.Queue
	mock.lockQueue.RUnlock()
	return calls
}

func (mock *caseServiceMock) Transfer(ctx context.Context, input casework.TransferInput) (*domain.Case, error) {
	if mock.TransferFunc == nil {
		panic("caseServiceMock.TransferFunc: method is nil but caseService.Transfer was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input casework.TransferInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockTransfer.Lock()
	mock.calls.Transfer = append(mock.calls.Transfer, callInfo)
	mock.lockTransfer.Unlock()
	return mock.TransferFunc(ctx, input)
}

func (mock *caseServiceMock) TransferCalls() []struct {
	Ctx   context.Context
	Input casework.TransferInput
} {
	mock.lockTransfer.RLock()
	calls := mock.calls.Transfer
	mock.lockTransfer.RUnlock()
	return calls
}

