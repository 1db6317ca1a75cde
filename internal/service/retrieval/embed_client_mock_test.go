package retrieval

import (
	"context"
	"sync"
)

var _ embedClient = &embedClientMock{}

type embedClientMock struct {
	EmbedFunc func(ctx context.Context, model string, text string) ([]float32, error)

	calls struct {
		Embed []struct {
			Ctx   context.Context
			Model string
			Text  string
		}
	}
	lockEmbed sync.RWMutex
}

func (mock *embedClientMock) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	if mock.EmbedFunc == nil {
		panic("embedClientMock.EmbedFunc: method is nil but embedClient.Embed was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Model string
		Text  string
	}{Ctx: ctx, Model: model, Text: text}
	mock.lockEmbed.Lock()
	mock.calls.Embed = append(mock.calls.Embed, callInfo)
	mock.lockEmbed.Unlock()
	return mock.EmbedFunc(ctx, model, text)
}

func (mock *embedClientMock) EmbedCalls() []struct {
	Ctx   context.Context
	Model string
	Text  string
} {
	mock.lockEmbed.RLock()
	calls := mock.calls.Embed
	mock.lockEmbed.RUnlock()
	return calls
}
