package intake

import (
	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"sync"
)

var _ riskAssessor = &riskAssessorMock{}

type riskAssessorMock struct {
	AssessFunc func(text string, severity *int) domain.RiskAssessment

	calls struct {
		Assess []struct {
			Text     string
			Severity *int
		}
	}
	lockAssess sync.RWMutex
}

func (mock *riskAssessorMock) Assess(text string, severity *int) domain.RiskAssessment {
	if mock.AssessFunc == nil {
		panic("riskAssessorMock.AssessFunc: method is nil but riskAssessor.Assess was just called")
	}
	callInfo := struct {
		Text     string
		Severity *int
	}{Text: text, Severity: severity}
	mock.lockAssess.Lock()
	mock.calls.Assess = append(mock.calls.Assess, callInfo)
	mock.lockAssess.Unlock()
	return mock.AssessFunc(text, severity)
}

func (mock *riskAssessorMock) AssessCalls() []struct {
	Text     string
	Severity *int
} {
	mock.lockAssess.RLock()
	calls := mock.calls.Assess
	mock.lockAssess.RUnlock()
	return calls
}
