package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/retrieval"
	"github.com/heartmarshall/dualtrack-backend/internal/service/risk"
)

type riskService interface {
	Assess(ctx context.Context, input risk.AssessInput) (domain.RiskAssessment, error)
}

type evidenceSearcher interface {
	Search(ctx context.Context, q retrieval.Query) ([]domain.EvidenceRef, error)
	DefaultTopK() int
}

type perfMonitor interface {
	Summary(ctx context.Context, since *time.Time) (*domain.PerfSummary, error)
}

// GovernanceHandler serves risk assessment, the policy catalogue, debug
// evidence search and the inference run summary.
type GovernanceHandler struct {
	risk      riskService
	retrieval evidenceSearcher
	monitor   perfMonitor
	log       *slog.Logger
}

// NewGovernanceHandler creates a GovernanceHandler.
func NewGovernanceHandler(risk riskService, retrieval evidenceSearcher, monitor perfMonitor, logger *slog.Logger) *GovernanceHandler {
	return &GovernanceHandler{risk: risk, retrieval: retrieval, monitor: monitor, log: logger.With("handler", "governance")}
}

type assessRequest struct {
	Text          string `json:"text"`
	SeverityScore *int   `json:"severity_score"`
	CaseID        string `json:"case_id"`
}

// AssessRisk handles POST /api/governance/assess-risk.
func (h *GovernanceHandler) AssessRisk(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caseID, err := parseUUIDPtr(req.CaseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid case_id")
		return
	}

	assessment, err := h.risk.Assess(r.Context(), risk.AssessInput{
		Text:          req.Text,
		SeverityScore: req.SeverityScore,
		CaseID:        caseID,
		Source:        risk.SourceGovernanceAPI,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// Policies handles GET /api/governance/policies.
func (h *GovernanceHandler) Policies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"policies": domain.Policies})
}

type searchRequest struct {
	Query    string `json:"query"`
	TopK     int    `json:"top_k"`
	Category string `json:"category"`
}

// Search handles POST /api/retrieval/search.
func (h *GovernanceHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fault, ok := faultPolicy(w, r)
	if !ok {
		return
	}
	if req.TopK <= 0 {
		req.TopK = h.retrieval.DefaultTopK()
	}

	evidence, err := h.retrieval.Search(r.Context(), retrieval.Query{
		Text:     req.Query,
		K:        req.TopK,
		Category: req.Category,
		Fault:    fault,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if evidence == nil {
		evidence = []domain.EvidenceRef{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": req.Query, "evidence": evidence})
}

// Summary handles GET /api/monitor/summary?since=<RFC 3339>.
func (h *GovernanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, domain.CodeValidation, "since must be RFC 3339")
			return
		}
		since = &ts
	}

	summary, err := h.monitor.Summary(r.Context(), since)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
