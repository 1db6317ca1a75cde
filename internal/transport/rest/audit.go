package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
)

type ledgerService interface {
	Query(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error)
	PolicyTriggers(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error)
	Get(ctx context.Context, id int64) (*domain.AuditEvent, error)
	Stats(ctx context.Context) (domain.AuditStats, error)
	Actors(ctx context.Context) ([]domain.ActorSummary, error)
}

// AuditHandler serves read access to the audit ledger.
type AuditHandler struct {
	ledger ledgerService
	log    *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(ledger ledgerService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{ledger: ledger, log: logger.With("handler", "audit")}
}

// Events handles GET /api/audit/events.
// Filters: track, event_type, actor, actor_category, risk_level, case_id, draft_id,
// since, until (RFC 3339), order=asc, limit, offset.
func (h *AuditHandler) Events(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	page, err := h.ledger.Query(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PolicyTriggers handles GET /api/audit/policy-triggers.
func (h *AuditHandler) PolicyTriggers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	page, err := h.ledger.PolicyTriggers(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Event handles GET /api/audit/events/{id}.
func (h *AuditHandler) Event(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid id")
		return
	}
	event, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Stats handles GET /api/audit/stats.
func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Stats(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Actors handles GET /api/audit/actors.
func (h *AuditHandler) Actors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.ledger.Actors(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actors": actors, "total": len(actors)})
}

// parseAuditFilter reads query parameters. Enum values are checked by the ledger service.
func parseAuditFilter(r *http.Request) (domain.AuditFilter, error) {
	q := r.URL.Query()
	var (
		f    domain.AuditFilter
		errs []domain.FieldError
	)

	if v := q.Get("track"); v != "" {
		t := domain.Track(v)
		f.Track = &t
	}
	if v := q.Get("event_type"); v != "" {
		t := domain.EventType(v)
		f.EventType = &t
	}
	if v := q.Get("actor"); v != "" {
		f.Actor = &v
	}
	if v := q.Get("actor_category"); v != "" {
		c := domain.ActorCategory(v)
		f.ActorCategory = &c
	}
	if v := q.Get("risk_level"); v != "" {
		f.RiskLevel = domain.Risk(domain.RiskLevel(v))
	}
	if v := q.Get("draft_id"); v != "" {
		f.DraftID = &v
	}
	if caseID, err := parseUUIDPtr(q.Get("case_id")); err != nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "invalid uuid"})
	} else {
		f.CaseID = caseID
	}
	for _, tp := range []struct {
		key string
		dst **time.Time
	}{{"since", &f.Since}, {"until", &f.Until}} {
		v := q.Get(tp.key)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: tp.key, Message: "must be RFC 3339"})
			continue
		}
		*tp.dst = &ts
	}
	f.Ascending = q.Get("order") == "asc"

	var err error
	if f.Limit, err = queryInt(r, "limit", 0); err != nil || f.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be a non-negative integer"})
	}
	if f.Offset, err = queryInt(r, "offset", 0); err != nil || f.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be a non-negative integer"})
	}

	if len(errs) > 0 {
		return domain.AuditFilter{}, domain.NewValidationErrors(errs)
	}
	return f, nil
}
