package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/dualtrack-backend/internal/config"
	"github.com/heartmarshall/dualtrack-backend/internal/transport/middleware"
	"github.com/heartmarshall/dualtrack-backend/internal/transport/rest"
)

// handlers groups the REST handlers mounted by newRouter.
type handlers struct {
	health     *rest.HealthHandler
	public     *rest.PublicHandler
	clinician  *rest.ClinicianHandler
	audit      *rest.AuditHandler
	governance *rest.GovernanceHandler
}

// newRouter mounts every route and applies the global middleware chain.
// Public routes pass through publicLimit; reviewer mutations require the
// reviewer header.
func newRouter(log *slog.Logger, cors config.CORSConfig, h handlers, publicLimit middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.health.Live)
	mux.HandleFunc("GET /ready", h.health.Ready)
	mux.HandleFunc("GET /health", h.health.Health)

	public := func(fn http.HandlerFunc) http.Handler { return publicLimit(fn) }
	mux.Handle("POST /api/public/chat", public(h.public.Chat))
	mux.Handle("POST /api/public/pre-assessment", public(h.public.PreAssess))
	mux.Handle("POST /api/public/consent", public(h.public.Consent))
	mux.Handle("POST /api/public/transfer", public(h.public.Transfer))
	mux.Handle("GET /api/public/cases/{id}", public(h.public.Case))

	reviewer := func(fn http.HandlerFunc) http.Handler { return middleware.RequireReviewer(fn) }
	mux.Handle("POST /api/cases/{id}/complete", reviewer(h.clinician.Complete))
	mux.Handle("POST /api/cases/{id}/archive", reviewer(h.clinician.Archive))

	mux.HandleFunc("GET /api/clinician/queue", h.clinician.Queue)
	mux.HandleFunc("GET /api/clinician/templates", h.clinician.Templates)
	mux.Handle("POST /api/clinician/drafts", reviewer(h.clinician.Generate))
	mux.Handle("PUT /api/clinician/drafts/{id}", reviewer(h.clinician.Edit))
	mux.Handle("POST /api/clinician/drafts/{id}/sign", reviewer(h.clinician.Sign))
	mux.Handle("POST /api/clinician/drafts/{id}/write-back", reviewer(h.clinician.WriteBack))
	mux.HandleFunc("GET /api/clinician/drafts/{id}", h.clinician.Draft)
	mux.HandleFunc("GET /api/clinician/drafts/{id}/preview", h.clinician.Preview)
	mux.HandleFunc("GET /api/clinician/cases/{id}/drafts", h.clinician.CaseDrafts)

	mux.HandleFunc("GET /api/audit/events", h.audit.Events)
	mux.HandleFunc("GET /api/audit/events/{id}", h.audit.Event)
	mux.HandleFunc("GET /api/audit/stats", h.audit.Stats)
	mux.HandleFunc("GET /api/audit/actors", h.audit.Actors)
	mux.HandleFunc("GET /api/audit/policy-triggers", h.audit.PolicyTriggers)

	mux.HandleFunc("POST /api/governance/assess-risk", h.governance.AssessRisk)
	mux.HandleFunc("GET /api/governance/policies", h.governance.Policies)
	mux.HandleFunc("POST /api/retrieval/search", h.governance.Search)
	mux.HandleFunc("GET /api/monitor/summary", h.governance.Summary)

	return middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logger(log),
		middleware.CORS(cors),
		middleware.ReviewerIdentity,
	)(mux)
}
