package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/casework"
	"github.com/heartmarshall/dualtrack-backend/internal/service/drafting"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type draftService interface {
	Generate(ctx context.Context, input drafting.GenerateInput) (*domain.Draft, error)
	Edit(ctx context.Context, input drafting.EditInput) (*domain.Draft, error)
	Sign(ctx context.Context, input drafting.SignInput) (*domain.Draft, error)
	WriteBack(ctx context.Context, input drafting.WriteBackInput) (*domain.Draft, error)
	Get(ctx context.Context, draftID string) (*domain.Draft, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Draft, error)
	Preview(ctx context.Context, draftID string) (string, error)
	Templates() []domain.Template
}

// ClinicianHandler serves the reviewer track.
type ClinicianHandler struct {
	drafts draftService
	cases  caseService
	log    *slog.Logger
}

// NewClinicianHandler creates a ClinicianHandler.
func NewClinicianHandler(drafts draftService, cases caseService, logger *slog.Logger) *ClinicianHandler {
	return &ClinicianHandler{drafts: drafts, cases: cases, log: logger.With("handler", "clinician")}
}

func reviewerID(r *http.Request) string {
	id, _ := ctxutil.ReviewerIDFromCtx(r.Context())
	return id
}

// Queue handles GET /api/clinician/queue.
func (h *ClinicianHandler) Queue(w http.ResponseWriter, r *http.Request) {
	items, err := h.cases.Queue(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": items, "total": len(items)})
}

// Templates handles GET /api/clinician/templates.
func (h *ClinicianHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": h.drafts.Templates()})
}

// Complete handles POST /api/cases/{id}/complete.
func (h *ClinicianHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.moveCase(w, r, h.cases.Complete)
}

// Archive handles POST /api/cases/{id}/archive.
func (h *ClinicianHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.moveCase(w, r, h.cases.Archive)
}

func (h *ClinicianHandler) moveCase(
	w http.ResponseWriter,
	r *http.Request,
	move func(context.Context, casework.StatusInput) (*domain.Case, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	c, err := move(r.Context(), casework.StatusInput{CaseID: id, ReviewerID: reviewerID(r)})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type generateRequest struct {
	CaseID       string            `json:"case_id"`
	TemplateType string            `json:"template_type"`
	Context      map[string]string `json:"context"`
	TopK         int               `json:"top_k"`
	Category     string            `json:"category"`
}

// Generate handles POST /api/clinician/drafts.
func (h *ClinicianHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fault, ok := faultPolicy(w, r)
	if !ok {
		return
	}
	caseID, err := uuid.Parse(req.CaseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid case_id")
		return
	}

	d, err := h.drafts.Generate(r.Context(), drafting.GenerateInput{
		CaseID:       caseID,
		TemplateType: req.TemplateType,
		Context:      req.Context,
		TopK:         req.TopK,
		Category:     req.Category,
		Fault:        fault,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

type editRequest struct {
	Content string `json:"edited_content"`
	Notes   string `json:"edit_notes"`
}

// Edit handles PUT /api/clinician/drafts/{id}.
func (h *ClinicianHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.drafts.Edit(r.Context(), drafting.EditInput{
		DraftID:    r.PathValue("id"),
		Content:    req.Content,
		Notes:      req.Notes,
		ReviewerID: reviewerID(r),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Sign handles POST /api/clinician/drafts/{id}/sign. The reviewer id is the signer.
func (h *ClinicianHandler) Sign(w http.ResponseWriter, r *http.Request) {
	d, err := h.drafts.Sign(r.Context(), drafting.SignInput{DraftID: r.PathValue("id"), SignerID: reviewerID(r)})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// WriteBack handles POST /api/clinician/drafts/{id}/write-back.
func (h *ClinicianHandler) WriteBack(w http.ResponseWriter, r *http.Request) {
	d, err := h.drafts.WriteBack(r.Context(), drafting.WriteBackInput{DraftID: r.PathValue("id"), ReviewerID: reviewerID(r)})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Draft handles GET /api/clinician/drafts/{id}.
func (h *ClinicianHandler) Draft(w http.ResponseWriter, r *http.Request) {
	d, err := h.drafts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Preview handles GET /api/clinician/drafts/{id}/preview.
func (h *ClinicianHandler) Preview(w http.ResponseWriter, r *http.Request) {
	html, err := h.drafts.Preview(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// CaseDrafts handles GET /api/clinician/cases/{id}/drafts.
func (h *ClinicianHandler) CaseDrafts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	drafts, err := h.drafts.ListByCase(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"case_id": id, "drafts": drafts, "total": len(drafts)})
}
