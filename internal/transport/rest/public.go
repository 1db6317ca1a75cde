package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/casework"
	"github.com/heartmarshall/dualtrack-backend/internal/service/intake"
)

type intakeService interface {
	Chat(ctx context.Context, input intake.ChatInput) (*intake.ChatResult, error)
	PreAssess(ctx context.Context, input intake.PreAssessInput) (*intake.PreAssessResult, error)
	RecordConsent(ctx context.Context, input intake.ConsentInput) (*domain.Consent, error)
}

type caseService interface {
	Transfer(ctx context.Context, input casework.TransferInput) (*domain.Case, error)
	Get(ctx context.Context, caseID uuid.UUID) (*domain.CaseDetail, error)
	Queue(ctx context.Context) ([]domain.QueueItem, error)
	Complete(ctx context.Context, input casework.StatusInput) (*domain.Case, error)
	Archive(ctx context.Context, input casework.StatusInput) (*domain.Case, error)
}

// PublicHandler serves the anonymous end-user track.
type PublicHandler struct {
	intake intakeService
	cases  caseService
	log    *slog.Logger
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(intake intakeService, cases caseService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{intake: intake, cases: cases, log: logger.With("handler", "public")}
}

type chatRequest struct {
	CaseID  string `json:"case_id"`
	Message string `json:"message"`
}

// Chat handles POST /api/public/chat.
// A failed reply still returns the case and risk assessment alongside the error.
func (h *PublicHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fault, ok := faultPolicy(w, r)
	if !ok {
		return
	}
	caseID, err := parseUUIDPtr(req.CaseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid case_id")
		return
	}

	result, err := h.intake.Chat(r.Context(), intake.ChatInput{CaseID: caseID, Message: req.Message, Fault: fault})
	if err != nil {
		var unavailable *intake.ReplyUnavailableError
		if errors.As(err, &unavailable) && unavailable.Result != nil {
			status, detail := errorStatus(err)
			writeJSON(w, status, struct {
				errorBody
				Result *intake.ChatResult `json:"result"`
			}{errorBody{Error: detail}, unavailable.Result})
			return
		}
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type preAssessRequest struct {
	CaseID              string `json:"case_id"`
	ConversationSummary string `json:"conversation_summary"`
}

// PreAssess handles POST /api/public/pre-assessment.
func (h *PublicHandler) PreAssess(w http.ResponseWriter, r *http.Request) {
	var req preAssessRequest
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

	result, err := h.intake.PreAssess(r.Context(), intake.PreAssessInput{
		CaseID:              caseID,
		ConversationSummary: req.ConversationSummary,
		Fault:               fault,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type consentRequest struct {
	CaseID    string   `json:"case_id"`
	CapsuleID string   `json:"capsule_id"`
	Confirmed bool     `json:"consent_confirmed"`
	Scope     []string `json:"consent_scope"`
}

// Consent handles POST /api/public/consent.
func (h *PublicHandler) Consent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caseID, err := uuid.Parse(req.CaseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid case_id")
		return
	}

	consent, err := h.intake.RecordConsent(r.Context(), intake.ConsentInput{
		CaseID:    caseID,
		CapsuleID: req.CapsuleID,
		Confirmed: req.Confirmed,
		Scope:     req.Scope,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, consent)
}

type transferRequest struct {
	CaseID    string `json:"case_id"`
	CapsuleID string `json:"capsule_id"`
}

// Transfer handles POST /api/public/transfer.
func (h *PublicHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caseID, err := uuid.Parse(req.CaseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid case_id")
		return
	}

	c, err := h.cases.Transfer(r.Context(), casework.TransferInput{CaseID: caseID, CapsuleID: req.CapsuleID})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Case handles GET /api/public/cases/{id}.
func (h *PublicHandler) Case(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.cases.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
