package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// FaultHeader carries a per-request fault injection list.
const FaultHeader = "X-Fault-Injection"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	Fields      []domain.FieldError `json:"fields,omitempty"`
	Policy      string              `json:"policy,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Conditions  []string            `json:"conditions,omitempty"`
	Remediation string              `json:"remediation,omitempty"`
	Detail      any                 `json:"detail,omitempty"`
	From        string              `json:"from,omitempty"`
	To          string              `json:"to,omitempty"`
	RawOutput   string              `json:"raw_output,omitempty"`
	Problems    []string            `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// errorStatus maps an error to its HTTP status and body. Order matters:
// retrieval is checked before inference because a failed embed call
// matches both.
func errorStatus(err error) (int, errorDetail) {
	var (
		denial *domain.PolicyDenial
		terr   *domain.TransitionError
		verr   *domain.ValidationError
		serr   *domain.SchemaError
	)
	switch {
	// A failed ledger write outranks the typed error it may wrap.
	case errors.Is(err, domain.ErrLedgerWriteFailed):
		return http.StatusInternalServerError, errorDetail{Code: domain.CodeLedgerWriteFailed, Message: "audit ledger write failed"}
	case errors.As(err, &denial):
		return http.StatusUnprocessableEntity, errorDetail{
			Code:        denial.Code(),
			Message:     denial.Reason,
			Policy:      denial.Policy,
			Reason:      denial.Reason,
			Conditions:  denial.Conditions,
			Remediation: denial.Remediation,
			Detail:      denial.Detail,
		}
	case errors.As(err, &terr):
		return http.StatusConflict, errorDetail{Code: terr.Code(), Message: terr.Error(), From: terr.From, To: terr.To}
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorDetail{Code: domain.CodeValidation, Message: verr.Error(), Fields: verr.Errors}
	case errors.As(err, &serr):
		return http.StatusUnprocessableEntity, errorDetail{
			Code: serr.Code(), Message: "structured output failed schema validation",
			RawOutput: serr.RawOutput, Problems: serr.Problems,
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorDetail{Code: domain.CodeNotFound, Message: "not found"}
	case errors.Is(err, domain.ErrSignInProgress):
		return http.StatusConflict, errorDetail{Code: domain.CodeSignInProgress, Message: "sign already in progress"}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, errorDetail{Code: domain.CodeConflict, Message: "conflict"}
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		return http.StatusServiceUnavailable, errorDetail{Code: domain.CodeRetrievalUnavail, Message: "evidence retrieval unavailable"}
	case errors.Is(err, domain.ErrInferenceUnavailable):
		detail := errorDetail{Code: domain.CodeInferenceUnavail, Message: "inference service unavailable"}
		var ierr *domain.InferenceError
		if errors.As(err, &ierr) {
			detail.Reason = ierr.Code
		}
		return http.StatusBadGateway, detail
	default:
		return http.StatusInternalServerError, errorDetail{Code: domain.CodeInternal, Message: "internal server error"}
	}
}

// handleError writes err and logs the ones that are not the caller's fault.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, detail := errorStatus(err)
	if status >= 500 {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("code", detail.Code),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
		return false
	}
	return true
}

// faultPolicy parses X-Fault-Injection. An unparsable header is a 400.
func faultPolicy(w http.ResponseWriter, r *http.Request) (domain.FaultPolicy, bool) {
	p, err := domain.ParseFaultPolicy(r.Header.Get(FaultHeader))
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, err.Error())
		return domain.FaultPolicy{}, false
	}
	return p, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDPtr(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
