package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dhs-checker/internal/application/port/input"
	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
)

// maxBatchIDs bounds one upload. A batch is strictly sequential over one
// browser session, so a huge file would hold that session for hours.
const maxBatchIDs = 500

// Handler is the thin HTTP layer: decode, validate, delegate to the checker,
// encode. Portal credentials are injected once at startup; they never travel
// in requests.
type Handler struct {
	checker input.IDChecker
	creds   entity.Credentials
	logger  output.LoggerPort
}

func NewHandler(checker input.IDChecker, creds entity.Credentials, logger output.LoggerPort) *Handler {
	return &Handler{
		checker: checker,
		creds:   creds,
		logger:  logger,
	}
}

type checkRequest struct {
	IDs []string `json:"ids"`
}

type checkResponse struct {
	Results []entity.Result `json:"results"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClientError(w, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeClientError(w, "ids are required")
		return
	}
	if len(req.IDs) > maxBatchIDs {
		writeClientError(w, "too many ids in one batch")
		return
	}
	for i := range req.IDs {
		req.IDs[i] = strings.TrimSpace(req.IDs[i])
		if req.IDs[i] == "" {
			writeClientError(w, "ids contain an empty value")
			return
		}
	}

	results, err := h.checker.CheckIDs(r.Context(), req.IDs, h.creds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Results: results})
}

func (h *Handler) handleCheckOne(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeClientError(w, "id is required")
		return
	}

	result, err := h.checker.CheckID(r.Context(), id, h.creds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpload accepts a multipart CSV or XLSX file of ID numbers, matching
// the original service's contract.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeClientError(w, "multipart 'file' field is required")
		return
	}
	defer file.Close()

	ids, err := idsFromUpload(header.Filename, file)
	if err != nil {
		writeClientError(w, err.Error())
		return
	}
	if len(ids) == 0 {
		writeClientError(w, "no ID numbers found in file")
		return
	}
	if len(ids) > maxBatchIDs {
		writeClientError(w, "too many ids in one batch")
		return
	}

	results, err := h.checker.CheckIDs(r.Context(), ids, h.creds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Results: results})
}

// writeError translates the domain error taxonomy into distinct status codes
// so callers can tell a misconfigured service from a portal outage.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingCredentials):
		h.logger.Error("check rejected: credentials not configured")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "credentials_not_configured"})
	case errors.Is(err, entity.ErrAuthentication):
		h.logger.Error("portal authentication failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "portal_authentication_failed"})
	case errors.Is(err, entity.ErrBatchAborted):
		h.logger.Warn("batch aborted", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "batch_aborted"})
	default:
		h.logger.Error("check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeClientError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
