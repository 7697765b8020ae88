package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/engine/dsar"
	"dsarportal/internal/pkg/errors"
)

type DsarHandler struct {
	svc *dsar.Service
}

func NewDsarHandler(svc *dsar.Service) *DsarHandler {
	return &DsarHandler{svc: svc}
}

type UpdateDsarStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus advances a request one step along the pipeline. Any
// authenticated session may call this regardless of which company the
// request belongs to.
func (h *DsarHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	dsarID := params.ByName("dsar_id")

	var req UpdateDsarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	request, err := h.svc.UpdateStatus(r.Context(), dsarID, req.Status)
	if err != nil {
		switch err {
		case dsar.ErrNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "DSAR request not found", nil)
		case dsar.ErrInvalidStatus:
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unknown status value", nil)
		case dsar.ErrInvalidTransition:
			errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Status can only advance to the next pipeline step", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to update DSAR status", nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(request)
}

type ContactRequesterRequest struct {
	Message string `json:"message"`
}

func (h *DsarHandler) Contact(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	dsarID := params.ByName("dsar_id")

	var req ContactRequesterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Message == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Message is required", nil)
		return
	}

	if err := h.svc.Contact(r.Context(), dsarID, req.Message); err != nil {
		if err == dsar.ErrNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "DSAR request not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to contact requester", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
