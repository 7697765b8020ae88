package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/engine/companies"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/pkg/errors"
	"dsarportal/internal/platform/audit"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
)

const adminPageSize = 10

type AdminHandler struct {
	companySvc  *companies.Service
	companyRepo *repositories.CompanyRepository
	dsarRepo    *repositories.DsarRepository
	auditLog    *audit.Logger
	views       *portal.Cache
}

func NewAdminHandler(companySvc *companies.Service, companyRepo *repositories.CompanyRepository,
	dsarRepo *repositories.DsarRepository, auditLog *audit.Logger, views *portal.Cache) *AdminHandler {
	return &AdminHandler{
		companySvc:  companySvc,
		companyRepo: companyRepo,
		dsarRepo:    dsarRepo,
		auditLog:    auditLog,
		views:       views,
	}
}

type adminDashboard struct {
	PendingCompanies []*models.Company `json:"pending_companies"`
	Stats            adminStats        `json:"stats"`
}

type adminStats struct {
	TotalCompanies int `json:"total_companies"`
	TotalRequests  int `json:"total_requests"`
	OpenRequests   int `json:"open_requests"`
}

// Dashboard serves the cached admin overview: the approval queue plus
// aggregate counters. Invalidated by company decisions and DSAR transitions.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if payload, ok := h.views.Get(portal.AdminDashboardKey); ok {
		w.Write(payload)
		return
	}

	pending, err := h.companyRepo.ListByStatus(companies.StatusPending)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	totalCompanies, err := h.companyRepo.Count()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	totalRequests, err := h.dsarRepo.Count(repositories.DsarFilter{})
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	openRequests, err := h.dsarRepo.Count(repositories.DsarFilter{Status: "OPEN"})
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	if pending == nil {
		pending = []*models.Company{}
	}
	payload, err := json.Marshal(adminDashboard{
		PendingCompanies: pending,
		Stats: adminStats{
			TotalCompanies: totalCompanies,
			TotalRequests:  totalRequests,
			OpenRequests:   openRequests,
		},
	})
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to encode dashboard", nil)
		return
	}

	h.views.Set(portal.AdminDashboardKey, payload)
	w.Write(payload)
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	all, err := h.companyRepo.ListAll()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if all == nil {
		all = []*models.Company{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

type UpdateCompanyStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateCompanyStatus(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	companyID := params.ByName("company_id")

	var req UpdateCompanyStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	company, err := h.companySvc.UpdateStatus(r.Context(), companyID, req.Status)
	if err != nil {
		switch err {
		case companies.ErrNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Company not found", nil)
		case companies.ErrInvalidStatus:
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Status must be APPROVED or REJECTED", nil)
		case companies.ErrInvalidTransition:
			errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Company decision is already final", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to update company", nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(company)
}

type dsarListResponse struct {
	Requests   []*models.DsarRequest `json:"requests"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
}

// ListDsars is the unscoped admin view of the request ledger, paginated with
// an optional status filter.
func (h *AdminHandler) ListDsars(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	filter := repositories.DsarFilter{Status: r.URL.Query().Get("status")}

	requests, err := h.dsarRepo.List(filter, adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	total, err := h.dsarRepo.Count(filter)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	if requests == nil {
		requests = []*models.DsarRequest{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dsarListResponse{
		Requests:   requests,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, adminPageSize),
	})
}

func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.auditLog.List(100)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}
