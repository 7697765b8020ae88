package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/engine/billing"
	"dsarportal/internal/engine/companies"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/pkg/errors"
	"dsarportal/internal/platform/auth"
	"dsarportal/internal/platform/config"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
	"dsarportal/internal/platform/storage"
)

const ownerPageSize = 5

type OwnerHandler struct {
	companyRepo *repositories.CompanyRepository
	dsarRepo    *repositories.DsarRepository
	uploads     *storage.Uploads
	billing     *billing.Client
	views       *portal.Cache
	appCfg      config.AppConfig
	maxFileSize int64
}

func NewOwnerHandler(companyRepo *repositories.CompanyRepository, dsarRepo *repositories.DsarRepository,
	uploads *storage.Uploads, billingClient *billing.Client, views *portal.Cache,
	appCfg config.AppConfig, uploadsCfg config.UploadsConfig) *OwnerHandler {
	return &OwnerHandler{
		companyRepo: companyRepo,
		dsarRepo:    dsarRepo,
		uploads:     uploads,
		billing:     billingClient,
		views:       views,
		appCfg:      appCfg,
		maxFileSize: uploadsCfg.MaxFileSize,
	}
}

// RegisterCompany creates the owner's single PENDING company from a
// multipart form, persisting the logo when one is attached.
func (h *OwnerHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid multipart form", nil)
		return
	}

	existing, err := h.companyRepo.GetByOwnerID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Owner already has a company", nil)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Company name is required", nil)
		return
	}
	employeesCount, _ := strconv.Atoi(r.FormValue("employees_count"))

	logo, err := h.saveLogo(r)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to store logo", nil)
		return
	}

	now := time.Now().Unix()
	company := &models.Company{
		ID:                 "co_" + uuid.NewString(),
		OwnerID:            claims.UserID,
		Name:               name,
		Email:              r.FormValue("email"),
		Phone:              r.FormValue("phone"),
		Address:            r.FormValue("address"),
		EmployeesCount:     employeesCount,
		Field:              r.FormValue("field"),
		Representation:     r.FormValue("representation"),
		Logo:               logo,
		Status:             companies.StatusPending,
		SubscriptionStatus: "inactive",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := h.companyRepo.Create(company); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to create company", nil)
		return
	}

	h.views.Invalidate(portal.AdminDashboardKey, portal.OwnerDashboardKey(company.ID))

	log.Info().Str("company_id", company.ID).Str("owner_id", claims.UserID).Msg("company registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(company)
}

// UpdateCompany edits profile fields only; approval status, slug and
// subscription linkage are never touched here.
func (h *OwnerHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid multipart form", nil)
		return
	}

	company, err := h.companyRepo.GetByOwnerID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if company == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Company not found", nil)
		return
	}

	if v := r.FormValue("name"); v != "" {
		company.Name = v
	}
	if v := r.FormValue("phone"); v != "" {
		company.Phone = v
	}
	if v := r.FormValue("address"); v != "" {
		company.Address = v
	}
	if v := r.FormValue("employees_count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			company.EmployeesCount = n
		}
	}
	if v := r.FormValue("field"); v != "" {
		company.Field = v
	}
	if v := r.FormValue("representation"); v != "" {
		company.Representation = v
	}

	logo, err := h.saveLogo(r)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to store logo", nil)
		return
	}
	if logo != nil {
		company.Logo = logo
	}

	if err := h.companyRepo.UpdateProfile(company); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to update company", nil)
		return
	}

	keys := []string{portal.OwnerDashboardKey(company.ID)}
	if company.Slug != nil {
		keys = append(keys, portal.PublicPageKey(*company.Slug))
	}
	h.views.Invalidate(keys...)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(company)
}

func (h *OwnerHandler) saveLogo(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("logo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	path, err := h.uploads.Save(header.Filename, file)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

type ownerDashboard struct {
	Company              *models.Company       `json:"company"`
	RegistrationRequired bool                  `json:"registration_required"`
	Requests             []*models.DsarRequest `json:"requests"`
	Total                int                   `json:"total"`
	Page                 int                   `json:"page"`
	TotalPages           int                   `json:"total_pages"`
}

// Dashboard scopes everything by the acting owner. An owner without a
// company gets a registration prompt, not an error. Only the default view
// (first page, no filter) is cached.
func (h *OwnerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)
	page := parsePage(r)
	status := r.URL.Query().Get("status")

	w.Header().Set("Content-Type", "application/json")

	company, err := h.companyRepo.GetByOwnerID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if company == nil {
		json.NewEncoder(w).Encode(ownerDashboard{
			RegistrationRequired: true,
			Requests:             []*models.DsarRequest{},
		})
		return
	}

	defaultView := page == 1 && status == ""
	if defaultView {
		if payload, ok := h.views.Get(portal.OwnerDashboardKey(company.ID)); ok {
			w.Write(payload)
			return
		}
	}

	filter := repositories.DsarFilter{CompanyID: company.ID, Status: status}
	requests, err := h.dsarRepo.List(filter, ownerPageSize, (page-1)*ownerPageSize)
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
	payload, err := json.Marshal(ownerDashboard{
		Company:    company,
		Requests:   requests,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, ownerPageSize),
	})
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to encode dashboard", nil)
		return
	}

	if defaultView {
		h.views.Set(portal.OwnerDashboardKey(company.ID), payload)
	}
	w.Write(payload)
}

// CreateCheckout starts the subscription checkout for the owner's company
// and returns the provider-hosted payment URL.
func (h *OwnerHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	company, err := h.companyRepo.GetByOwnerID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if company == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Company not found", nil)
		return
	}

	session, err := h.billing.CreateCheckoutSession(r.Context(), billing.CheckoutParams{
		CompanyID:     company.ID,
		CustomerEmail: claims.Email,
		SuccessURL:    h.appCfg.BaseURL + "/owner?success=true",
		CancelURL:     h.appCfg.BaseURL + "/owner?canceled=true",
	})
	if err != nil {
		log.Error().Err(err).Str("company_id", company.ID).Msg("checkout session creation failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create checkout session", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": session.URL})
}
