package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/engine/companies"
	"dsarportal/internal/engine/dsar"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/pkg/errors"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
	"dsarportal/internal/platform/storage"
)

// PortalHandler serves the public, unauthenticated surface: the company page
// keyed by slug and the DSAR submission endpoint.
type PortalHandler struct {
	companyRepo *repositories.CompanyRepository
	dsarSvc     *dsar.Service
	uploads     *storage.Uploads
	views       *portal.Cache
	maxFileSize int64
}

func NewPortalHandler(companyRepo *repositories.CompanyRepository, dsarSvc *dsar.Service,
	uploads *storage.Uploads, views *portal.Cache, maxFileSize int64) *PortalHandler {
	return &PortalHandler{
		companyRepo: companyRepo,
		dsarSvc:     dsarSvc,
		uploads:     uploads,
		views:       views,
		maxFileSize: maxFileSize,
	}
}

type publicCompanyPage struct {
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Logo           *string `json:"logo,omitempty"`
	Field          string  `json:"field"`
	Representation string  `json:"representation"`
	PortalActive   bool    `json:"portal_active"`
}

// lookupApproved resolves a slug to its company, treating missing and
// not-yet-approved companies identically.
func (h *PortalHandler) lookupApproved(slug string) (*models.Company, error) {
	company, err := h.companyRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if company == nil || company.Status != companies.StatusApproved {
		return nil, nil
	}
	return company, nil
}

func (h *PortalHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	slug := params.ByName("slug")

	w.Header().Set("Content-Type", "application/json")

	if payload, ok := h.views.Get(portal.PublicPageKey(slug)); ok {
		w.Write(payload)
		return
	}

	company, err := h.lookupApproved(slug)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if company == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Company not found", nil)
		return
	}

	portalActive := company.SubscriptionStatus == "active" || company.SubscriptionStatus == "trialing"

	payload, err := json.Marshal(publicCompanyPage{
		Name:           company.Name,
		Slug:           slug,
		Logo:           company.Logo,
		Field:          company.Field,
		Representation: company.Representation,
		PortalActive:   portalActive,
	})
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to encode company page", nil)
		return
	}

	h.views.Set(portal.PublicPageKey(slug), payload)
	w.Write(payload)
}

// Submit accepts the anonymous multipart intake form and redirects back to
// the public page with a success indicator.
func (h *PortalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	slug := params.ByName("slug")

	company, err := h.lookupApproved(slug)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if company == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Company not found", nil)
		return
	}

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid multipart form", nil)
		return
	}

	var attachments []string
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["attachments"] {
			if header.Size == 0 {
				continue
			}
			file, err := header.Open()
			if err != nil {
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to read attachment", nil)
				return
			}
			path, err := h.uploads.Save(header.Filename, file)
			file.Close()
			if err != nil {
				log.Error().Err(err).Str("filename", header.Filename).Msg("attachment write failed")
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to store attachment", nil)
				return
			}
			attachments = append(attachments, path)
		}
	}

	submission := dsar.Submission{
		RequesterName:  r.FormValue("name"),
		RequesterEmail: r.FormValue("email"),
		RequesterPhone: r.FormValue("phone"),
		RequestText:    r.FormValue("request_details"),
		Attachments:    attachments,
	}

	if _, err := h.dsarSvc.Submit(company, submission); err != nil {
		if err == dsar.ErrInvalidSubmission {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodePersistence, "Failed to submit DSAR request", nil)
		return
	}

	http.Redirect(w, r, "/c/"+slug+"?success=true", http.StatusSeeOther)
}
