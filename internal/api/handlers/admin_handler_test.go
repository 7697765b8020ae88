package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsarportal/internal/engine/companies"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/platform/audit"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
)

type adminFixture struct {
	handler     *AdminHandler
	companyRepo *repositories.CompanyRepository
	dsarRepo    *repositories.DsarRepository
	views       *portal.Cache
}

func setupAdmin(t *testing.T) *adminFixture {
	db := setupHandlerDB(t)

	companyRepo := repositories.NewCompanyRepository(db)
	dsarRepo := repositories.NewDsarRepository(db)
	auditLog := audit.NewLogger(db)
	views := portal.NewCache(time.Minute)
	companySvc := companies.NewService(companyRepo, auditLog, views)

	return &adminFixture{
		handler:     NewAdminHandler(companySvc, companyRepo, dsarRepo, auditLog, views),
		companyRepo: companyRepo,
		dsarRepo:    dsarRepo,
		views:       views,
	}
}

func (f *adminFixture) seedCompanies(t *testing.T, statuses ...string) {
	now := time.Now().Unix()
	for i, status := range statuses {
		require.NoError(t, f.companyRepo.Create(&models.Company{
			ID:                 fmt.Sprintf("C%d", i),
			OwnerID:            fmt.Sprintf("usr_%d", i),
			Name:               fmt.Sprintf("Company %d", i),
			Status:             status,
			SubscriptionStatus: "inactive",
			CreatedAt:          now + int64(i),
			UpdatedAt:          now + int64(i),
		}))
	}
}

func TestAdminDashboardAggregates(t *testing.T) {
	f := setupAdmin(t)
	f.seedCompanies(t, "PENDING", "APPROVED", "PENDING", "REJECTED")

	now := time.Now().Unix()
	for i, status := range []string{"OPEN", "OPEN", "CLOSED"} {
		require.NoError(t, f.dsarRepo.Create(&models.DsarRequest{
			ID:             fmt.Sprintf("dsar_%d", i),
			CompanyID:      "C1",
			RequesterName:  "Jane Doe",
			RequesterEmail: "jane@example.com",
			RequestText:    "Access request.",
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}))
	}

	rec := httptest.NewRecorder()
	f.handler.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dashboard struct {
		PendingCompanies []*models.Company `json:"pending_companies"`
		Stats            struct {
			TotalCompanies int `json:"total_companies"`
			TotalRequests  int `json:"total_requests"`
			OpenRequests   int `json:"open_requests"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))

	assert.Len(t, dashboard.PendingCompanies, 2)
	assert.Equal(t, 4, dashboard.Stats.TotalCompanies)
	assert.Equal(t, 3, dashboard.Stats.TotalRequests)
	assert.Equal(t, 2, dashboard.Stats.OpenRequests)

	// The rendered view is now cached.
	_, cached := f.views.Get(portal.AdminDashboardKey)
	assert.True(t, cached)
}

func TestAdminDashboardServesCachedView(t *testing.T) {
	f := setupAdmin(t)
	f.views.Set(portal.AdminDashboardKey, []byte(`{"cached":true}`))

	rec := httptest.NewRecorder()
	f.handler.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cached":true}`, rec.Body.String())
}

func TestAdminListDsarsPaginationAndFilter(t *testing.T) {
	f := setupAdmin(t)
	f.seedCompanies(t, "APPROVED")

	now := time.Now().Unix()
	for i := 0; i < 12; i++ {
		status := "OPEN"
		if i%3 == 0 {
			status = "CLOSED"
		}
		require.NoError(t, f.dsarRepo.Create(&models.DsarRequest{
			ID:             fmt.Sprintf("dsar_%02d", i),
			CompanyID:      "C0",
			RequesterName:  "Jane Doe",
			RequesterEmail: "jane@example.com",
			RequestText:    "Access request.",
			Status:         status,
			CreatedAt:      now + int64(i),
			UpdatedAt:      now + int64(i),
		}))
	}

	rec := httptest.NewRecorder()
	f.handler.ListDsars(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dsars", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page dsarListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Requests, 10)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	// Newest first.
	assert.Equal(t, "dsar_11", page.Requests[0].ID)

	rec = httptest.NewRecorder()
	f.handler.ListDsars(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dsars?page=2", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Requests, 2)
	assert.Equal(t, 2, page.Page)

	rec = httptest.NewRecorder()
	f.handler.ListDsars(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dsars?status=CLOSED", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Requests, 4)
	for _, request := range page.Requests {
		assert.Equal(t, "CLOSED", request.Status)
	}
}

func TestAdminListCompanies(t *testing.T) {
	f := setupAdmin(t)
	f.seedCompanies(t, "PENDING", "APPROVED")

	rec := httptest.NewRecorder()
	f.handler.ListCompanies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/companies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var all []*models.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)
}
