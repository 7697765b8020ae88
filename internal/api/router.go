package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/api/handlers"
	"dsarportal/internal/api/middleware"
	"dsarportal/internal/pkg/errors"
	"dsarportal/internal/platform/auth"
	"dsarportal/internal/platform/models"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	AdminHandler   *handlers.AdminHandler
	OwnerHandler   *handlers.OwnerHandler
	DsarHandler    *handlers.DsarHandler
	PortalHandler  *handlers.PortalHandler
	WebhookHandler *handlers.WebhookHandler
	HealthHandler  *handlers.HealthHandler
	MetricsHandler *handlers.MetricsHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Public portal, keyed by company slug
	router.GET("/c/:slug", chain(deps.PortalHandler.GetCompany, middleware.RateLimit("public_read")))
	router.POST("/c/:slug/requests", chain(deps.PortalHandler.Submit, middleware.RateLimit("public_write")))

	// Authentication
	router.POST("/api/v1/auth/register", wrap(deps.AuthHandler.Register))
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/v1/auth/refresh", wrap(deps.AuthHandler.Refresh))
	router.POST("/api/v1/auth/reset-password", wrap(deps.AuthHandler.ResetPassword))
	router.GET("/api/v1/auth/exists", wrap(deps.AuthHandler.Exists))

	authMid := deps.AuthMiddleware

	// Admin dashboard: global visibility, ADMIN only
	router.GET("/api/v1/admin/dashboard",
		chain(deps.AdminHandler.Dashboard, authMid.Handle, requireRole(models.RoleAdmin)))
	router.GET("/api/v1/admin/companies",
		chain(deps.AdminHandler.ListCompanies, authMid.Handle, requireRole(models.RoleAdmin)))
	router.POST("/api/v1/admin/companies/:company_id/status",
		chain(deps.AdminHandler.UpdateCompanyStatus, authMid.Handle, requireRole(models.RoleAdmin)))
	router.GET("/api/v1/admin/dsars",
		chain(deps.AdminHandler.ListDsars, authMid.Handle, requireRole(models.RoleAdmin)))
	router.GET("/api/v1/admin/audit-logs",
		chain(deps.AdminHandler.ListAuditLogs, authMid.Handle, requireRole(models.RoleAdmin)))

	// Owner workspace: scoped to the acting owner's company
	router.POST("/api/v1/owner/company",
		chain(deps.OwnerHandler.RegisterCompany, authMid.Handle, requireRole(models.RoleOwner)))
	router.PATCH("/api/v1/owner/company",
		chain(deps.OwnerHandler.UpdateCompany, authMid.Handle, requireRole(models.RoleOwner)))
	router.GET("/api/v1/owner/dashboard",
		chain(deps.OwnerHandler.Dashboard, authMid.Handle, requireRole(models.RoleOwner)))
	router.POST("/api/v1/owner/billing/checkout",
		chain(deps.OwnerHandler.CreateCheckout, authMid.Handle, requireRole(models.RoleOwner)))

	// DSAR pipeline: any authenticated session
	router.PATCH("/api/v1/dsars/:dsar_id/status",
		chain(deps.DsarHandler.UpdateStatus, authMid.Handle))
	router.POST("/api/v1/dsars/:dsar_id/contact",
		chain(deps.DsarHandler.Contact, authMid.Handle))

	// Billing webhook
	router.POST("/api/v1/webhooks/stripe", wrap(deps.WebhookHandler.Handle))

	// Ops
	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
