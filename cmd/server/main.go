package main

import (
	"fmt"
	"log"
	"net/http"

	"dsarportal/internal/api"
	"dsarportal/internal/api/handlers"
	"dsarportal/internal/api/middleware"
	"dsarportal/internal/engine/billing"
	"dsarportal/internal/engine/companies"
	"dsarportal/internal/engine/dsar"
	"dsarportal/internal/engine/notify"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/pkg/logger"
	"dsarportal/internal/platform/audit"
	"dsarportal/internal/platform/auth"
	"dsarportal/internal/platform/config"
	"dsarportal/internal/platform/database"
	"dsarportal/internal/platform/repositories"
	"dsarportal/internal/platform/storage"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	uploads, err := storage.NewUploads(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	dsarRepo := repositories.NewDsarRepository(db)

	// Platform services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLog := audit.NewLogger(db)
	views := portal.NewCache(cfg.Cache.ViewTTL)
	mailer := notify.NewMailer(cfg.Email)
	billingClient := billing.NewClient(cfg.Billing)

	// Engines
	companySvc := companies.NewService(companyRepo, auditLog, views)
	dsarSvc := dsar.NewService(dsarRepo, companyRepo, auditLog, mailer, views)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	adminHandler := handlers.NewAdminHandler(companySvc, companyRepo, dsarRepo, auditLog, views)
	ownerHandler := handlers.NewOwnerHandler(companyRepo, dsarRepo, uploads, billingClient, views, cfg.App, cfg.Uploads)
	dsarHandler := handlers.NewDsarHandler(dsarSvc)
	portalHandler := handlers.NewPortalHandler(companyRepo, dsarSvc, uploads, views, cfg.Uploads.MaxFileSize)
	webhookHandler := handlers.NewWebhookHandler(companyRepo, cfg.Billing)
	healthHandler := handlers.NewHealthHandler(db)
	metricsHandler := handlers.NewMetricsHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	// Router
	deps := &api.Dependencies{
		AuthHandler:    authHandler,
		AdminHandler:   adminHandler,
		OwnerHandler:   ownerHandler,
		DsarHandler:    dsarHandler,
		PortalHandler:  portalHandler,
		WebhookHandler: webhookHandler,
		HealthHandler:  healthHandler,
		MetricsHandler: metricsHandler,
		AuthMiddleware: authMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
