package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/EricSteeles/Curb-Alert/internal/config"
	adminauthsvc "github.com/EricSteeles/Curb-Alert/internal/services/adminauth"
	analyticsvc "github.com/EricSteeles/Curb-Alert/internal/services/analytics"
	geosvc "github.com/EricSteeles/Curb-Alert/internal/services/geo"
	itemsvc "github.com/EricSteeles/Curb-Alert/internal/services/items"
	mediasvc "github.com/EricSteeles/Curb-Alert/internal/services/media"
	modsvc "github.com/EricSteeles/Curb-Alert/internal/services/moderation"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/handlers"
)

type Dependencies struct {
	ItemsService      *itemsvc.Service
	ModerationService *modsvc.Service
	AnalyticsService  *analyticsvc.Service
	GeoService        *geosvc.Service
	MediaService      *mediasvc.Service
	AdminAuthService  *adminauthsvc.Service
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	itemsHandler := handlers.NewItemsHandler(deps.ItemsService, deps.AnalyticsService, deps.Config.Remote.Search.DefaultRadiusMiles)
	reportHandler := handlers.NewReportHandler(deps.ModerationService)
	contactHandler := handlers.NewContactHandler(deps.ItemsService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	locationHandler := handlers.NewLocationHandler(deps.GeoService)
	adminHandler := handlers.NewAdminHandler(deps.AdminAuthService, deps.ModerationService)

	adminAuthMW := AdminAuthMiddleware(deps.AdminAuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/items", itemsHandler.List)
		r.Post("/items", itemsHandler.Create)
		r.Get("/items/{id}", itemsHandler.Get)
		r.Patch("/items/{id}", itemsHandler.Update)
		r.Delete("/items/{id}", itemsHandler.Delete)
		r.Post("/items/{id}/status", itemsHandler.SetStatus)
		r.Get("/items/{id}/contact", contactHandler.Options)
		r.Post("/items/{id}/report", reportHandler.Create)
		r.Post("/media/images", mediaHandler.UploadImages)
		r.Post("/location/nearest", locationHandler.NearestCity)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(adminAuthMW)
			r.Post("/logout", adminHandler.Logout)
			r.Get("/reports", adminHandler.ReportsList)
			r.Post("/reports/{id}/review", adminHandler.ReviewReport)
			r.Get("/items/flagged", adminHandler.FlaggedItems)
			r.Post("/items/{id}/flag", adminHandler.FlagItem)
			r.Delete("/items/{id}", adminHandler.DeleteItem)
			r.Get("/stats", adminHandler.Stats)
		})
	})
}
