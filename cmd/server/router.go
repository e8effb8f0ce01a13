package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hrtrack/hrtrack-api/internal/api"
	apiMiddleware "github.com/hrtrack/hrtrack-api/internal/api/middleware"
)

// newRouter builds the chi router with every route and middleware.
func newRouter(s routerServices, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	authHandler := api.NewAuthHandler(s.users, s.jwtService, s.passwordVerifier, s.authConfig, logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(s.jwtService)

	pkHandler := api.NewPKHandler(s.model, logger)
	doseHandler := api.NewDoseHandler(s.doses, logger)
	labHandler := api.NewLabHandler(s.labs, logger)
	profileHandler := api.NewProfileHandler(s.profiles, logger)
	simulationHandler := api.NewSimulationHandler(s.simulation, logger)
	transferHandler := api.NewTransferHandler(s.transfer, logger)
	backupHandler := api.NewBackupHandler(s.backups, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Reference data, no user state
		r.Route("/pk", func(r chi.Router) {
			r.Get("/factor", pkHandler.GetFactor)
			r.Get("/convert", pkHandler.GetConversion)
			r.Post("/bioavailability", pkHandler.ResolveBioavailability)
			r.Get("/sublingual", pkHandler.GetSublingual)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/doses", doseHandler.ListDoses)
			r.Post("/doses", doseHandler.CreateDose)
			r.Put("/doses/{id}", doseHandler.UpdateDose)
			r.Delete("/doses/{id}", doseHandler.DeleteDose)

			r.Get("/labs", labHandler.ListLabs)
			r.Post("/labs", labHandler.CreateLab)
			r.Delete("/labs/{id}", labHandler.DeleteLab)

			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)

			r.Get("/simulation", simulationHandler.GetSimulation)
			r.Get("/simulation/at", simulationHandler.GetPoint)
			r.Get("/simulation/chart.png", simulationHandler.GetChart)
			r.Get("/simulation/badge.png", simulationHandler.GetBadge)

			r.Post("/export", transferHandler.Export)
			r.Get("/export.xlsx", transferHandler.ExportWorkbook)
			r.Post("/import", transferHandler.Import)

			r.Post("/backups", backupHandler.PushBackup)
			r.Get("/backups", backupHandler.ListBackups)
			r.Get("/backups/latest", backupHandler.LatestBackup)
			r.Get("/backups/{id}", backupHandler.GetBackup)
			r.Delete("/backups/{id}", backupHandler.DeleteBackup)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
