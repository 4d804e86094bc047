package routes

import (
	"net/http"

	"github.com/Dosada05/aswat-contest/handlers"
	"github.com/Dosada05/aswat-contest/metrics"
	"github.com/Dosada05/aswat-contest/middleware"
	"github.com/Dosada05/aswat-contest/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Settings     *handlers.SettingsHandler
	Participants *handlers.ParticipantHandler
	Judging      *handlers.JudgingHandler
	Results      *handlers.ResultsHandler
	Backup       *handlers.BackupHandler
	Sync         *handlers.SyncHandler
	WebSocket    *handlers.WebSocketHandler
	Health       *handlers.HealthHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Metrics        *metrics.Collector
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(opts.Metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	metricsHandler := opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.Method(http.MethodGet, "/metrics", metricsHandler)
	router.Get("/health", h.Health.Check)

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Post("/auth/login", h.Auth.Login)
	router.Get("/settings", h.Settings.Get)
	router.Get("/results", h.Results.Get)
	router.Get("/ws/results", h.WebSocket.ServeResults)
	router.Post("/participants", h.Participants.Register)

	router.Route("/judging", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin, models.RoleJudge))

		r.Get("/queue", h.Judging.Queue)
		r.Post("/participants/{id}/rating", h.Judging.SubmitRating)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Put("/settings", h.Settings.Update)

		r.Get("/participants", h.Participants.List)
		r.Post("/participants/import", h.Participants.Import)
		r.Delete("/participants/{id}", h.Participants.Delete)
		r.Patch("/participants/{id}/status", h.Participants.SetStatus)

		r.Get("/backup", h.Backup.Export)
		r.Post("/backup", h.Backup.Import)

		r.Post("/sync", h.Sync.Trigger)
	})
}
