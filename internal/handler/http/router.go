package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/arthurobs542/clock-timer/internal/handler/http/middleware"
	"github.com/arthurobs542/clock-timer/internal/pkg/jwt"
	"github.com/arthurobs542/clock-timer/internal/pkg/metrics"
)

func NewRouter(
	jwtService jwt.Service,
	clockHandler ClockHandler,
	notificationHandler NotificationHandler,
	userHandler UserHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "clock-timer"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Method("GET", "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// The SSE stream authenticates via a short-lived query token
		// instead of the Authorization header.
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/clock", func(r chi.Router) {
				r.Post("/in", clockHandler.ClockIn)
				r.Post("/out", clockHandler.ClockOut)
				r.Post("/break/start", clockHandler.StartBreak)
				r.Post("/break/end", clockHandler.EndBreak)
				r.Get("/status", clockHandler.CurrentStatus)
				r.Get("/stats", clockHandler.Stats)
				r.Get("/records", clockHandler.MyRecords)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/mark-read", notificationHandler.MarkAsRead)
				r.Post("/mark-all-read", notificationHandler.MarkAllAsRead)
				r.Delete("/{id}", notificationHandler.Delete)

				r.Get("/preferences", notificationHandler.GetPreferences)
				r.Put("/preferences", notificationHandler.UpdatePreference)

				r.Get("/sse-token", notificationHandler.GetSSEToken)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminRequired)

				r.Get("/clock/records", clockHandler.AllRecords)
				r.Get("/clock/records/{id}", clockHandler.RecordByID)
				r.Post("/notifications/broadcast", notificationHandler.Broadcast)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
					r.Get("/{id}", userHandler.GetByID)
					r.Put("/{id}", userHandler.Update)
				})
			})
		})
	})

	return r
}
