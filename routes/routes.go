package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/tournament-registry/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

const requestTimeout = 30 * time.Second

func SetupRoutes(
	router chi.Router,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(requestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler.HealthzHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Post("/", tournamentHandler.CreateHandler)

		r.Route("/by-name/{name}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByNameHandler)
			r.Get("/id", tournamentHandler.GetIDByNameHandler)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Put("/", tournamentHandler.UpdateHandler)
			r.Get("/participants", tournamentHandler.ParticipantsHandler)
			r.Get("/matches", tournamentHandler.MatchesHandler)
			r.Get("/overview", tournamentHandler.OverviewHandler)
			r.Post("/image", tournamentHandler.UploadImageHandler)
		})
	})

	router.Get("/users/{userID}/tournaments", userHandler.TournamentIDsHandler)
}
