package routers

import (
	"fmt"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/delivery/http/controllers"
	"medrecords-service/internal/app/delivery/http/middlewares"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	authController *controllers.AuthController,
	dashboardController *controllers.DashboardController,
	documentController *controllers.DocumentController,
	accountController *controllers.AccountController,
	assignmentController *controllers.AssignmentController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins(internalConfig.App.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	if internalConfig.App.MaxRequests > 0 {
		router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))
	}

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			r.Route("/auth", func(r chi.Router) {
				attachAuthRoutes(r, middlewares, authController)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewares.Authenticate)

				r.Route("/dashboards", func(r chi.Router) {
					attachDashboardRoutes(r, dashboardController)
				})
				r.Route("/documents", func(r chi.Router) {
					attachDocumentRoutes(r, documentController)
				})
				r.Route("/patients", func(r chi.Router) {
					attachPatientRoutes(r, documentController)
				})
				r.Route("/admin", func(r chi.Router) {
					attachAdminRoutes(r, accountController, assignmentController, documentController)
				})
			})
		})
	})
}

func allowedOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
