package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands/bus"
	querybus "github.com/Rekrutin/rekrutinai-sub000/application/queries/bus"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/config"
	"github.com/Rekrutin/rekrutinai-sub000/interfaces/http/rest/handlers"
	"github.com/Rekrutin/rekrutinai-sub000/interfaces/http/rest/middleware"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	validator  *auth.JWTValidator
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		validator:  validator,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(rt.logger))
	router.Use(middleware.RateLimitByIP(auth.NewIPRateLimiter(rt.cfg.IPRequestsPerMinute), rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.rekrutinai.com"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))
		r.Use(middleware.RateLimitByOwner(auth.NewOwnerRateLimiter(rt.cfg.OwnerRequestsPerMinute), rt.logger))

		// Record endpoints
		r.Route("/records", func(r chi.Router) {
			recordHandler := handlers.NewRecordHandler(rt.commandBus, rt.queryBus, rt.logger)
			r.Post("/", recordHandler.CreateRecord)
			r.Get("/", recordHandler.ListRecords)
			r.Get("/{recordID}", recordHandler.GetRecord)
			r.Patch("/{recordID}", recordHandler.UpdateRecord)
			r.Delete("/{recordID}", recordHandler.DeleteRecord)
			r.Post("/{recordID}/advance", recordHandler.AdvanceStatus)
			r.Put("/{recordID}/status", recordHandler.SetStatus)
			r.Post("/{recordID}/analyze", recordHandler.RunAnalysis)
		})

		// Saved-search matching over a supplied posting feed
		r.Post("/alerts/match", handlers.NewAlertHandler(rt.queryBus, rt.logger).MatchAlerts)

		// Plan limits and usage
		r.Get("/quota", handlers.NewQuotaHandler(rt.queryBus, rt.logger).GetQuotaStatus)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
