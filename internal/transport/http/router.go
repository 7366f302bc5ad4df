// Package httptransport is the thin HTTP layer. Handlers decode, call a
// service, and encode; business rules live in the services.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"neighnet/internal/admission"
	"neighnet/internal/auth"
	"neighnet/internal/notification"
	"neighnet/internal/pass"
	"neighnet/internal/platform/middleware"
	"neighnet/internal/signing"
	"neighnet/internal/visitor"
	"neighnet/pkg/requestcontext"
)

// Handler bundles the services the routes delegate to.
type Handler struct {
	auth          *auth.Service
	visitors      *visitor.Service
	passes        *pass.Service
	verifier      *pass.Verifier
	admissions    *admission.Service
	notifications *notification.Service
	keys          *signing.Provider
	logger        *slog.Logger
}

func NewHandler(
	authSvc *auth.Service,
	visitors *visitor.Service,
	passes *pass.Service,
	verifier *pass.Verifier,
	admissions *admission.Service,
	notifications *notification.Service,
	keys *signing.Provider,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:          authSvc,
		visitors:      visitors,
		passes:        passes,
		verifier:      verifier,
		admissions:    admissions,
		notifications: notifications,
		keys:          keys,
		logger:        logger,
	}
}

// RouterConfig carries the transport-level knobs.
type RouterConfig struct {
	TokenValidator     middleware.TokenValidator
	RedisClient        *redis.Client
	RateLimitPerMinute int
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)

	rateLimit := middleware.RateLimit(cfg.RedisClient, cfg.RateLimitPerMinute, time.Minute, h.logger)
	requireAuth := middleware.RequireAuth(cfg.TokenValidator, h.logger)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public: account bootstrap and the scanner's trust anchor.
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/auth/register", h.handleRegister)
			r.Post("/auth/login", h.handleLogin)
			r.Get("/passes/public-key", h.handlePublicKey)
		})

		// Authenticated.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(rateLimit)

			r.Post("/notifications/token", h.handleRegisterPushToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(requestcontext.RoleResident, requestcontext.RoleAdmin))
				r.Post("/passes", h.handleIssuePass)
				r.Post("/visitors", h.handleCreateVisitor)
				r.Get("/visitors", h.handleListVisitors)
				r.Get("/visitors/{visitorID}", h.handleGetVisitor)
				r.Patch("/visitors/{visitorID}", h.handleUpdateVisitor)
				r.Delete("/visitors/{visitorID}", h.handleDeleteVisitor)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(requestcontext.RoleGuard, requestcontext.RoleAdmin))
				r.Post("/visits/scan", h.handleScan)
				r.Patch("/visits/{visitID}/evidence", h.handleAttachEvidence)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(requestcontext.RoleAdmin))
				r.Get("/admin/visits", h.handleListVisits)
			})
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
