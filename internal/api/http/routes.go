package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/storefront-server/internal/logger"
)

// HealthFunc returns the names of failing dependencies.
type HealthFunc func(ctx context.Context) []string

type healthResponse struct {
	Status  string   `json:"status"`
	Failing []string `json:"failing,omitempty"`
}

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	Handler *Handler
	Tabs    *TabIdentity
	Images  *ImageHandler // optional
	Health  HealthFunc    // optional
	Logger  *logger.Logger
}

// NewRouter builds the HTTP routes of the storefront.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(RequestLogging(cfg.Logger))

	r.Get("/healthz", healthz(cfg.Health))
	if cfg.Images != nil {
		r.Method(http.MethodGet, "/images/{name}", cfg.Images)
	}

	h := cfg.Handler
	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Use(cfg.Tabs.Handle)

		r.Get("/catalog", h.ListProducts)
		r.Get("/catalog/{id}", h.ViewProduct)

		r.Post("/visits", h.RecordVisit)
		r.Post("/pixel", h.FirePixel)

		r.Get("/consent", h.GetConsent)
		r.Post("/consent", h.ApplyConsent)

		r.Post("/checkout", h.Checkout)
		r.Get("/session", h.GetSession)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/", h.SubmitAuth)
			r.Post("/show", h.ShowAuth)
			r.Post("/hide", h.HideAuth)
			r.Post("/cancel", h.CancelAuth)
		})

		r.Get("/payment", h.GetPayment)
		r.Post("/payment", h.SubmitPayment)

		r.Route("/debug", func(r chi.Router) {
			r.Get("/", h.GetDebug)
			r.Get("/stream", h.StreamDebug)
			r.Post("/refresh", h.RefreshDebug)
			r.Post("/reset", h.ResetDebug)
		})
	})

	return r
}

func healthz(check HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
			return
		}
		if failing := check(r.Context()); len(failing) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "unavailable",
				Failing: failing,
			})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
