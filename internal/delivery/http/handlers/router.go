package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the webhook, return pages, cart API and service endpoints.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/payment_hook", h.PaymentHook)
	r.Get("/payment/success", h.PaymentSuccess)
	r.Get("/payment/fail", h.PaymentFail)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.CreateOrder)

		if h.cart != nil {
			r.Route("/sessions/{chatID}", func(r chi.Router) {
				r.Get("/cart", h.GetCart)
				r.Put("/cart", h.SelectItems)
				r.Delete("/cart", h.ClearCart)
				r.Delete("/cart/{conferenceID}/{lectureID}", h.RemoveItem)
				r.Put("/contacts", h.UpdateContacts)
				r.Post("/checkout", h.Checkout)
			})
		}
		if h.promo != nil {
			r.Post("/promo/redeem", h.RedeemPromo)
		}
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
