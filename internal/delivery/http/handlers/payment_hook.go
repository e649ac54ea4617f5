package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/tinkoff"
)

// PaymentHook accepts gateway notifications. Anything parseable is
// acknowledged with 200 "OK" whatever the reconciliation outcome.
func (h *Handler) PaymentHook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		slog.Warn("failed to read payment notification", "error", err.Error())
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	notification, err := tinkoff.ParseNotification(body)
	if err != nil {
		slog.Warn("malformed payment notification", "error", err.Error(), "remote_addr", r.RemoteAddr)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	h.reconciler.Reconcile(r.Context(), notification)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
