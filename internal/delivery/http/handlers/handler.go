package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/cart"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/payment"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/promo"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/reconcile"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	reconciler reconcile.ReconcileUsecase
	sessions   payment.SessionUsecase
	cart       cart.CartUsecase
	promo      promo.PromoUsecase
}

// NewHandler wires use cases into HTTP handlers. cart and promo may be nil
// when no catalog is configured; their routes are then not mounted.
func NewHandler(
	reconciler reconcile.ReconcileUsecase,
	sessions payment.SessionUsecase,
	cartUC cart.CartUsecase,
	promoUC promo.PromoUsecase,
) *Handler {
	return &Handler{
		reconciler: reconciler,
		sessions:   sessions,
		cart:       cartUC,
		promo:      promoUC,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Success: false, Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func chatIDParam(r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	return chatID, err == nil
}
