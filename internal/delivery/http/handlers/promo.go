package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

func (h *Handler) RedeemPromo(w http.ResponseWriter, r *http.Request) {
	var req dto.RedeemPromoRequest
	if err := decodeJSON(w, r, &req); err != nil || req.ChatID == 0 || req.ConferenceID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.promo.Redeem(r.Context(), req.ChatID, req.ConferenceID, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCatalogID) {
			writeError(w, http.StatusNotFound, "unknown conference")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "promo codes are temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, dto.RedeemPromoResponse{
		Accepted:  result.Accepted,
		Message:   result.Message,
		Selection: result.Selection,
	})
}
