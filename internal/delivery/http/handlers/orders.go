package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/payment"
)

const sessionFailedMessage = "payment session could not be created, please try again later"

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TgID == 0 {
		writeError(w, http.StatusBadRequest, "tg_id is required")
		return
	}

	purchaser := domain.PurchaserContext{
		TgID:    req.TgID,
		ChatID:  req.ChatID,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	result, err := h.sessions.InitiateOrder(r.Context(), purchaser, req.Amount, req.Shipping, payment.InitiateOptions{
		Comment:     req.Comment,
		Description: req.Description,
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentSessionResponse{
		OrderID:    result.OrderID,
		PaymentURL: result.PaymentURL,
		Amount:     req.Amount,
	})
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, domain.ErrUnknownCatalogID):
		writeError(w, http.StatusBadRequest, "cart references unknown items")
	default:
		slog.Error("payment session failed", "kind", domain.ErrorKind(err), "error", err.Error())
		writeError(w, http.StatusBadGateway, sessionFailedMessage)
	}
}
