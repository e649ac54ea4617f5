package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}
	session, err := h.cart.GetSession(r.Context(), chatID)
	if err != nil {
		h.sessionStoreError(w, chatID, err)
		return
	}
	h.writeCart(w, session)
}

func (h *Handler) SelectItems(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}
	var req dto.SelectRequest
	if err := decodeJSON(w, r, &req); err != nil || req.ConferenceID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		session *domain.Session
		err     error
	)
	if req.All {
		session, err = h.cart.SelectConference(r.Context(), chatID, req.ConferenceID)
	} else {
		session, err = h.cart.SelectLectures(r.Context(), chatID, req.ConferenceID, req.LectureIDs...)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCatalogID) {
			writeError(w, http.StatusNotFound, "unknown conference or lecture")
			return
		}
		h.sessionStoreError(w, chatID, err)
		return
	}
	h.writeCart(w, session)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}
	session, err := h.cart.RemoveLecture(r.Context(), chatID, chi.URLParam(r, "conferenceID"), chi.URLParam(r, "lectureID"))
	if err != nil {
		h.sessionStoreError(w, chatID, err)
		return
	}
	h.writeCart(w, session)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}
	if err := h.cart.Clear(r.Context(), chatID); err != nil {
		h.sessionStoreError(w, chatID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateContacts(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}
	var req dto.ContactsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.cart.UpdateContacts(r.Context(), chatID, req.Address, req.Email)
	if err != nil {
		h.sessionStoreError(w, chatID, err)
		return
	}
	h.writeCart(w, session)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}
	var req dto.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TgID == 0 {
		req.TgID = chatID
	}

	purchaser := domain.PurchaserContext{TgID: req.TgID, ChatID: chatID, Phone: req.Phone}
	result, checkout, err := h.cart.Checkout(r.Context(), purchaser, req.Comment)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentSessionResponse{
		OrderID:    result.OrderID,
		PaymentURL: result.PaymentURL,
		Amount:     checkout.Amount,
	})
}

func (h *Handler) writeCart(w http.ResponseWriter, session *domain.Session) {
	resp := dto.CartResponse{
		ChatID:    session.ChatID,
		Selection: session.Selection,
		Address:   session.Address,
		Email:     session.Email,
	}
	if checkout, err := h.cart.Aggregate(session.Selection); err == nil {
		resp.Amount = checkout.Amount
		resp.ShippingRequired = checkout.ShippingRequired
		resp.ItemCount = checkout.ItemCount
		for _, line := range checkout.Lines {
			resp.Lines = append(resp.Lines, dto.CheckoutLine{
				ConferenceID: line.ConferenceID,
				Title:        line.Title,
				Amount:       line.Amount,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) sessionStoreError(w http.ResponseWriter, chatID int64, err error) {
	slog.Error("session store failure", "chat_id", chatID, "error", err.Error())
	writeError(w, http.StatusServiceUnavailable, "cart is temporarily unavailable")
}
