package handlers

import "net/http"

const (
	successPage = "Payment received. Return to the chat, your order will arrive there shortly."
	failPage    = "Payment did not go through. Return to the chat and try again."
)

func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	writePage(w, successPage)
}

func (h *Handler) PaymentFail(w http.ResponseWriter, r *http.Request) {
	writePage(w, failPage)
}

func writePage(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
