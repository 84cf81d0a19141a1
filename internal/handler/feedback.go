package handler

import (
	"net/http"

	"fsanano/coffee-shop/internal/service"
)

func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req service.ContactInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.shop.SubmitContact(r.Context(), req); err != nil {
		writeError(w, r, "Handler.SubmitContact", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Message received"})
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.shop.ListContacts(r.Context())
	if err != nil {
		writeError(w, r, "Handler.ListContacts", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req service.ReviewInput
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.shop.SubmitReview(r.Context(), req)
	if err != nil {
		writeError(w, r, "Handler.SubmitReview", err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.shop.ListReviews(r.Context())
	if err != nil {
		writeError(w, r, "Handler.ListReviews", err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
