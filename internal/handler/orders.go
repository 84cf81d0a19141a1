package handler

import (
	"log/slog"
	"net/http"

	"fsanano/coffee-shop/internal/service"

	"github.com/go-chi/chi/v5"
)

// PlaceOrder is the checkout endpoint. Prices in the request are ignored.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderInput
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.shop.PlaceOrder(r.Context(), req)
	if err != nil {
		writeError(w, r, "Handler.PlaceOrder", err)
		return
	}

	slog.Info("order placed", "op", "Handler.PlaceOrder", "order_id", order.ID, "total", order.Total)
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.shop.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, "Handler.ListOrders", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.shop.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Handler.GetOrder", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type UpdateOrderRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.shop.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, "Handler.UpdateOrderStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
