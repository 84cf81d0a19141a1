package handler

import (
	"net/http"
	"strconv"

	"fsanano/coffee-shop/internal/service"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := service.ProductFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if v := q.Get("max_price"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil || maxPrice < 0 {
			writeMessage(w, http.StatusBadRequest, "max_price must be a non-negative number")
			return
		}
		f.MaxPrice = maxPrice
	}

	products, err := h.shop.ListProducts(r.Context(), f)
	if err != nil {
		writeError(w, r, "Handler.ListProducts", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.shop.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Handler.GetProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.shop.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, r, "Handler.CreateProduct", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductPatch
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.shop.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, "Handler.UpdateProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "Handler.DeleteProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
