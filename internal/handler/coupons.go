package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fsanano/coffee-shop/internal/service"

	"github.com/go-chi/chi/v5"
)

// Expiry accepts RFC 3339 timestamps or plain dates. A plain date keeps the
// coupon valid through the end of that day (UTC).
type Expiry struct {
	time.Time
}

func (e *Expiry) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		e.Time = t
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("expiry %q: want RFC 3339 timestamp or YYYY-MM-DD", s)
	}
	e.Time = t.Add(24 * time.Hour)
	return nil
}

type CouponRequest struct {
	Code        *string `json:"code"`
	Discount    *int    `json:"discount"`
	Expiry      *Expiry `json:"expiry"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (req CouponRequest) expiry() *time.Time {
	if req.Expiry == nil || req.Expiry.IsZero() {
		return nil
	}
	t := req.Expiry.Time
	return &t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.shop.ListCoupons(r.Context())
	if err != nil {
		writeError(w, r, "Handler.ListCoupons", err)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.shop.CreateCoupon(r.Context(), service.CouponInput{
		Code:        deref(req.Code),
		Discount:    deref(req.Discount),
		Expiry:      req.expiry(),
		Description: deref(req.Description),
		Active:      req.Active,
	})
	if err != nil {
		writeError(w, r, "Handler.CreateCoupon", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	var req CouponRequest
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if json.Unmarshal(body, &raw) != nil || json.Unmarshal(body, &req) != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := service.CouponPatch{
		Code:        req.Code,
		Discount:    req.Discount,
		Expiry:      req.expiry(),
		Description: req.Description,
		Active:      req.Active,
	}
	// An explicit "expiry": null removes the expiry.
	if v, ok := raw["expiry"]; ok && string(v) == "null" {
		patch.ClearExpiry = true
	}

	c, err := h.shop.UpdateCoupon(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, "Handler.UpdateCoupon", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.DeleteCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "Handler.DeleteCoupon", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type ValidateCouponRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.shop.ValidateCoupon(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		writeError(w, r, "Handler.ValidateCoupon", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
