package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"fsanano/coffee-shop/internal/service/auth"
)

const adminKeyHeader = "x-admin-key"

// bearerToken reads the token from x-admin-key, falling back to an
// Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(adminKeyHeader)); t != "" {
		return t
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := h.auth.Verify(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	auth.Session
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.AdminLogin"

	var req AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("admin login failed", "op", op, "username", req.Username)
		writeError(w, r, op, err)
		return
	}
	slog.Info("admin login", "op", op, "username", req.Username)
	writeJSON(w, http.StatusOK, sessionResponse{Success: true, Session: session})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupInput
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, "Handler.Signup", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": u})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, "Handler.Login", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Success: true, Session: session})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.shop.Stats(r.Context())
	if err != nil {
		writeError(w, r, "Handler.Stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
