package http

import (
	"context"
	"net/http"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/auth"
)

type AuthHandler struct {
	auth    *auth.Service
	timeout time.Duration
}

func NewAuthHandler(service *auth.Service, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:    service,
		timeout: timeout,
	}
}

type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	User          *auth.User `json:"user,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req auth.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.auth.Logout(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.Validate(ctx); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: h.auth.CurrentUser()})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: h.auth.IsAuthenticated(),
		User:          h.auth.CurrentUser(),
	})
}
