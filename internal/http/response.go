package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/efojunior25/Notrya-Catalogo/internal/admin"
	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/auth"
	"github.com/efojunior25/Notrya-Catalogo/internal/catalog"
	"github.com/efojunior25/Notrya-Catalogo/internal/patterns"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleError converts errors from the backend clients to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var verr *admin.ValidationError
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, admin.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, "invalid_image", err.Error())
	case errors.Is(err, auth.ErrMissingCredentials):
		respondError(w, http.StatusBadRequest, "missing_credentials", "username and password are required")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	case errors.Is(err, auth.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, auth.ErrNoToken), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, patterns.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "backend temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "backend timeout")
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			respondError(w, apiErr.StatusCode, "backend_rejected", apiErr.Message)
			return
		}
		log.WithError(err).WithField("status", apiErr.StatusCode).Warn("backend error")
		respondError(w, http.StatusBadGateway, "backend_error", apiErr.Message)
	default:
		log.WithError(err).Error("unhandled error")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
