package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/admin"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/go-chi/chi/v5"
)

type AdminClient interface {
	CreateProduct(ctx context.Context, form admin.ProductForm) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, form admin.ProductForm) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (admin.ImageUploadResponse, error)
	DeleteImage(ctx context.Context, filename string) error
}

type Authenticator interface {
	IsAuthenticated() bool
}

// RequireAuth rejects requests while no administrator is logged in.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authn.IsAuthenticated() {
				respondError(w, http.StatusUnauthorized, "unauthorized", "login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type AdminHandler struct {
	admin   AdminClient
	timeout time.Duration
}

func NewAdminHandler(client AdminClient, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		admin:   client,
		timeout: timeout,
	}
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var form admin.ProductForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.admin.CreateProduct(ctx, form)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}
	var form admin.ProductForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.admin.UpdateProduct(ctx, productID, form)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.admin.DeleteProduct(ctx, productID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage forwards the multipart field "file" to the backend.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, admin.MaxImageSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	out, err := h.admin.UploadImage(ctx, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

func (h *AdminHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filename := chi.URLParam(r, "filename")
	if filename == "" {
		respondError(w, http.StatusBadRequest, "invalid_filename", "filename is required")
		return
	}

	if err := h.admin.DeleteImage(ctx, filename); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
