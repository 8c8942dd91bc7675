package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/catalog"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
)

type CatalogClient interface {
	FetchPage(ctx context.Context, q catalog.Query) (domain.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type ProductHandler struct {
	catalog CatalogClient
	browser *catalog.Browser
	timeout time.Duration
}

func NewProductHandler(client CatalogClient, browser *catalog.Browser, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: client,
		browser: browser,
		timeout: timeout,
	}
}

type SearchRequestDTO struct {
	Term string `json:"term"`
}

type PageRequestDTO struct {
	Page int `json:"page"`
}

// ListProducts fetches one catalog page directly, bypassing the session's
// live search.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	values := r.URL.Query()
	q := catalog.Query{
		Search:   values.Get("search"),
		Category: values.Get("category"),
		Gender:   values.Get("gender"),
		Color:    values.Get("color"),
		SizeTag:  values.Get("sizeTag"),
		Brand:    values.Get("brand"),
	}

	var err error
	if q.Page, err = intParam(values.Get("page")); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
		return
	}
	if q.Size, err = intParam(values.Get("size")); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_size", "size must be an integer")
		return
	}

	page, err := h.catalog.FetchPage(ctx, q)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// SetSearchTerm schedules a debounced search and answers before it runs.
func (h *ProductHandler) SetSearchTerm(w http.ResponseWriter, r *http.Request) {
	var req SearchRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusAccepted, h.browser.SetSearchTerm(req.Term))
}

func (h *ProductHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PageRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Page < 0 {
		respondError(w, http.StatusBadRequest, "invalid_page", "page must not be negative")
		return
	}
	respondJSON(w, http.StatusOK, h.browser.SetPage(ctx, req.Page))
}

func (h *ProductHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.browser.View())
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
