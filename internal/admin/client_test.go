package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() ProductForm {
	return ProductForm{
		Name:     "Camiseta Basica",
		Price:    decimal.RequireFromString("49.90"),
		Stock:    10,
		Category: "CAMISETA",
		Size:     "M",
		Color:    "PRETO",
		Gender:   "UNISSEX",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(apiclient.New(srv.URL, time.Second))
}

func TestValidate_AcceptsValidForm(t *testing.T) {
	c := NewClient(apiclient.New("http://unused", time.Second))
	assert.NoError(t, c.Validate(validForm()))
}

func TestValidate_Rejects(t *testing.T) {
	c := NewClient(apiclient.New("http://unused", time.Second))

	tests := []struct {
		name  string
		edit  func(f *ProductForm)
		field string
	}{
		{"missing name", func(f *ProductForm) { f.Name = "" }, "name"},
		{"long name", func(f *ProductForm) { f.Name = strings.Repeat("x", 121) }, "name"},
		{"zero price", func(f *ProductForm) { f.Price = decimal.Zero }, "price"},
		{"negative stock", func(f *ProductForm) { f.Stock = -1 }, "stock"},
		{"unknown category", func(f *ProductForm) { f.Category = "MEIA" }, "category"},
		{"unknown size", func(f *ProductForm) { f.Size = "XXXL" }, "size"},
		{"unknown color", func(f *ProductForm) { f.Color = "OURO" }, "color"},
		{"missing gender", func(f *ProductForm) { f.Gender = "" }, "gender"},
		{"long brand", func(f *ProductForm) { f.Brand = strings.Repeat("b", 81) }, "brand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)

			err := c.Validate(form)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestCreateProduct(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/products", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Product{ID: 11, Name: "Camiseta Basica", Active: true})
	})

	p, err := c.CreateProduct(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
	assert.Equal(t, "CAMISETA", body["category"])
}

func TestCreateProduct_InvalidFormIsNotSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid form must not reach the backend")
	})

	form := validForm()
	form.Name = ""
	_, err := c.CreateProduct(context.Background(), form)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(domain.Product{ID: 3})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	_, err := c.UpdateProduct(ctx, 3, validForm())
	require.NoError(t, err)
	require.NoError(t, c.DeleteProduct(ctx, 3))

	assert.Equal(t, []string{"PUT /admin/products/3", "DELETE /admin/products/3"}, calls)
}

func TestDeleteProduct_Forbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Access denied"}`))
	})

	err := c.DeleteProduct(context.Background(), 1)

	require.Error(t, err)
	assert.Equal(t, "Access denied", err.Error())
	assert.Equal(t, http.StatusForbidden, apiclient.StatusCode(err))
}

func TestUploadImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload/image", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "png-bytes", string(data))
		assert.Equal(t, "shirt.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ImageUploadResponse{Success: true, URL: "/uploads/images/abc.png", Filename: "abc.png"})
	})

	out, err := c.UploadImage(context.Background(), "shirt.png", "image/png", 9, strings.NewReader("png-bytes"))

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "abc.png", out.Filename)
}

func TestUploadImage_RejectedLocally(t *testing.T) {
	c := NewClient(apiclient.New("http://unused", time.Second))
	ctx := context.Background()

	_, err := c.UploadImage(ctx, "a.pdf", "application/pdf", 10, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = c.UploadImage(ctx, "a.png", "image/png", MaxImageSize+1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDeleteImage(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.DeleteImage(context.Background(), "abc.png"))
	assert.Equal(t, "/upload/image/abc.png", path)
}
