package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/admin"
	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminMock struct {
	err      error
	deleted  []int64
	uploaded string
	data     string
}

func (m *adminMock) CreateProduct(ctx context.Context, form admin.ProductForm) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}
	return domain.Product{ID: 10, Name: form.Name}, nil
}

func (m *adminMock) UpdateProduct(ctx context.Context, id int64, form admin.ProductForm) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}
	return domain.Product{ID: id, Name: form.Name}, nil
}

func (m *adminMock) DeleteProduct(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *adminMock) UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (admin.ImageUploadResponse, error) {
	if m.err != nil {
		return admin.ImageUploadResponse{}, m.err
	}
	data, _ := io.ReadAll(r)
	m.uploaded = filename + " " + contentType
	m.data = string(data)
	return admin.ImageUploadResponse{Success: true, URL: "/uploads/images/x.png", Filename: "x.png"}, nil
}

func (m *adminMock) DeleteImage(ctx context.Context, filename string) error {
	return m.err
}

type authnStub bool

func (a authnStub) IsAuthenticated() bool { return bool(a) }

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	recorder := httptest.NewRecorder()
	RequireAuth(authnStub(false))(next).ServeHTTP(recorder, httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "unauthorized", decodeError(t, recorder).Code)

	recorder = httptest.NewRecorder()
	RequireAuth(authnStub(true))(next).ServeHTTP(recorder, httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, http.StatusTeapot, recorder.Code)
}

func TestCreateProduct(t *testing.T) {
	handler := NewAdminHandler(&adminMock{}, time.Second)

	recorder := httptest.NewRecorder()
	handler.CreateProduct(recorder, httptest.NewRequest("POST", "/admin/products", strings.NewReader(`{"name":"Bone"}`)))

	require.Equal(t, http.StatusCreated, recorder.Code)
	var p domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&p))
	assert.Equal(t, "Bone", p.Name)
}

func TestCreateProduct_ValidationFailed(t *testing.T) {
	mock := &adminMock{err: &admin.ValidationError{Fields: map[string]string{"name": "required"}}}
	handler := NewAdminHandler(mock, time.Second)

	recorder := httptest.NewRecorder()
	handler.CreateProduct(recorder, httptest.NewRequest("POST", "/admin/products", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	resp := decodeError(t, recorder)
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Equal(t, "required", resp.Fields["name"])
}

func TestUpdateProduct_BackendRejects(t *testing.T) {
	mock := &adminMock{err: &apiclient.APIError{StatusCode: http.StatusForbidden, Message: "Access denied"}}
	handler := NewAdminHandler(mock, time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/admin/products/3", strings.NewReader(`{"name":"x"}`))
	handler.UpdateProduct(recorder, withURLParam(request, "product_id", "3"))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	resp := decodeError(t, recorder)
	assert.Equal(t, "backend_rejected", resp.Code)
	assert.Equal(t, "Access denied", resp.Error)
}

func TestUpdateProduct_BackendDown(t *testing.T) {
	mock := &adminMock{err: &apiclient.APIError{StatusCode: http.StatusInternalServerError, Message: "HTTP error! status: 500"}}
	handler := NewAdminHandler(mock, time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/admin/products/3", strings.NewReader(`{"name":"x"}`))
	handler.UpdateProduct(recorder, withURLParam(request, "product_id", "3"))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestDeleteProduct(t *testing.T) {
	mock := &adminMock{}
	handler := NewAdminHandler(mock, time.Second)

	recorder := httptest.NewRecorder()
	handler.DeleteProduct(recorder, withURLParam(httptest.NewRequest("DELETE", "/admin/products/8", nil), "product_id", "8"))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, []int64{8}, mock.deleted)
}

func multipartImage(t *testing.T, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	mock := &adminMock{}
	handler := NewAdminHandler(mock, time.Second)

	body, contentType := multipartImage(t, "shirt.png", "image/png", "png-bytes")
	request := httptest.NewRequest("POST", "/admin/images", body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	handler.UploadImage(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "shirt.png image/png", mock.uploaded)
	assert.Equal(t, "png-bytes", mock.data)
}

func TestUploadImage_MissingFile(t *testing.T) {
	handler := NewAdminHandler(&adminMock{}, time.Second)

	recorder := httptest.NewRecorder()
	handler.UploadImage(recorder, httptest.NewRequest("POST", "/admin/images", strings.NewReader("")))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUploadImage_InvalidImage(t *testing.T) {
	mock := &adminMock{err: fmt.Errorf("%w: unsupported type %q", admin.ErrInvalidImage, "application/pdf")}
	handler := NewAdminHandler(mock, time.Second)

	body, contentType := multipartImage(t, "doc.pdf", "application/pdf", "%PDF")
	request := httptest.NewRequest("POST", "/admin/images", body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	handler.UploadImage(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid_image", decodeError(t, recorder).Code)
}

func TestDeleteImage(t *testing.T) {
	handler := NewAdminHandler(&adminMock{}, time.Second)

	recorder := httptest.NewRecorder()
	handler.DeleteImage(recorder, withURLParam(httptest.NewRequest("DELETE", "/admin/images/x.png", nil), "filename", "x.png"))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
