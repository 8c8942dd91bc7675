package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, authenticated bool) http.Handler {
	cartHandler, _ := newTestCartHandler(testProduct(1, "10", 5))
	mock := &catalogMock{}
	return NewRouter(Handlers{
		Cart:     cartHandler,
		Checkout: NewCheckoutHandler(checkouterMock{}, nil, time.Second),
		Products: newTestProductHandler(mock),
		Admin:    NewAdminHandler(&adminMock{}, time.Second),
		Authn:    authnStub(authenticated),
	}, 5*time.Second)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, false)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, false)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/cart", nil))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "storefront_http_requests_total")
}

func TestRouter_CartFlow(t *testing.T) {
	router := newTestRouter(t, false)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"product_id":1,"quantity":2}`)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items/1/decrement", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, decodeCart(t, recorder).ItemCount)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/api/v1/cart/items/1", strings.NewReader(`{"quantity":5}`)))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "50.00", decodeCart(t, recorder).Total.StringFixed(2))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/v1/cart", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeCart(t, recorder).Items)
}

func TestRouter_AdminRequiresLogin(t *testing.T) {
	recorder := httptest.NewRecorder()
	newTestRouter(t, false).ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/v1/admin/products/3", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	newTestRouter(t, true).ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/v1/admin/products/3", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
