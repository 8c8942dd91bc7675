package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	c.SetTokenSource(staticToken("abc"))

	resp, err := c.R(context.Background()).Get("/ping")
	require.NoError(t, err)
	require.NoError(t, CheckResponse(resp))
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetTokenSource(staticToken(""))

	_, err := c.R(context.Background()).Get("/ping")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCheckResponse_Messages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"name is required"}`, "name is required"},
		{"error field", http.StatusUnauthorized, `{"error":"token expired"}`, "token expired"},
		{"plain body", http.StatusInternalServerError, `boom`, "HTTP error! status: 500"},
		{"empty body", http.StatusBadGateway, ``, "HTTP error! status: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := New(srv.URL, time.Second).R(context.Background()).Get("/")
			require.NoError(t, err)

			apiErr := CheckResponse(resp)
			require.Error(t, apiErr)
			assert.Equal(t, tt.message, apiErr.Error())
			assert.Equal(t, tt.status, StatusCode(apiErr))
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(&APIError{StatusCode: 409}))
	assert.False(t, IsClientError(&APIError{StatusCode: 503}))
	assert.False(t, IsClientError(assert.AnError))
	assert.Equal(t, 0, StatusCode(nil))
}
