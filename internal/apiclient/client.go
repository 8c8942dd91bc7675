package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the REST client shared by catalog, checkout, auth and admin.
type Client struct {
	rest *resty.Client

	mu     sync.RWMutex
	tokens TokenSource
}

// New returns a client for baseURL. Retries are left to the callers'
// circuit breakers.
func New(baseURL string, timeout time.Duration) *Client {
	c := &Client{}
	c.rest = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if token := c.token(); token != "" {
				req.SetAuthToken(token)
			}
			return nil
		})
	return c
}

// SetTokenSource attaches the source of bearer tokens.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

// R starts a request bound to ctx.
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx)
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// CheckResponse returns an *APIError for non-2xx responses and nil
// otherwise. The message comes from the body's "message" or "error" field.
func CheckResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    errorMessage(resp.StatusCode(), resp.Body()),
		Body:       resp.Body(),
	}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsClientError reports whether err is a 4xx response. Breakers count
// these as successful calls: the backend answered.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}
