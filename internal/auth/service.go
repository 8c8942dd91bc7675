package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/persistence"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoToken            = errors.New("token not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type User struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Service keeps the session's credentials. The token and user are mirrored
// to the store under their own keys and cached in memory for the REST
// client, which reads the token on every request.
type Service struct {
	api      *apiclient.Client
	store    persistence.Store
	validate *validator.Validate

	mu    sync.RWMutex
	token string
	user  *User
}

func NewService(api *apiclient.Client, store persistence.Store) *Service {
	return &Service{
		api:      api,
		store:    store,
		validate: validator.New(),
	}
}

// Restore reloads a previous session from the store. Missing or unreadable
// entries leave the service logged out.
func (s *Service) Restore(ctx context.Context) {
	token, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			log.WithError(err).Warn("failed to restore auth token")
		}
		return
	}

	var user *User
	if raw, err := s.store.Get(ctx, UserKey); err == nil {
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			log.WithError(err).Warn("stored user is corrupt")
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = user
	s.mu.Unlock()
}

// Login authenticates against the backend and stores the session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}

	var out LoginResponse
	resp, err := s.api.R(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if err := apiclient.CheckResponse(resp); err != nil {
		switch apiclient.StatusCode(err) {
		case http.StatusUnauthorized:
			return nil, ErrInvalidCredentials
		case http.StatusNotFound:
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response carried no token")
	}

	user := User{Username: out.Username, FullName: out.FullName, Email: out.Email}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.store.Set(ctx, TokenKey, []byte(out.Token)); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.store.Set(ctx, UserKey, rawUser); err != nil {
		// A token without its user would restore as a half session.
		if delErr := s.store.Delete(ctx, TokenKey); delErr != nil {
			log.WithError(delErr).Warn("failed to roll back auth token")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.mu.Lock()
	s.token = out.Token
	s.user = &user
	s.mu.Unlock()

	log.WithField("username", user.Username).Info("logged in")
	return &out, nil
}

// Validate asks the backend whether the current token is still good. A
// rejected token ends the session.
func (s *Service) Validate(ctx context.Context) error {
	if s.Token() == "" {
		return ErrNoToken
	}

	resp, err := s.api.R(ctx).Post("/auth/validate")
	if err == nil {
		err = apiclient.CheckResponse(resp)
	}
	if err != nil {
		log.WithError(err).Info("token validation failed, logging out")
		s.Logout(ctx)
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// Logout forgets the session. Store failures are logged, not returned.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	for _, key := range []string{TokenKey, UserKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("failed to clear auth key")
		}
	}
}

// Token implements apiclient.TokenSource.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Service) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated requires both a token and a user.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}
