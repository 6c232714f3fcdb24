package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/studyforge/learning-api/internal/api/middleware"
	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, name, email, password string) (string, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Signup(ctx context.Context, name, email, password string) (string, error) {
	return s.signupFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubAccountService struct {
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
	progressFn func(ctx context.Context, userID string, change ports.ProgressChange) (*domain.User, error)
	listFn     func(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error)
}

func (s *stubAccountService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAccountService) UpdateProgress(ctx context.Context, userID string, change ports.ProgressChange) (*domain.User, error) {
	return s.progressFn(ctx, userID, change)
}

func (s *stubAccountService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, filter)
}

type stubResetService struct {
	requestFn func(ctx context.Context, email string) error
	confirmFn func(ctx context.Context, token, password string) error
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) error {
	return s.requestFn(ctx, email)
}

func (s *stubResetService) ConfirmReset(ctx context.Context, token, password string) error {
	return s.confirmFn(ctx, token, password)
}

type stubUsageService struct {
	consumeFn func(ctx context.Context, userID string) (*domain.User, domain.UsageStatus, error)
}

func (s *stubUsageService) Consume(ctx context.Context, userID string) (*domain.User, domain.UsageStatus, error) {
	return s.consumeFn(ctx, userID)
}

// newContext builds an echo context for method/path with an optional JSON body.
// A non-empty userID simulates a request that passed middleware.Auth.
func newContext(method, path, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, domain.RoleUser)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:           "64b7f0c2a1b2c3d4e5f60718",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$secret-hash",
		Role:         domain.RoleUser,
		Level:        1,
		Badges:       []string{},
	}
}
