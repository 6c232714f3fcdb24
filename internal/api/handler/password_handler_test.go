package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/studyforge/learning-api/internal/core/domain"
)

func TestPasswordHandler_Request_UniformResponse(t *testing.T) {
	var got string
	h := NewPasswordHandler(&stubResetService{
		requestFn: func(ctx context.Context, email string) error {
			got = email
			return nil
		},
	})

	c, rec := newContext(http.MethodPost, "/api/auth/reset-password/request", `{"email":"nobody@example.com"}`, "")
	if err := h.Request(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "nobody@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "If a user with that email exists, a reset link will be sent." {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestPasswordHandler_Request_MissingEmail(t *testing.T) {
	h := NewPasswordHandler(&stubResetService{
		requestFn: func(ctx context.Context, email string) error { return domain.ErrEmailRequired },
	})

	c, _ := newContext(http.MethodPost, "/api/auth/reset-password/request", `{}`, "")
	if err := h.Request(c); !errors.Is(err, domain.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestPasswordHandler_Confirm(t *testing.T) {
	h := NewPasswordHandler(&stubResetService{
		confirmFn: func(ctx context.Context, token, password string) error {
			if token != "abc" || password != "newpassword" {
				t.Fatalf("unexpected args %s %s", token, password)
			}
			return nil
		},
	})

	c, rec := newContext(http.MethodPost, "/api/auth/reset-password/confirm", `{"token":"abc","password":"newpassword"}`, "")
	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if msg := decode(t, rec)["message"]; msg != "Password has been reset successfully." {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestPasswordHandler_Confirm_InvalidToken(t *testing.T) {
	h := NewPasswordHandler(&stubResetService{
		confirmFn: func(ctx context.Context, token, password string) error { return domain.ErrInvalidResetToken },
	})

	c, _ := newContext(http.MethodPost, "/api/auth/reset-password/confirm", `{"token":"used","password":"newpassword"}`, "")
	if err := h.Confirm(c); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}
