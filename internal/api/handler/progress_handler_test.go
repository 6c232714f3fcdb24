package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

func TestProgressHandler_Update(t *testing.T) {
	h := NewProgressHandler(&stubAccountService{
		progressFn: func(ctx context.Context, userID string, change ports.ProgressChange) (*domain.User, error) {
			if userID != "u1" || change.Level == nil || *change.Level != 3 || change.XP != nil {
				t.Fatalf("unexpected change for %s: %+v", userID, change)
			}
			if len(change.Badges) != 1 || change.Badges[0] != "first-quiz" {
				t.Fatalf("unexpected badges: %v", change.Badges)
			}
			u := sampleUser()
			u.Level = 3
			u.Badges = []string{"first-quiz"}
			return u, nil
		},
	})

	c, rec := newContext(http.MethodPatch, "/api/user/progress", `{"level":3,"badges":["first-quiz"]}`, "u1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if resp["message"] != "Progress updated." {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user := resp["user"].(map[string]any)
	if user["level"] != float64(3) {
		t.Fatalf("unexpected level: %v", user["level"])
	}
}

func TestProgressHandler_Update_ValidationFails(t *testing.T) {
	cases := map[string]string{
		"level below one": `{"level":0}`,
		"negative xp":     `{"xp":-5}`,
		"empty badge":     `{"badges":[""]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewProgressHandler(&stubAccountService{
				progressFn: func(ctx context.Context, userID string, change ports.ProgressChange) (*domain.User, error) {
					t.Fatalf("service should not be called")
					return nil, nil
				},
			})

			c, _ := newContext(http.MethodPatch, "/api/user/progress", body, "u1")
			err := h.Update(c)
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
