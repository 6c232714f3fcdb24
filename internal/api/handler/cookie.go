package handler

import (
	"net/http"
	"time"

	"github.com/studyforge/learning-api/internal/api/middleware"
)

// CookieConfig controls the session cookie written at login.
type CookieConfig struct {
	// Secure marks the cookie HTTPS-only. Enabled in production.
	Secure bool
	// MaxAge is the cookie lifetime; it matches the token TTL.
	MaxAge time.Duration
}

func (cc CookieConfig) session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cc.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// cleared expires the session cookie in the browser.
func (cc CookieConfig) cleared() *http.Cookie {
	c := cc.session("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
