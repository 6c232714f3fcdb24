// Package mail delivers account notices. The only channel today writes the
// notice to the structured log; an SMTP or API-backed mailer would implement
// the same ports.ResetMailer interface.
package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/ports"
)

// LogMailer writes reset links to the log instead of sending email.
type LogMailer struct {
	baseURL string
	log     zerolog.Logger
}

func NewLogMailer(baseURL string, log zerolog.Logger) *LogMailer {
	return &LogMailer{baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// ResetLink builds the client URL that carries token.
func (m *LogMailer) ResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, url.QueryEscape(token))
}

func (m *LogMailer) SendPasswordReset(_ context.Context, n ports.ResetNotice) error {
	m.log.Info().
		Str("user_id", n.UserID).
		Str("to", n.Email).
		Str("reset_link", m.ResetLink(n.Token)).
		Time("expires_at", n.ExpiresAt).
		Msg("password reset email")
	return nil
}
