package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
	"github.com/studyforge/learning-api/internal/pkg/metrics"
)

// AuthService implements signup and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenManager
	log    zerolog.Logger
	now    func() time.Time

	// dummyHash is verified against when the email is unknown so both login
	// failure paths cost one hash comparison.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenManager, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash("studyforge-unknown-account")
	if err != nil {
		log.Warn().Err(err).Msg("failed to prepare dummy password hash")
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log, now: time.Now, dummyHash: dummy}
}

// Signup registers a new account and returns its ID. It does not start a session.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", domain.ErrAllFieldsRequired
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return "", domain.ErrPasswordTooShort
	}
	if len(password) > domain.MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return "", domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return "", domain.Internal("failed to look up user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", domain.Internal("failed to secure password", err)
	}

	created, err := s.repo.Create(ctx, domain.NewUser(name, email, hash, s.now().UTC()))
	if err != nil {
		// The unique email index closes the window between lookup and insert.
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return "", domain.ErrUserExists
		}
		return "", domain.Internal("failed to create user", err)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created.ID, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrCredentialsRequired
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Internal("failed to look up user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(domain.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, domain.Internal("failed to issue session", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
