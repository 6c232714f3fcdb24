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

// DefaultResetTTL is how long a password reset token stays redeemable.
const DefaultResetTTL = time.Hour

// PasswordResetService issues and redeems single-use password reset tokens.
type PasswordResetService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.ResetTokenGenerator
	notifier ports.ResetNotifier
	throttle ports.ResetThrottle
	log      zerolog.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewPasswordResetService builds the service. throttle may be nil.
func NewPasswordResetService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.ResetTokenGenerator,
	notifier ports.ResetNotifier,
	throttle ports.ResetThrottle,
	ttl time.Duration,
	log zerolog.Logger,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &PasswordResetService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		throttle: throttle,
		log:      log,
		ttl:      ttl,
		now:      time.Now,
	}
}

// RequestReset issues a reset token for email if it belongs to an account.
// The result is the same whether or not the account exists.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrEmailRequired
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("reset throttle check failed, continuing")
		} else if !allowed {
			metrics.PasswordResetsTotal.WithLabelValues("request", "throttled").Inc()
			return nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("request", "unknown_email").Inc()
			s.log.Debug().Msg("reset requested for unknown email")
			return nil
		}
		return domain.Internal("failed to look up user", err)
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return domain.Internal("failed to generate reset token", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	if err := s.repo.SetResetToken(ctx, user.ID, s.tokens.Digest(token), expiresAt, now); err != nil {
		return domain.Internal("failed to store reset token", err)
	}

	notice := ports.ResetNotice{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to hand off reset notice")
	}

	metrics.PasswordResetsTotal.WithLabelValues("request", "issued").Inc()
	s.log.Info().Str("user_id", user.ID).Time("expires_at", expiresAt).Msg("password reset issued")
	return nil
}

// ConfirmReset redeems token and replaces the account password.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrResetFieldsRequired
	}
	if utf8.RuneCountInString(newPassword) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if len(newPassword) > domain.MaxPasswordBytes {
		return domain.ErrPasswordTooLong
	}

	digest := s.tokens.Digest(token)
	now := s.now().UTC()

	user, err := s.repo.FindByResetToken(ctx, digest)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("confirm", "invalid").Inc()
			return domain.ErrInvalidResetToken
		}
		return domain.Internal("failed to look up reset token", err)
	}

	if !user.HasPendingReset(now) {
		if err := s.repo.ClearResetToken(ctx, user.ID, now); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to clear expired reset token")
		}
		metrics.PasswordResetsTotal.WithLabelValues("confirm", "expired").Inc()
		return domain.ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.Internal("failed to secure password", err)
	}

	redeemed, err := s.repo.RedeemResetToken(ctx, digest, hash, now)
	if err != nil {
		return domain.Internal("failed to reset password", err)
	}
	if !redeemed {
		// Another request redeemed the token between lookup and update.
		metrics.PasswordResetsTotal.WithLabelValues("confirm", "invalid").Inc()
		return domain.ErrInvalidResetToken
	}

	metrics.PasswordResetsTotal.WithLabelValues("confirm", "redeemed").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}
