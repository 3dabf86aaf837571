package qr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"memberadmission/internal/domain"
)

// RetryConfig bounds how hard the retrying issuer tries.
type RetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig suits a local or same-region token service.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

type retryingIssuer struct {
	next   domain.IdentityTokenIssuer
	cfg    RetryConfig
	logger *slog.Logger
}

// NewRetryingIssuer wraps next so transient failures are retried with exponential backoff.
// Invalid input is not retried. When every attempt fails the error wraps
// domain.ErrTokenUnavailable.
func NewRetryingIssuer(next domain.IdentityTokenIssuer, cfg RetryConfig, logger *slog.Logger) domain.IdentityTokenIssuer {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	return &retryingIssuer{next: next, cfg: cfg, logger: logger}
}

func (r *retryingIssuer) Issue(ctx context.Context, memberID string) (string, error) {
	b := backoff.NewExponentialBackOff()
	if r.cfg.InitialInterval > 0 {
		b.InitialInterval = r.cfg.InitialInterval
	}
	if r.cfg.MaxInterval > 0 {
		b.MaxInterval = r.cfg.MaxInterval
	}

	attempt := 0
	token, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		tok, err := r.next.Issue(ctx, memberID)
		if err == nil {
			return tok, nil
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return "", backoff.Permanent(err)
		}
		r.logger.WarnContext(ctx, "identity token issue failed", "member_id", memberID, "attempt", attempt, "err", err)
		return "", err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.cfg.MaxAttempts),
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return "", err
		}
		return "", fmt.Errorf("%w after %d attempt(s): %w", domain.ErrTokenUnavailable, attempt, err)
	}
	return token, nil
}
