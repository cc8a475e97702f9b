package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keyhaven/keyhaven/internal/domain"
)

// The response is identical whether or not the account exists, so the endpoint
// cannot be used to probe for registered emails.
const genericResetMessage = "If an account with that email exists, a password reset link has been generated."

// RequestPasswordReset issues a one-time reset token for a known email. Only the
// token's SHA-256 lookup hash is persisted; reissuing overwrites any outstanding
// token for the account. The returned link is populated only in demo mode.
func (s *Service) RequestPasswordReset(ctx context.Context, email, baseURL string) (ForgotPasswordResult, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return ForgotPasswordResult{}, domain.FieldErrors{"email": "Please enter a valid email address."}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ForgotPasswordResult{Message: genericResetMessage}, nil
		}
		return ForgotPasswordResult{}, fmt.Errorf("lookup user by email: %w", err)
	}

	plaintext, lookupHash, err := s.resetTokens.Issue()
	if err != nil {
		return ForgotPasswordResult{}, fmt.Errorf("issue reset token: %w", err)
	}

	now := s.nowFn()
	if err := s.users.SetResetToken(ctx, user.ID, lookupHash, now.Add(s.cfg.ResetTokenTTL)); err != nil {
		return ForgotPasswordResult{}, fmt.Errorf("persist reset token: %w", err)
	}

	authLogger().InfoContext(ctx, "password reset token issued",
		"operation", "request_password_reset",
		"outcome", "success",
		"user_id", user.ID,
	)

	result := ForgotPasswordResult{Message: genericResetMessage}
	if s.cfg.ExposeResetLinks {
		result.ResetLink = strings.TrimRight(baseURL, "/") + "/reset-password/" + plaintext
	}
	return result, nil
}

// CheckResetToken reports whether a URL-supplied token currently resolves to an
// unexpired reset record. This drives the page-load decision only; the submit
// path re-validates at the point of mutation.
func (s *Service) CheckResetToken(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	_, err := s.users.FindByValidResetToken(ctx, s.resetTokens.HashToken(token), s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check reset token: %w", err)
	}
	return true, nil
}

// ResetPassword consumes the token and updates the credential. The conditional
// update re-checks token validity and expiry, so a token that expired or was
// used after the form loaded still fails with ErrTokenInvalid and no change.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrTokenInvalid
	}
	if errs := domain.ValidatePassword(password, confirmPassword); errs != nil {
		return errs
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.ConsumeResetToken(ctx, s.resetTokens.HashToken(token), passwordHash, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}
