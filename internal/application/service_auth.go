package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/keyhaven/keyhaven/internal/domain"
	"github.com/keyhaven/keyhaven/internal/ports"
)

const defaultRedirect = "/dashboard"

// Register validates input shape, hashes the password, and inserts the account.
// The existence pre-check is a fast path for a friendlier error; the store's
// unique constraints are the authority, and a constraint violation maps to the
// same generic conflict so the colliding field is never revealed.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	if errs := domain.ValidateRegistration(email, username, req.Password, req.ConfirmPassword); errs != nil {
		return AuthResult{}, errs
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return AuthResult{}, domain.ErrConflict
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AuthResult{}, domain.ErrConflict
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	authLogger().InfoContext(ctx, "account registered",
		"operation", "register",
		"outcome", "success",
		"user_id", user.ID,
	)

	return AuthResult{
		Identity:   ports.SessionIdentity{UserID: user.ID, Username: user.Username},
		RedirectTo: defaultRedirect,
	}, nil
}

// Login resolves the identifier as username or email and verifies the password.
// An unknown identifier, a row without a password hash, and a wrong password all
// collapse into the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	if errs := domain.ValidateLogin(req.UsernameOrEmail, req.Password); errs != nil {
		return AuthResult{}, errs
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, strings.TrimSpace(req.UsernameOrEmail))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == "" {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return AuthResult{}, domain.ErrInvalidCredentials
	}

	return AuthResult{
		Identity:   ports.SessionIdentity{UserID: user.ID, Username: user.Username},
		RedirectTo: sanitizeRedirect(req.RedirectTo),
	}, nil
}

// Dashboard loads the identity's account row and owned license keys, newest first.
func (s *Service) Dashboard(ctx context.Context, userID int64) (DashboardData, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return DashboardData{}, err
	}

	keys, err := s.licenses.ListByUser(ctx, user.ID)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list license keys: %w", err)
	}

	items := make([]LicenseKeyItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, LicenseKeyItem{
			ID:         k.ID,
			LicenseKey: k.LicenseKey,
			IsActive:   k.IsActive,
			CreatedAt:  k.CreatedAt,
		})
	}

	return DashboardData{
		User:        UserInfo{ID: user.ID, Username: user.Username, Email: user.Email},
		LicenseKeys: items,
	}, nil
}

// sanitizeRedirect restricts post-login redirects to local paths.
func sanitizeRedirect(redirectTo string) string {
	trimmed := strings.TrimSpace(redirectTo)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
		return defaultRedirect
	}
	return trimmed
}

func authLogger() *slog.Logger {
	return slog.Default().With(
		"service", "keyhaven",
		"module", "application",
		"layer", "application",
	)
}
