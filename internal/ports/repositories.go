package ports

import (
	"context"
	"time"

	"github.com/keyhaven/keyhaven/internal/domain"
)

// CreateUserParams captures the persisted fields of a new account. The password
// arrives pre-hashed; plaintext never crosses this boundary.
type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for account identities.
// Create must surface unique-constraint violations as domain.ErrConflict: the
// constraint is the authority for uniqueness, any application-level pre-check is
// a fast path only.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	FindByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error)
	// ConsumeResetToken re-validates the token and expiry, updates the password
	// hash, and clears both reset fields in one conditional statement. It returns
	// domain.ErrNotFound when no row matches, so an earlier page-load check is
	// never trusted at the point of mutation.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) error
}

// LicenseKeyRepository reads license keys and their owners. Key creation belongs
// to the operator tooling, not the web flows.
type LicenseKeyRepository interface {
	Create(ctx context.Context, userID int64, licenseKey string, createdAt time.Time) (domain.LicenseKey, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.LicenseKey, error)
	GetWithOwner(ctx context.Context, licenseKey string) (domain.LicenseKey, domain.User, error)
	SetActive(ctx context.Context, licenseKey string, active bool) error
}

// APIKeyRepository stores machine credentials for the validation endpoint.
type APIKeyRepository interface {
	Create(ctx context.Context, apiKey, description string, createdAt time.Time) (domain.APIKey, error)
	GetByKey(ctx context.Context, apiKey string) (domain.APIKey, error)
}
