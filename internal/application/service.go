package application

import (
	"time"

	"github.com/keyhaven/keyhaven/internal/ports"
)

// Service orchestrates the credential-validation flows. All collaborators are
// injected at construction; the store handle's lifecycle belongs to bootstrap.
type Service struct {
	cfg         Config
	users       ports.UserRepository
	licenses    ports.LicenseKeyRepository
	apiKeys     ports.APIKeyRepository
	hasher      ports.PasswordHasher
	resetTokens ports.ResetTokenIssuer
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Users       ports.UserRepository
	Licenses    ports.LicenseKeyRepository
	APIKeys     ports.APIKeyRepository
	Hasher      ports.PasswordHasher
	ResetTokens ports.ResetTokenIssuer
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:         deps.Config,
		users:       deps.Users,
		licenses:    deps.Licenses,
		apiKeys:     deps.APIKeys,
		hasher:      deps.Hasher,
		resetTokens: deps.ResetTokens,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
