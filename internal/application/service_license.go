package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keyhaven/keyhaven/internal/domain"
)

// ValidateLicense authenticates the calling machine by API key, then resolves the
// license key and its owner. An unknown and an inactive API key are both
// ErrUnauthorized; license state is only disclosed to authenticated callers.
func (s *Service) ValidateLicense(ctx context.Context, apiKey, licenseKey string) (LicenseValidationResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return LicenseValidationResult{}, domain.ErrUnauthorized
	}

	key, err := s.apiKeys.GetByKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LicenseValidationResult{}, domain.ErrUnauthorized
		}
		return LicenseValidationResult{}, fmt.Errorf("lookup api key: %w", err)
	}
	if !key.IsActive {
		return LicenseValidationResult{}, domain.ErrUnauthorized
	}

	if strings.TrimSpace(licenseKey) == "" {
		return LicenseValidationResult{}, fmt.Errorf("%w: licenseKey is required", domain.ErrInvalidInput)
	}

	license, owner, err := s.licenses.GetWithOwner(ctx, licenseKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LicenseValidationResult{}, domain.ErrNotFound
		}
		return LicenseValidationResult{}, fmt.Errorf("lookup license key: %w", err)
	}
	if !license.IsActive {
		return LicenseValidationResult{}, domain.ErrLicenseInactive
	}

	return LicenseValidationResult{Username: owner.Username, Email: owner.Email}, nil
}
