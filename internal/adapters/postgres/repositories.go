package postgres

import (
	"errors"

	"gorm.io/gorm"
)

// Repositories bundles the store-backed implementations of the persistence ports.
type Repositories struct {
	Users    *userRepository
	Licenses *licenseKeyRepository
	APIKeys  *apiKeyRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    &userRepository{db: db},
		Licenses: &licenseKeyRepository{db: db},
		APIKeys:  &apiKeyRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
