package domain

import "time"

// User is the account identity record. The reset token fields live directly on the
// user row so at most one outstanding reset token can exist per account; reissuing
// overwrites the previous one.
type User struct {
	ID                   int64
	Email                string
	Username             string
	PasswordHash         string
	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time
	CreatedAt            time.Time
}

// LicenseKey is an opaque credential string owned by exactly one user. Keys are
// minted by the operator tooling; the web flows only read and validate them.
type LicenseKey struct {
	ID         int64
	UserID     int64
	LicenseKey string
	IsActive   bool
	CreatedAt  time.Time
}

// APIKey authenticates machine clients calling the license validation endpoint.
type APIKey struct {
	ID          int64
	APIKey      string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
