package application

import (
	"time"

	"github.com/keyhaven/keyhaven/internal/ports"
)

type Config struct {
	ResetTokenTTL time.Duration
	// ExposeResetLinks controls the demo-mode contract: when set, the forgot-password
	// response carries the constructed reset URL because no mail transport exists.
	// A production deployment delivers the link out-of-band and keeps this off.
	ExposeResetLinks bool
}

type RegisterRequest struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

type LoginRequest struct {
	UsernameOrEmail string
	Password        string
	RedirectTo      string
}

// AuthResult is the successful outcome of register/login: an identity for the
// session cookie and the destination the boundary layer should redirect to.
type AuthResult struct {
	Identity   ports.SessionIdentity
	RedirectTo string
}

type ForgotPasswordResult struct {
	Message   string
	ResetLink string
}

type DashboardData struct {
	User        UserInfo
	LicenseKeys []LicenseKeyItem
}

type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LicenseKeyItem struct {
	ID         int64     `json:"id"`
	LicenseKey string    `json:"licenseKey"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LicenseValidationResult struct {
	Username string
	Email    string
}
