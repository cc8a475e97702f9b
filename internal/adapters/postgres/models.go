package postgres

import (
	"time"

	"github.com/keyhaven/keyhaven/internal/domain"
)

type userModel struct {
	ID                   int64      `gorm:"column:id;primaryKey"`
	Email                string     `gorm:"column:email"`
	Username             string     `gorm:"column:username"`
	PasswordHash         string     `gorm:"column:password_hash"`
	ResetPasswordToken   *string    `gorm:"column:reset_password_token"`
	ResetPasswordExpires *time.Time `gorm:"column:reset_password_expires"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type licenseKeyModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	UserID     int64     `gorm:"column:user_id"`
	LicenseKey string    `gorm:"column:license_key"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (licenseKeyModel) TableName() string { return "license_keys" }

type apiKeyModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	APIKey      string    `gorm:"column:api_key"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (apiKeyModel) TableName() string { return "api_keys" }

func toDomainUser(rec userModel) domain.User {
	return domain.User{
		ID:                   rec.ID,
		Email:                rec.Email,
		Username:             rec.Username,
		PasswordHash:         rec.PasswordHash,
		ResetPasswordToken:   rec.ResetPasswordToken,
		ResetPasswordExpires: rec.ResetPasswordExpires,
		CreatedAt:            rec.CreatedAt,
	}
}

func toDomainLicenseKey(rec licenseKeyModel) domain.LicenseKey {
	return domain.LicenseKey{
		ID:         rec.ID,
		UserID:     rec.UserID,
		LicenseKey: rec.LicenseKey,
		IsActive:   rec.IsActive,
		CreatedAt:  rec.CreatedAt,
	}
}

func toDomainAPIKey(rec apiKeyModel) domain.APIKey {
	return domain.APIKey{
		ID:          rec.ID,
		APIKey:      rec.APIKey,
		Description: rec.Description,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
	}
}
