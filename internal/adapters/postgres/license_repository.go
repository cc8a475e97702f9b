package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/internal/domain"
)

type licenseKeyRepository struct {
	db *gorm.DB
}

func (r *licenseKeyRepository) Create(ctx context.Context, userID int64, licenseKey string, createdAt time.Time) (domain.LicenseKey, error) {
	rec := licenseKeyModel{
		UserID:     userID,
		LicenseKey: licenseKey,
		IsActive:   true,
		CreatedAt:  createdAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.LicenseKey{}, domain.ErrConflict
		}
		return domain.LicenseKey{}, err
	}
	return toDomainLicenseKey(rec), nil
}

func (r *licenseKeyRepository) ListByUser(ctx context.Context, userID int64) ([]domain.LicenseKey, error) {
	var recs []licenseKeyModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	keys := make([]domain.LicenseKey, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, toDomainLicenseKey(rec))
	}
	return keys, nil
}

// GetWithOwner joins the license key to its owning user in one query; the
// validation endpoint needs both to report owner identity on success.
func (r *licenseKeyRepository) GetWithOwner(ctx context.Context, licenseKey string) (domain.LicenseKey, domain.User, error) {
	var row struct {
		licenseKeyModel
		OwnerUsername string `gorm:"column:owner_username"`
		OwnerEmail    string `gorm:"column:owner_email"`
	}
	err := r.db.WithContext(ctx).
		Model(&licenseKeyModel{}).
		Select("license_keys.*, users.username AS owner_username, users.email AS owner_email").
		Joins("JOIN users ON users.id = license_keys.user_id").
		Where("license_keys.license_key = ?", licenseKey).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LicenseKey{}, domain.User{}, domain.ErrNotFound
		}
		return domain.LicenseKey{}, domain.User{}, err
	}
	owner := domain.User{
		ID:       row.UserID,
		Username: row.OwnerUsername,
		Email:    row.OwnerEmail,
	}
	return toDomainLicenseKey(row.licenseKeyModel), owner, nil
}

func (r *licenseKeyRepository) SetActive(ctx context.Context, licenseKey string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&licenseKeyModel{}).
		Where("license_key = ?", licenseKey).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
