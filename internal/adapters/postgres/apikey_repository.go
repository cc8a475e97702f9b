package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/internal/domain"
)

type apiKeyRepository struct {
	db *gorm.DB
}

func (r *apiKeyRepository) Create(ctx context.Context, apiKey, description string, createdAt time.Time) (domain.APIKey, error) {
	rec := apiKeyModel{
		APIKey:      apiKey,
		Description: description,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.APIKey{}, domain.ErrConflict
		}
		return domain.APIKey{}, err
	}
	return toDomainAPIKey(rec), nil
}

func (r *apiKeyRepository) GetByKey(ctx context.Context, apiKey string) (domain.APIKey, error) {
	var rec apiKeyModel
	if err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.APIKey{}, domain.ErrNotFound
		}
		return domain.APIKey{}, err
	}
	return toDomainAPIKey(rec), nil
}
