package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyhaven/keyhaven/internal/domain"
	"github.com/keyhaven/keyhaven/internal/ports"
)

// CachedAPIKeyRepository is a read-through cache in front of the API-key store.
// The validation endpoint authenticates every machine call with the same handful
// of keys, so successful lookups are cached under a short TTL; a deactivated key
// is honored once the entry expires. Negative results are never cached, and the
// raw secret never appears in a Redis key, only its digest.
type CachedAPIKeyRepository struct {
	inner  ports.APIKeyRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedAPIKeyRepository(inner ports.APIKeyRepository, client *redis.Client, ttl time.Duration) *CachedAPIKeyRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedAPIKeyRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedAPIKeyRepository) Create(ctx context.Context, apiKey, description string, createdAt time.Time) (domain.APIKey, error) {
	created, err := r.inner.Create(ctx, apiKey, description, createdAt)
	if err != nil {
		return domain.APIKey{}, err
	}
	_ = r.client.Del(ctx, cacheKey(apiKey)).Err()
	return created, nil
}

func (r *CachedAPIKeyRepository) GetByKey(ctx context.Context, apiKey string) (domain.APIKey, error) {
	key := cacheKey(apiKey)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached domain.APIKey
		if unmarshalErr := json.Unmarshal(raw, &cached); unmarshalErr == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailability degrades to store reads; it is never an outage.
		return r.inner.GetByKey(ctx, apiKey)
	}

	record, err := r.inner.GetByKey(ctx, apiKey)
	if err != nil {
		return domain.APIKey{}, err
	}
	if payload, marshalErr := json.Marshal(record); marshalErr == nil {
		_ = r.client.Set(ctx, key, payload, r.ttl).Err()
	}
	return record, nil
}

func cacheKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return "license:apikey:" + hex.EncodeToString(sum[:])
}
