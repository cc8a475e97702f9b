package application

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/keyhaven/keyhaven/internal/domain"
	"github.com/keyhaven/keyhaven/internal/ports"
)

// memUserRepo is an in-memory UserRepository honoring the same contracts as the
// store-backed one, including ErrConflict on duplicates and the conditional
// semantics of ConsumeResetToken.
type memUserRepo struct {
	nextID int64
	users  map[int64]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == params.Email || u.Username == params.Username {
			return domain.User{}, domain.ErrConflict
		}
	}
	r.nextID++
	user := domain.User{
		ID:           r.nextID,
		Email:        params.Email,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    params.CreatedAt,
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *memUserRepo) GetByUsernameOrEmail(_ context.Context, identifier string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == identifier || u.Username == identifier {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *memUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) SetResetToken(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.ResetPasswordToken = &tokenHash
	user.ResetPasswordExpires = &expiresAt
	r.users[userID] = user
	return nil
}

func (r *memUserRepo) FindByValidResetToken(_ context.Context, tokenHash string, now time.Time) (domain.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *memUserRepo) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) error {
	for id, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			u.PasswordHash = passwordHash
			u.ResetPasswordToken = nil
			u.ResetPasswordExpires = nil
			r.users[id] = u
			return nil
		}
	}
	return domain.ErrNotFound
}

type memLicenseRepo struct {
	nextID   int64
	licenses map[string]domain.LicenseKey
	owners   *memUserRepo
}

func newMemLicenseRepo(owners *memUserRepo) *memLicenseRepo {
	return &memLicenseRepo{licenses: map[string]domain.LicenseKey{}, owners: owners}
}

func (r *memLicenseRepo) Create(_ context.Context, userID int64, licenseKey string, createdAt time.Time) (domain.LicenseKey, error) {
	if _, exists := r.licenses[licenseKey]; exists {
		return domain.LicenseKey{}, domain.ErrConflict
	}
	r.nextID++
	key := domain.LicenseKey{
		ID:         r.nextID,
		UserID:     userID,
		LicenseKey: licenseKey,
		IsActive:   true,
		CreatedAt:  createdAt,
	}
	r.licenses[licenseKey] = key
	return key, nil
}

func (r *memLicenseRepo) ListByUser(_ context.Context, userID int64) ([]domain.LicenseKey, error) {
	var out []domain.LicenseKey
	for _, k := range r.licenses {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *memLicenseRepo) GetWithOwner(ctx context.Context, licenseKey string) (domain.LicenseKey, domain.User, error) {
	key, ok := r.licenses[licenseKey]
	if !ok {
		return domain.LicenseKey{}, domain.User{}, domain.ErrNotFound
	}
	owner, err := r.owners.GetByID(ctx, key.UserID)
	if err != nil {
		return domain.LicenseKey{}, domain.User{}, err
	}
	return key, owner, nil
}

func (r *memLicenseRepo) SetActive(_ context.Context, licenseKey string, active bool) error {
	key, ok := r.licenses[licenseKey]
	if !ok {
		return domain.ErrNotFound
	}
	key.IsActive = active
	r.licenses[licenseKey] = key
	return nil
}

type memAPIKeyRepo struct {
	nextID int64
	keys   map[string]domain.APIKey
}

func newMemAPIKeyRepo() *memAPIKeyRepo {
	return &memAPIKeyRepo{keys: map[string]domain.APIKey{}}
}

func (r *memAPIKeyRepo) Create(_ context.Context, apiKey, description string, createdAt time.Time) (domain.APIKey, error) {
	if _, exists := r.keys[apiKey]; exists {
		return domain.APIKey{}, domain.ErrConflict
	}
	r.nextID++
	key := domain.APIKey{
		ID:          r.nextID,
		APIKey:      apiKey,
		Description: description,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
	r.keys[apiKey] = key
	return key, nil
}

func (r *memAPIKeyRepo) GetByKey(_ context.Context, apiKey string) (domain.APIKey, error) {
	key, ok := r.keys[apiKey]
	if !ok {
		return domain.APIKey{}, domain.ErrNotFound
	}
	return key, nil
}

// stubHasher marks hashes with a prefix so assertions can see exactly what was
// stored without paying bcrypt cost in every test.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// stubTokenIssuer issues deterministic sequential tokens.
type stubTokenIssuer struct {
	issued int
}

func (s *stubTokenIssuer) Issue() (string, string, error) {
	s.issued++
	plaintext := "token-" + strconv.Itoa(s.issued)
	return plaintext, s.HashToken(plaintext), nil
}

func (s *stubTokenIssuer) HashToken(token string) string {
	return "hash-of-" + strings.TrimSpace(token)
}

type fixture struct {
	svc      *Service
	users    *memUserRepo
	licenses *memLicenseRepo
	apiKeys  *memAPIKeyRepo
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newMemUserRepo()
	licenses := newMemLicenseRepo(users)
	apiKeys := newMemAPIKeyRepo()

	f := &fixture{
		users:    users,
		licenses: licenses,
		apiKeys:  apiKeys,
		now:      time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(Dependencies{
		Config: Config{
			ResetTokenTTL:    time.Hour,
			ExposeResetLinks: true,
		},
		Users:       users,
		Licenses:    licenses,
		APIKeys:     apiKeys,
		Hasher:      stubHasher{},
		ResetTokens: &stubTokenIssuer{},
	})
	f.svc.nowFn = func() time.Time { return f.now }
	return f
}

func (f *fixture) register(ctx context.Context, email, username, password string) (AuthResult, error) {
	return f.svc.Register(ctx, RegisterRequest{
		Email:           email,
		Username:        username,
		Password:        password,
		ConfirmPassword: password,
	})
}
