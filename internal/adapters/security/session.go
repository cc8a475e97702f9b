package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keyhaven/keyhaven/internal/ports"
)

// CookieSessionCodec signs session identities into compact HS256 JWTs carried in
// the session cookie. The cookie is the session: nothing is stored server-side,
// the server only verifies the signature and reads the claims.
type CookieSessionCodec struct {
	secret []byte
	ttl    time.Duration
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewCookieSessionCodec(secret string, ttl time.Duration) (*CookieSessionCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &CookieSessionCodec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *CookieSessionCodec) Encode(identity ports.SessionIdentity, now time.Time) (string, error) {
	claims := sessionClaims{
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode reads an identity back from a cookie value. Any failure, a bad
// signature, wrong algorithm, expired or malformed token, reads as "no session".
func (c *CookieSessionCodec) Decode(value string) (ports.SessionIdentity, bool) {
	if value == "" {
		return ports.SessionIdentity{}, false
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ports.SessionIdentity{}, false
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 || claims.Username == "" {
		return ports.SessionIdentity{}, false
	}

	return ports.SessionIdentity{UserID: userID, Username: claims.Username}, true
}

func (c *CookieSessionCodec) TTL() time.Duration {
	return c.ttl
}
