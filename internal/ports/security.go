package ports

import "time"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// SessionIdentity is the client-held identity claim. The session is the cookie;
// there is no server-side session record to consult.
type SessionIdentity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// SessionCodec serializes an identity to and from an opaque signed cookie value.
// Decode reports absence for missing, malformed, or badly signed values rather
// than returning an error: callers treat all of those as "anonymous".
type SessionCodec interface {
	Encode(identity SessionIdentity, now time.Time) (string, error)
	Decode(value string) (SessionIdentity, bool)
	TTL() time.Duration
}

// ResetTokenIssuer produces one-time password-reset tokens. Only the lookup hash
// is ever persisted; the plaintext goes to the user and is recoverable from a URL
// with HashToken, which needs no secret key.
type ResetTokenIssuer interface {
	Issue() (plaintext, lookupHash string, err error)
	HashToken(plaintext string) string
}
