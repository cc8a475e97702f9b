package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const resetTokenBytes = 32

// ResetTokenIssuer generates one-time password-reset tokens: 32 random bytes,
// hex-encoded for the user, with a deterministic SHA-256 lookup hash for storage.
type ResetTokenIssuer struct{}

func NewResetTokenIssuer() *ResetTokenIssuer {
	return &ResetTokenIssuer{}
}

func (i *ResetTokenIssuer) Issue() (string, string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	plaintext := hex.EncodeToString(raw)
	return plaintext, i.HashToken(plaintext), nil
}

// HashToken recomputes the lookup hash from a URL-supplied token. Keyless:
// verification never depends on a shared secret.
func (i *ResetTokenIssuer) HashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}
