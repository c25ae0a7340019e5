package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 is the minimum accepted entropy for an invite secret.
	TokenSize128 = 16
	// TokenSize256 is what invites are minted with (43 chars base64url).
	TokenSize256 = 32
)

// redactKeep is how many characters of a secret survive on each side of a
// redacted fingerprint.
const redactKeep = 4

// GenerateToken creates a cryptographically secure random token of the specified byte length.
// The token is returned as a base64url-encoded string (URL-safe, no padding) so
// it can be embedded directly in a path segment.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// Only fingerprints are persisted; the raw secret exists in the issuance
// response and nowhere else on the server.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// FingerprintsEqual compares two fingerprints in constant time.
func FingerprintsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RedactToken returns a short diagnostic form of a secret such as
// "AbCd…wXyZ". Secrets too short to redact meaningfully collapse to "…".
func RedactToken(token string) string {
	if len(token) <= 3*redactKeep {
		return "…"
	}
	return token[:redactKeep] + "…" + token[len(token)-redactKeep:]
}

// LooksLikeToken reports whether s could be a secret minted by GenerateToken
// with at least 128 bits of entropy. It is a cheap pre-filter for handlers,
// not a validity check.
func LooksLikeToken(s string) bool {
	if len(s) < base64.RawURLEncoding.EncodedLen(TokenSize128) || len(s) > 256 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_')
	}) == -1
}
