// Package credential generates the one-shot secrets delivered by email: a
// 6-digit numeric code for manual entry and a high-entropy token embedded in
// the verification link. Both are drawn from crypto/rand; a failing randomness
// source is surfaced as an error, never degraded to a weaker generator.
package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

var codeSpace = big.NewInt(1000000)

// NewCode returns 6 uniformly distributed ASCII digits. The full
// 000000-999999 space is used, so leading zeros are valid.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewToken returns a cryptographically random 64-character lowercase hex
// token (32 bytes of entropy).
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
