// Package cryptox derives password verifiers for locally registered users.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"golang.org/x/crypto/argon2"
)

const SaltSize = 32

// DeriveKey stretches password with argon2id (1 pass, 64 MiB, 4 lanes, 32 bytes).
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key so the key itself is never stored.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewCredentials generates a fresh salt and the matching verifier.
func NewCredentials(password []byte) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key)
}

// Verify reports whether password matches salt and verifier.
func Verify(password, salt, verifier []byte) bool {
	if len(salt) == 0 || len(verifier) == 0 {
		return false
	}
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}
