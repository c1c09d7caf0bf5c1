// Package cryptox implements password hashing for Facenote accounts.
// Passwords are stored as a salted Argon2id digest and verified with a
// constant-time compare; the plaintext never reaches durable storage.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of per-account salts generated at registration.
const SaltSize = 32

// HashPassword derives a 32-byte Argon2id digest from password and salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password hashes to digest under salt.
// The comparison is constant-time.
func VerifyPassword(password []byte, salt []byte, digest []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}
