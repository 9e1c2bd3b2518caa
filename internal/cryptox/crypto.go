// Package cryptox implements the credential primitives of the registry:
// salt generation, the salted one-way digest and its verification, and
// one-time access code generation.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// saltSize is the number of random bytes in a salt before hex encoding.
const saltSize = 16

// accessCodeLen is the length of a generated one-time access code.
const accessCodeLen = 6

// accessCodeAlphabet holds the characters an access code is drawn from.
const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSalt returns a new random salt as a printable hex string.
// The result is twice saltSize characters long.
func GenerateSalt() (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashCredential returns the lowercase hex sha256 digest of salt+secret.
// The result is always the full digest width (64 characters).
func HashCredential(salt, secret string) string {
	sum := sha256.Sum256([]byte(salt + secret))
	return hex.EncodeToString(sum[:])
}

// VerifyCredential recomputes the digest for the candidate secret and
// compares it with the expected hash in constant time.
func VerifyCredential(salt, secret, expectedHash string) bool {
	computed := HashCredential(salt, secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}

// GenerateAccessCode returns a 6-character one-time code drawn with
// replacement from accessCodeAlphabet.
func GenerateAccessCode() (string, error) {
	b := make([]byte, accessCodeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := make([]byte, accessCodeLen)
	for i, v := range b {
		code[i] = accessCodeAlphabet[int(v)%len(accessCodeAlphabet)]
	}
	return string(code), nil
}
