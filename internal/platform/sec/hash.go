// Copyright (c) 2026 Veranda Systems. All rights reserved.

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// HashToken hashes an opaque token (e.g. a signed refresh JWT) with bcrypt.
//
// bcrypt rejects inputs over 72 bytes and signed JWTs always exceed that, so
// the token is reduced to a SHA-256 digest first. The stored value remains an
// adaptive hash: replaying a stolen database row still requires inverting
// bcrypt, not just a fast digest.
func HashToken(token string) (string, error) {
	digest := sha256.Sum256([]byte(token))
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash token: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckTokenHash compares a plain token against a hash produced by [HashToken].
func CheckTokenHash(token, existingHash string) bool {
	digest := sha256.Sum256([]byte(token))
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(hex.EncodeToString(digest[:])))
	return err == nil
}
