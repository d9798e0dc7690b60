// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor applied when hashing new passwords.
//
// # Tuning
//
// Raising it slows every login and registration; lowering it weakens
// resistance to offline brute force. Existing hashes keep the cost they
// were created with (bcrypt encodes it in the hash string), so changing
// this value only affects newly stored passwords.
const bcryptCost = bcrypt.DefaultCost

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// The returned string is self-describing: it embeds the algorithm version,
// cost, and salt, so verification needs no external state.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version
// using bcrypt's constant-time comparison.
//
// A malformed or truncated stored hash simply does not verify — it never
// panics and never returns an error to the caller.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
