// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a session token remains valid.
	// A single day balances shopper convenience against leaked-token exposure.
	AccessTokenTTL = 24 * time.Hour

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8

	// PasswordMaxBytes caps password size in bytes, matching the bcrypt
	// input limit. Counting runes would let a multibyte password through.
	PasswordMaxBytes = 72
)
