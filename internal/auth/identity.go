// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity verification and session-token core.

It defines the Identity entity and the logic for credential verification,
registration, and bearer-token validation.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to identity. All
collaborators (storage, token codec) are injected explicitly through the
service constructor — there is no ambient security context.
*/
package auth

import (
	"time"
)

// # Domain Entities

// Identity represents a registered account on the Kaimono platform.
type Identity struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"` // Explicitly omitted from JSON for security.
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AuthResult is the transport-ready outcome of a successful authentication
// or registration. Both flows produce it through the same issuance path.
type AuthResult struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldFullName = "full_name"
	FieldPhone    = "phone"
	FieldToken    = "token"
)
