// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/internal/platform/sec"
	"github.com/taibuivan/kaimono/pkg/uuidv7"
)

// # Contracts & Types

// TokenCodec defines the contract for issuing and parsing session tokens.
// Implemented by [sec.TokenService].
type TokenCodec interface {
	// Issue creates a signed token string for the given identity.
	//
	// # Parameters
	//   - identityID: The ID of the account.
	//   - email: The normalized email of the account.
	//   - now: The issuance instant (expiry is derived from it).
	//
	// # Returns
	//   - A signed token string, or an error if signing fails.
	Issue(identityID, email string, now time.Time) (string, error)

	// Parse verifies a token string and returns its claims.
	//
	// # Returns
	//   - The verified claims, or one of the sec sentinel errors
	//     (ErrTokenMalformed, ErrTokenSignature, ErrTokenExpired).
	Parse(token string) (*sec.AuthClaims, error)
}

// Service implements the identity verification use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
//
// # Failure Contract
//
// Every method returns a typed [apperr.AppError] from the auth failure
// taxonomy. No failure is ever swallowed into a nil result: callers can
// always distinguish "bad credentials" from "storage down".
type Service struct {
	identityRepository IdentityRepository
	tokenCodec         TokenCodec

	// now is the clock source; swapped in tests for deterministic expiry.
	now func() time.Time
}

// NewService constructs a new auth [Service] with its explicit dependencies.
func NewService(identityRepo IdentityRepository, tokenCodec TokenCodec) *Service {
	return &Service{
		identityRepository: identityRepo,
		tokenCodec:         tokenCodec,
		now:                time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

/*
Register validates, hashes, and persists a brand-new identity, then signs the
account in by issuing a session token through the same path as Authenticate.

Description: The email is normalized before any storage interaction so that
"User@Example.com " and "user@example.com" resolve to one account. A friendly
existence pre-check runs first, but the unique email index is the authority:
a registration that loses a concurrent race still comes back as
ErrEmailAlreadyExists, never as a raw storage error.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthResult: Session token plus profile basics for the new account
  - error: ErrEmailAlreadyExists, ErrPersistence, or hashing failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthResult, error) {

	// ── 1. Normalize ──
	email := normalizeEmail(input.Email)

	// ── 2. Friendly duplicate pre-check ──
	exists, err := service.identityRepository.ExistsByEmail(context, email)
	if err != nil {
		return nil, ErrPersistence(err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists()
	}

	// ── 3. Hash the password ──
	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	// ── 4. Persist ──
	// Time-sortable ID to prevent PG index fragmentation.
	// Registration signs the account in, so it counts as the first login.
	now := service.now()
	identity := &Identity{
		ID:           uuidv7.New(),
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hashedPassword,
		IsActive:     true,
		LastLogin:    &now,
	}

	if err := service.identityRepository.Create(context, identity); err != nil {
		// The repository already translates the unique violation.
		if apperr.CodeOf(err) == CodeEmailAlreadyExists {
			return nil, err
		}
		return nil, ErrPersistence(err)
	}

	// ── 5. Issue the session token (shared path with Authenticate) ──
	return service.issueResult(identity)
}

// # Authentication Flow

/*
Authenticate verifies an email/password pair and issues a session token.

Description: Performs the full credential check — lookup, constant-time
password comparison, active-flag gate — then records the login instant and
issues a token. Unknown email and wrong password both return
ErrInvalidCredentials so callers cannot enumerate accounts.

Parameters:
  - context: context.Context
  - email: string (raw, will be normalized)
  - password: string

Returns:
  - *AuthResult: Session token plus profile basics
  - error: ErrInvalidCredentials, ErrAccountInactive, or ErrPersistence
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*AuthResult, error) {

	// ── 1. Lookup by normalized email ──
	identity, err := service.identityRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		// Generic kind for missing accounts to prevent enumeration; anything
		// else is a genuine storage failure and must surface as such.
		if apperr.CodeOf(err) == "NOT_FOUND" {
			return nil, ErrInvalidCredentials()
		}
		return nil, ErrPersistence(err)
	}

	// ── 2. Verify password (constant-time comparison in bcrypt) ──
	if !sec.CheckPasswordHash(password, identity.PasswordHash) {
		return nil, ErrInvalidCredentials()
	}

	// ── 3. Gate on account status ──
	// Checked only after the password verifies, so the inactive signal never
	// leaks whether a password guess was correct for an unknown email.
	if !identity.IsActive {
		return nil, ErrAccountInactive()
	}

	// ── 4. Record the login instant ──
	// A failed write here aborts the login: issuing a token while storage is
	// misbehaving would hand out sessions the audit trail never saw.
	if err := service.identityRepository.UpdateLastLogin(context, identity.ID, service.now()); err != nil {
		return nil, ErrPersistence(err)
	}

	// ── 5. Issue the session token ──
	return service.issueResult(identity)
}

// # Token Validation

/*
ValidateToken verifies a bearer token and resolves the live identity behind it.

Description: Decoding, signature, and expiry failures each map to their own
failure kind, checked in that order. A verified token then triggers a storage
round-trip: a token for a deleted account fails with ErrIdentityNotFound, and
one for a deactivated account with ErrAccountInactive — the token alone is
never trusted as proof that the account is still valid.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *sec.IdentityRef: Minimal reference to the live identity
  - error: ErrMalformedToken, ErrInvalidSignature, ErrExpiredToken,
    ErrIdentityNotFound, ErrAccountInactive, or ErrPersistence
*/
func (service *Service) ValidateToken(context context.Context, token string) (*sec.IdentityRef, error) {

	// ── 1. Verify structure, signature, and expiry ──
	claims, err := service.tokenCodec.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, sec.ErrTokenSignature):
			return nil, ErrInvalidSignature()
		case errors.Is(err, sec.ErrTokenExpired):
			return nil, ErrExpiredToken()
		default:
			return nil, ErrMalformedToken()
		}
	}

	// ── 2. Confirm the identity still exists ──
	identity, err := service.identityRepository.FindByID(context, claims.IdentityID)
	if err != nil {
		if apperr.CodeOf(err) == "NOT_FOUND" {
			return nil, ErrIdentityNotFound()
		}
		return nil, ErrPersistence(err)
	}

	// ── 3. Confirm the identity is still active ──
	if !identity.IsActive {
		return nil, ErrAccountInactive()
	}

	return &sec.IdentityRef{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: identity.FullName,
	}, nil
}

// # Internal Helpers

// issueResult signs a session token for the identity and assembles the
// transport-ready result. Registration and authentication both end here so
// token issuance can never drift between the two flows.
func (service *Service) issueResult(identity *Identity) (*AuthResult, error) {
	token, err := service.tokenCodec.Issue(identity.ID, identity.Email, service.now())
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &AuthResult{
		Token:    token,
		Email:    identity.Email,
		FullName: identity.FullName,
	}, nil
}

// normalizeEmail trims surrounding whitespace and lowercases the address.
// Normalization happens exactly once, at the service boundary; storage only
// ever sees the canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
