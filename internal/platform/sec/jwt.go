// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenCodec] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Typed parse failures. The auth service maps these 1:1 onto its
// client-visible failure taxonomy, so they must stay distinguishable.
var (
	// ErrTokenMalformed is returned when the token cannot be decoded at all,
	// or when its claims are structurally invalid (wrong issuer, bad types).
	ErrTokenMalformed = errors.New("sec: token malformed")

	// ErrTokenSignature is returned when the token decodes but its signature
	// does not match the payload under the process-wide secret.
	ErrTokenSignature = errors.New("sec: token signature invalid")

	// ErrTokenExpired is returned when a well-formed, correctly signed token
	// has passed its expiry instant.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims represents the payload embedded inside an access token.
//
// # Why custom claims?
//
// Subject, issued-at, and expiry are explicit fields (never inferred), so
// parsing is a total function over well-formed tokens. The email rides along
// so request logs can name the caller without a database round trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	IdentityID string `json:"uid"`
	Email      string `json:"eml"`
}

// TokenService handles generation and verification of access tokens using
// HMAC-SHA256 over a process-wide secret.
//
// # Lifecycle
//
// The secret is loaded once at startup from configuration and never rotated
// during the process lifetime. After construction the service is read-only
// and safe for concurrent use without locking.
type TokenService struct {
	secret     []byte
	issuer     string
	timeToLive time.Duration

	// now is the clock used during verification. Overridable in tests to pin
	// the expiry boundary.
	now func() time.Time
}

// NewTokenService creates a new TokenService.
//
// It refuses secrets shorter than minSecretLength bytes: a short HMAC key
// makes every token forgeable offline.
func NewTokenService(secret, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: token secret must be at least %d bytes, got %d", minSecretLength, len(secret))
	}
	if timeToLive <= 0 {
		return nil, fmt.Errorf("sec: token time-to-live must be positive, got %s", timeToLive)
	}

	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		timeToLive: timeToLive,
		now:        time.Now,
	}, nil
}

// minSecretLength is the smallest HMAC key accepted, matching the SHA-256
// block-derived recommendation of RFC 2104.
const minSecretLength = 32

// Issue creates a signed access token for the given identity.
//
// The expiry is always now + the fixed TTL configured at construction.
// Registration and login both issue through this single method, so every
// token in the system has an identical shape.
func (service *TokenService) Issue(identityID, email string, now time.Time) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.timeToLive)),
		},
		IdentityID: identityID,
		Email:      email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Parse verifies a token string and returns its claims.
//
// # Validation Order
//
//  1. Structural decoding — failure yields [ErrTokenMalformed].
//  2. Signature recomputation over the payload (constant-time comparison
//     inside the JWT library) — mismatch yields [ErrTokenSignature].
//  3. Expiry against the current clock — a token whose expiry instant equals
//     "now" is already expired (the boundary is inclusive) and yields
//     [ErrTokenExpired].
//
// Any other claim irregularity (unexpected issuer, missing expiry, foreign
// signing algorithm) is reported as [ErrTokenMalformed]: such tokens were
// never issued by this process.
func (service *TokenService) Parse(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
