// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/kaimono/internal/platform/ctxkey"
	"github.com/taibuivan/kaimono/internal/platform/sec"
)

// # Authentication & Authorization

// TokenValidator verifies a bearer token and resolves the live identity
// behind it. Implemented by the auth service.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*sec.IdentityRef, error)
}

// Authenticate parses the Authorization header and, if a valid bearer token is
// present, stores the resolved identity in the request context.
//
// # Design
//
// This middleware is OPTIONAL authentication: requests without a token (or
// with an invalid one) pass through unauthenticated. Route-level enforcement
// is done by [RequireAuth]. This keeps public endpoints (catalogue browsing)
// and protected endpoints (account, product management) on one chain.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract the bearer token (if any)
			token := bearerToken(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Validate signature, expiry, and that the identity still exists
			// and is active. A stale token for a deleted or deactivated account
			// fails here even though its signature is still valid.
			identity, err := validator.ValidateToken(request.Context(), token)
			if err != nil {
				// Invalid token on an optional route: proceed unauthenticated.
				// RequireAuth will reject if the route demands a valid identity.
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Attach the identity to the request context
			ctx := context.WithValue(request.Context(), ctxkey.KeyIdentity, identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate successfully.
// It must be mounted after [Authenticate] on the route group it protects.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if GetIdentity(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// GetIdentity returns the authenticated identity from the context,
// or nil if the request is unauthenticated.
func GetIdentity(ctx context.Context) *sec.IdentityRef {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(*sec.IdentityRef)
	if !ok {
		return nil
	}
	return identity
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(request *http.Request) string {
	header := request.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
