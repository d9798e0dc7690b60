// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
)

// # Failure Taxonomy

// Machine-readable codes for every way an auth operation can fail.
// Callers compare codes via [apperr.CodeOf], never message strings.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeMalformedToken     = "MALFORMED_TOKEN"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeExpiredToken       = "EXPIRED_TOKEN"
	CodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	CodePersistenceError   = "PERSISTENCE_ERROR"
)

// ErrInvalidCredentials is returned when the email is unknown OR the password
// is wrong. The two cases are deliberately indistinguishable to prevent
// account enumeration.
func ErrInvalidCredentials() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrAccountInactive is returned when credentials verify but the account
// has been deactivated.
func ErrAccountInactive() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeAccountInactive,
		Message:    "Account is deactivated",
		HTTPStatus: http.StatusForbidden,
	}
}

// ErrEmailAlreadyExists is returned when a registration targets an email
// that already has an account.
func ErrEmailAlreadyExists() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeEmailAlreadyExists,
		Message:    "Email is already registered",
		HTTPStatus: http.StatusConflict,
	}
}

// ErrMalformedToken is returned when a token cannot be decoded at all.
func ErrMalformedToken() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeMalformedToken,
		Message:    "Token is malformed",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrInvalidSignature is returned when a token decodes but its signature
// does not verify (tampered payload or foreign signing key).
func ErrInvalidSignature() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeInvalidSignature,
		Message:    "Token signature is invalid",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrExpiredToken is returned when a structurally valid, correctly signed
// token is past its expiry instant (the boundary instant itself is expired).
func ErrExpiredToken() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeExpiredToken,
		Message:    "Token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrIdentityNotFound is returned when a valid token references an identity
// that no longer exists in storage.
func ErrIdentityNotFound() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeIdentityNotFound,
		Message:    "Identity no longer exists",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrPersistence wraps an underlying storage failure. The cause is kept for
// server-side logging only.
func ErrPersistence(cause error) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodePersistenceError,
		Message:    "A storage error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}
