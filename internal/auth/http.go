// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for identity management.

It implements the gateway for the authentication lifecycle — account creation,
credential verification, and current-session introspection.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Session tokens travel as bearer tokens, never cookies.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kaimono/internal/platform/middleware"
	requestutil "github.com/taibuivan/kaimono/internal/platform/request"
	"github.com/taibuivan/kaimono/internal/platform/respond"
	"github.com/taibuivan/kaimono/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the identity lifecycle entry points
// (Registration, Login, Session introspection).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and returns a session token.
//   - POST /login    : Authenticates and returns a session token.
//   - GET  /me       : Returns the identity behind the presented token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new identity.

POST /api/v1/auth/register

Description: Validates input, persists a new identity, and returns a session
token so the account is signed in immediately.

Request:
  - Body: registerRequest (Email, Password, FullName, Phone)

Response:
  - 201: AuthResult: Session token and profile basics
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: EMAIL_ALREADY_EXISTS: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxBytes(FieldPassword, input.Password, PasswordMaxBytes).
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 100)

	// Phone is optional but must be plausible when provided.
	if input.Phone != "" {
		validator.Phone(FieldPhone, input.Phone)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Phone:    input.Phone,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
Login authenticates an identity and issues a session token.

POST /api/v1/auth/login

Description: Verifies credentials and returns a signed, time-bound token.
Unknown email and wrong password are indistinguishable in the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: AuthResult: Session token and profile basics
  - 401: INVALID_CREDENTIALS: Unknown email or wrong password
  - 403: ACCOUNT_INACTIVE: Credentials valid but account deactivated
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Authenticate(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Me returns the identity behind the presented session token.

GET /api/v1/auth/me

Description: The Authenticate middleware has already validated the token and
confirmed the account is live; this handler only echoes the resolved identity.

Response:
  - 200: IdentityRef: ID, email, and full name of the caller
  - 401: UNAUTHORIZED: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"id":        identity.ID,
		FieldEmail:  identity.Email,
		"full_name": identity.FullName,
	})
}
