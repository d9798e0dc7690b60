// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/internal/platform/ctxkey"
	"github.com/taibuivan/kaimono/internal/platform/sec"
	"github.com/taibuivan/kaimono/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity extracts the verified caller identity from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *sec.IdentityRef {
	identity, ok := request.Context().Value(ctxkey.KeyIdentity).(*sec.IdentityRef)
	if !ok {
		return nil
	}
	return identity
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns:
  - *sec.IdentityRef: The verified caller identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*sec.IdentityRef, error) {

	// Get the verified identity
	identity := Identity(request)

	// If the caller is not authenticated, return an error
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return identity, nil
}

/*
RequiredIdentityID returns the identity ID of the currently logged-in caller.

Returns:
  - string: Identity UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredIdentityID(request *http.Request) (string, error) {

	// Get the verified identity
	identity, err := RequiredIdentity(request)

	// If the caller is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return identity.ID, nil
}
