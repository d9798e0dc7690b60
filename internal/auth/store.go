// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Identity Data Access

// IdentityRepository defines the data access contract for identity accounts.
type IdentityRepository interface {

	/*
		FindByID returns the identity with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		FindByEmail returns the identity with the given (normalized) email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		ExistsByEmail reports whether any identity owns the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - bool: true when an account with this email exists
		  - error: Database retrieval failures
	*/
	ExistsByEmail(context context.Context, email string) (bool, error)

	/*
		Create persists a brand-new identity to storage.

		The email column carries a unique constraint; a duplicate insert
		(including one that loses a concurrent-registration race) surfaces
		as [ErrEmailAlreadyExists].

		Parameters:
		  - context: context.Context
		  - identity: *Identity

		Returns:
		  - error: ErrEmailAlreadyExists or persistence failures
	*/
	Create(context context.Context, identity *Identity) error

	/*
		UpdateLastLogin records the instant of a successful authentication.

		Parameters:
		  - context: context.Context
		  - identityID: string
		  - at: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, identityID string, at time.Time) error
}
