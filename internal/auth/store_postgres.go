// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth: PostgreSQL storage layer for identities.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [IdentityRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/internal/platform/dberr"
)

// # Identity Repository

// PostgresIdentityRepository implements the IdentityRepository interface using pgx.
type PostgresIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository creates a new PostgreSQL implementation of the IdentityRepository.
func NewIdentityRepository(pool *pgxpool.Pool) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{pool: pool}
}

/*
Create persists a new identity record into the users.identity table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided. Relies on the unique email index to win or lose
concurrent registrations deterministically.

Parameters:
  - context: context.Context
  - identity: *Identity (Entity to persist)

Returns:
  - error: ErrEmailAlreadyExists on unique violation, or connectivity errors
*/
func (repository *PostgresIdentityRepository) Create(context context.Context, identity *Identity) error {
	const query = `
		INSERT INTO users.identity (
			id, email, fullname, phone, passwordhash, isactive, lastlogin, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		identity.ID,
		identity.Email,
		identity.FullName,
		identity.Phone,
		identity.PasswordHash,
		identity.IsActive,
		identity.LastLogin,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	if err != nil {
		// Two registrations raced past the existence check: the second
		// insert loses at the unique email index.
		if dberr.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists()
		}
		return fmt.Errorf("postgres_identity_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an identity record by its unique email address.

Description: Performs a lookup on the identity table. The caller is expected
to have normalized the email beforehand.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Identity: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	const query = `
		SELECT id, email, fullname, phone, passwordhash, isactive, lastlogin, createdat, updatedat
		FROM users.identity
		WHERE email = $1`

	identity := &Identity{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.FullName,
		&identity.Phone,
		&identity.PasswordHash,
		&identity.IsActive,
		&identity.LastLogin,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Identity")
		}
		return nil, fmt.Errorf("postgres_identity_repo_find_by_email_failed: %w", err)
	}

	return identity, nil
}

/*
FindByID retrieves an identity record by its unique ID.

Description: Primary key resolution for identity accounts. Used by token
validation to confirm the account still exists.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Identity: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresIdentityRepository) FindByID(context context.Context, id string) (*Identity, error) {
	const query = `
		SELECT id, email, fullname, phone, passwordhash, isactive, lastlogin, createdat, updatedat
		FROM users.identity
		WHERE id = $1`

	identity := &Identity{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&identity.ID,
		&identity.Email,
		&identity.FullName,
		&identity.Phone,
		&identity.PasswordHash,
		&identity.IsActive,
		&identity.LastLogin,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Identity")
		}
		return nil, fmt.Errorf("postgres_identity_repo_find_by_id_failed: %w", err)
	}

	return identity, nil
}

/*
ExistsByEmail reports whether any identity owns the given email.

Description: Cheap pre-check used by registration for a friendly early
conflict. The unique index remains the authority under concurrency.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: true when the email is taken
  - error: Execution errors
*/
func (repository *PostgresIdentityRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.identity WHERE email = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_identity_repo_exists_by_email_failed: %w", err)
	}

	return exists, nil
}

/*
UpdateLastLogin records the instant of a successful authentication.

Parameters:
  - context: context.Context
  - identityID: string
  - at: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresIdentityRepository) UpdateLastLogin(context context.Context, identityID string, at time.Time) error {
	const query = `
		UPDATE users.identity
		SET lastlogin = $2, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, identityID, at)
	if err != nil {
		return fmt.Errorf("postgres_identity_repo_update_last_login_failed: %w", err)
	}

	return nil
}
