// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product provides the PostgreSQL implementation for the catalogue's data access.

It leans on a few PostgreSQL features to keep discovery fast:
  - Window Functions: COUNT(*) OVER() returns total result counts without a
    separate COUNT query.
  - Set Operations: ANY($n) implements multi-category filtering in one pass.
  - Trigram-friendly ILIKE search over name and description.
*/
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresProductRepository implements the [ProductRepository] interface using pgx.
type postgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs a PostgreSQL backed product store.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &postgresProductRepository{pool: pool}
}

// productColumns is the canonical SELECT column list for hydration.
const productColumns = "id, name, slug, description, price, category, stock, imagekey, isactive, createdat, updatedat"

/*
List returns a filtered, paginated slice of products and the total count.

Description: Uses COUNT(*) OVER() to retrieve the total record count in the
same round-trip, and dynamic WHERE construction for the optional filters.

Parameters:
  - context: context.Context
  - filter: Filter (Search, categories, visibility)
  - limit: int
  - offset: int

Returns:
  - []*Product: Slice of hydrated product entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *postgresProductRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT ` + productColumns + `,
			COUNT(*) OVER() AS total_count
		FROM catalog.product
		WHERE TRUE
	`)

	// Apply Filters (Dynamic WHERE clause construction)
	if !filter.IncludeInactive {
		queryBuilder.WriteString(" AND isactive = TRUE")
	}

	if len(filter.Categories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND category = ANY($%d)", argID))
		args = append(args, filter.Categories)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Stable ordering: UUIDv7 primary keys sort by creation time.
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	var total int

	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Description,
			&product.Price,
			&product.Category,
			&product.Stock,
			&product.ImageKey,
			&product.IsActive,
			&product.CreatedAt,
			&product.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_rows_failed: %w", err)
	}

	return products, total, nil
}

/*
FindByID retrieves a product record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Product: Hydrated catalogue entity
  - error: apperr.NotFound or execution errors
*/
func (repository *postgresProductRepository) FindByID(context context.Context, id string) (*Product, error) {
	const query = `SELECT ` + productColumns + ` FROM catalog.product WHERE id = $1`
	return repository.findOne(context, query, id)
}

/*
FindBySlug retrieves a product record by its unique URL slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Product: Hydrated catalogue entity
  - error: apperr.NotFound or execution errors
*/
func (repository *postgresProductRepository) FindBySlug(context context.Context, slug string) (*Product, error) {
	const query = `SELECT ` + productColumns + ` FROM catalog.product WHERE slug = $1`
	return repository.findOne(context, query, slug)
}

// findOne executes a single-row lookup and hydrates the entity.
func (repository *postgresProductRepository) findOne(context context.Context, query string, arg any) (*Product, error) {
	product := &Product{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.Stock,
		&product.ImageKey,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_product_repo_find_failed: %w", err)
	}

	return product, nil
}

/*
Create persists a new product record into the catalog.product table.

Parameters:
  - context: context.Context
  - product: *Product (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate slug, or connectivity errors
*/
func (repository *postgresProductRepository) Create(context context.Context, product *Product) error {
	const query = `
		INSERT INTO catalog.product (
			id, name, slug, description, price, category, stock, imagekey, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.Category,
		product.Stock,
		product.ImageKey,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Product slug already exists")
		}
		return fmt.Errorf("postgres_product_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to a product's mutable fields.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.NotFound when the row is gone, or execution errors
*/
func (repository *postgresProductRepository) Update(context context.Context, product *Product) error {
	const query = `
		UPDATE catalog.product
		SET name = $2, slug = $3, description = $4, price = $5, category = $6,
			stock = $7, imagekey = $8, isactive = $9, updatedat = $10
		WHERE id = $1`

	product.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.Category,
		product.Stock,
		product.ImageKey,
		product.IsActive,
		product.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Product slug already exists")
		}
		return fmt.Errorf("postgres_product_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

/*
Delete removes a product record permanently.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when the row is gone, or execution errors
*/
func (repository *postgresProductRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM catalog.product WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}
