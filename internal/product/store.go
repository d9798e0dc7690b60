// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"io"
)

// # Product Data Access

// ProductRepository defines the data access contract for catalogue items.
type ProductRepository interface {

	/*
		List returns a filtered, paginated slice of products.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Criteria for search, categories, visibility)
		  - limit: int (Max records to return)
		  - offset: int (Pagination cursor)

		Returns:
		  - []*Product: Matching catalogue records
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error)

	/*
		FindByID returns the product with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Product: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Product, error)

	/*
		FindBySlug returns the product with the given URL slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Product: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindBySlug(context context.Context, slug string) (*Product, error)

	/*
		Create persists a brand-new product to storage.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: Conflict on duplicate slug, or persistence failures
	*/
	Create(context context.Context, product *Product) error

	/*
		Update persists changes to a product's mutable fields.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, product *Product) error

	/*
		Delete removes a product permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Image Storage

// ImageStore defines the contract for product image blobs.
// Implemented against S3-compatible object storage.
type ImageStore interface {

	/*
		Put uploads an image under the given key, replacing any previous object.

		Parameters:
		  - context: context.Context
		  - key: string (Object-storage key)
		  - contentType: string (MIME type of the image)
		  - body: io.Reader (Image bytes)

		Returns:
		  - error: Upload failures
	*/
	Put(context context.Context, key, contentType string, body io.Reader) error

	/*
		Delete removes the object under the given key.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Removal failures
	*/
	Delete(context context.Context, key string) error

	/*
		URL returns a time-limited, pre-signed URL for reading the object.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - string: Presigned GET URL
		  - error: Signing failures
	*/
	URL(context context.Context, key string) (string, error)
}
