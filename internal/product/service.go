// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taibuivan/kaimono/internal/platform/validate"
	"github.com/taibuivan/kaimono/pkg/pointer"
	"github.com/taibuivan/kaimono/pkg/slug"
	"github.com/taibuivan/kaimono/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the business logic for the product catalogue.
// It acts as the primary entry point for managing sellable items.
type Service struct {
	productRepo ProductRepository
	images      ImageStore
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(productRepo ProductRepository, images ImageStore, logger *slog.Logger) *Service {
	return &Service{
		productRepo: productRepo,
		images:      images,
		logger:      logger,
	}
}

// # Product Lookups

/*
ListProducts retrieves a paginated and filtered collection of products.

Description: This method orchestrates the discovery phase of the catalogue.
Filter criteria pass directly to the repository layer for database-level
filtering. Image URLs are resolved per item for the storefront grid.

Parameters:
  - context: context.Context
  - filter: Filter (Criteria for search, categories, visibility)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Product: Slice of matching catalogue records
  - int: Total count of records matching the filter (for pagination metadata)
  - error: System or repository level errors
*/
func (service *Service) ListProducts(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	products, total, err := service.productRepo.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for _, product := range products {
		service.resolveImageURL(context, product)
	}

	return products, total, nil
}

/*
GetProduct fetches a single product record by UUID or SEO slug.

Description: The service determines the lookup strategy from the identifier
format. A UUID performs a primary key lookup; anything else resolves via the
unique URL slug.

Parameters:
  - context: context.Context
  - identifier: string (UUID or Slug)

Returns:
  - *Product: The hydrated domain entity with a presigned image URL
  - error: apperr.NotFound if no match is found
*/
func (service *Service) GetProduct(context context.Context, identifier string) (*Product, error) {
	var product *Product
	var err error

	// Identity format detection
	if isUUID(identifier) {
		product, err = service.productRepo.FindByID(context, identifier)
	} else {
		product, err = service.productRepo.FindBySlug(context, identifier)
	}

	if err != nil {
		return nil, err
	}

	service.resolveImageURL(context, product)
	return product, nil
}

// # Product Management

/*
CreateProduct initialises a new catalogue record.

Description: Performs deep business validation on the metadata, generates a
stable UUIDv7 identity, and derives an SEO-friendly slug before persisting.

Parameters:
  - context: context.Context
  - product: *Product (The entity to be persisted)

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) CreateProduct(context context.Context, product *Product) error {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldName, product.Name).MaxLen(FieldName, product.Name, 200).
		Required(FieldCategory, product.Category).MaxLen(FieldCategory, product.Category, 100).
		NonNegative(FieldPrice, product.Price).
		Custom(FieldStock, product.Stock < 0, "Must not be negative")

	if err := validator.Err(); err != nil {
		return err
	}

	// Identity & Slug generation
	if product.ID == "" {
		product.ID = uuidv7.New()
	}
	if product.Slug == "" {
		product.Slug = slug.From(product.Name)
	}

	// Persistence via Repository
	if err := service.productRepo.Create(context, product); err != nil {
		return err
	}

	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return nil
}

// UpdateInput describes a partial product update. Nil fields keep their
// current value.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	IsActive    *bool
}

/*
UpdateProduct applies modifications to an existing catalogue record.

Description: Supports partial updates — only the provided fields change.
Renaming a product does not change its slug: published links must keep
resolving.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Product: The updated entity
  - error: Validation, not-found, or persistence errors
*/
func (service *Service) UpdateProduct(context context.Context, id string, input UpdateInput) (*Product, error) {
	product, err := service.productRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Merge the partial input over the current state.
	product.Name = pointer.Fallback(input.Name, product.Name)
	product.Description = pointer.Fallback(input.Description, product.Description)
	product.Price = pointer.Fallback(input.Price, product.Price)
	product.Category = pointer.Fallback(input.Category, product.Category)
	product.Stock = pointer.Fallback(input.Stock, product.Stock)
	product.IsActive = pointer.Fallback(input.IsActive, product.IsActive)

	// Re-validate the merged state
	validator := &validate.Validator{}
	validator.Required(FieldName, product.Name).MaxLen(FieldName, product.Name, 200).
		Required(FieldCategory, product.Category).MaxLen(FieldCategory, product.Category, 100).
		NonNegative(FieldPrice, product.Price).
		Custom(FieldStock, product.Stock < 0, "Must not be negative")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.productRepo.Update(context, product); err != nil {
		return nil, err
	}

	service.logger.Info("product_updated", slog.String("product_id", product.ID))

	service.resolveImageURL(context, product)
	return product, nil
}

/*
DeleteProduct removes a product and its stored image.

Description: The database row is the source of truth; the image object is
cleaned up best-effort after the row is gone. An orphaned object costs
storage cents, a dangling row costs correctness.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Not-found or persistence errors
*/
func (service *Service) DeleteProduct(context context.Context, id string) error {
	product, err := service.productRepo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.productRepo.Delete(context, id); err != nil {
		return err
	}

	if product.ImageKey != "" {
		if err := service.images.Delete(context, product.ImageKey); err != nil {
			service.logger.Warn("product_image_cleanup_failed",
				slog.String("product_id", id),
				slog.Any("error", err),
			)
		}
	}

	service.logger.Info("product_deleted", slog.String("product_id", id))
	return nil
}

// # Product Imagery

/*
AttachImage uploads a product image and links it to the record.

Description: The object key is derived from the product ID, so re-uploads
replace the previous image in place and never leak orphaned objects.

Parameters:
  - context: context.Context
  - id: string (Product ID)
  - contentType: string (MIME type of the upload)
  - body: io.Reader (Image bytes)

Returns:
  - *Product: The updated entity with a fresh presigned URL
  - error: Not-found, upload, or persistence errors
*/
func (service *Service) AttachImage(context context.Context, id, contentType string, body io.Reader) (*Product, error) {
	product, err := service.productRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	key := "products/" + product.ID
	if err := service.images.Put(context, key, contentType, body); err != nil {
		return nil, err
	}

	product.ImageKey = key
	if err := service.productRepo.Update(context, product); err != nil {
		return nil, err
	}

	service.logger.Info("product_image_attached",
		slog.String("product_id", product.ID),
		slog.String("image_key", key),
	)

	service.resolveImageURL(context, product)
	return product, nil
}

// # Internal Helpers

// resolveImageURL fills the transient ImageURL field from the stored key.
// Presign failures only cost the URL, never the whole response.
func (service *Service) resolveImageURL(context context.Context, product *Product) {
	if product.ImageKey == "" {
		return
	}

	url, err := service.images.URL(context, product.ImageKey)
	if err != nil {
		service.logger.Warn("product_image_presign_failed",
			slog.String("product_id", product.ID),
			slog.Any("error", err),
		)
		return
	}

	product.ImageURL = url
}

// isUUID reports whether the identifier parses as a canonical UUID.
func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
