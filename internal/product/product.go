// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product defines the core domain entities for the Kaimono catalogue.

It manages the lifecycle of sellable items including metadata, pricing,
stock levels, and product imagery.

Core Responsibility:

  - Catalogue: Defines the product records the storefront browses and searches.
  - Imagery: Associates each product with an object-storage image key.
  - Discovery: Maintains SEO-friendly slugs and category groupings.

This package acts as the source of truth for all catalogue-related data models.
*/
package product

import "time"

// # Core Entities

// Product is the central aggregate of the Kaimono catalogue.
// It represents a single sellable item.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"` // URL-safe identifier
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`

	// ImageKey is the object-storage key of the product image. The presigned
	// ImageURL is derived from it on read and never persisted.
	ImageKey string `json:"-"`
	ImageURL string `json:"image_url,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter holds the discovery criteria for catalogue listings.
type Filter struct {
	// Search matches against name and description (case-insensitive).
	Search string
	// Categories restricts results to any of the given categories.
	Categories []string
	// IncludeInactive also returns products hidden from the storefront.
	IncludeInactive bool
}

// # Field Identifiers

// Global field names for validation and identity mapping in the product domain.
const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldStock       = "stock"
	FieldImage       = "image"
)
