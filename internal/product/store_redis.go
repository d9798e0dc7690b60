// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kaimono/internal/platform/constants"
)

// # Read-Through Cache

// cacheTTL bounds how stale a cached product may get. Writes invalidate
// eagerly, so the TTL only covers out-of-band database changes.
const cacheTTL = 5 * time.Minute

// CachedProductRepository decorates a [ProductRepository] with a Redis
// read-through cache for single-item lookups.
//
// # Semantics
//
// Only FindByID and FindBySlug are cached: they dominate storefront traffic.
// List results are volatile (filters, stock) and always hit the database.
// Cache failures are never fatal — Redis being down degrades to plain
// database reads.
type CachedProductRepository struct {
	inner ProductRepository
	cache *redis.Client
}

// NewCachedProductRepository wraps the given repository with a Redis cache.
func NewCachedProductRepository(inner ProductRepository, cache *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, cache: cache}
}

// List delegates directly to the underlying repository.
func (repository *CachedProductRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	return repository.inner.List(context, filter, limit, offset)
}

// FindByID reads through the cache keyed by product ID.
func (repository *CachedProductRepository) FindByID(context context.Context, id string) (*Product, error) {
	return repository.readThrough(context, constants.RedisPrefixProduct+"id:"+id, func() (*Product, error) {
		return repository.inner.FindByID(context, id)
	})
}

// FindBySlug reads through the cache keyed by product slug.
func (repository *CachedProductRepository) FindBySlug(context context.Context, slug string) (*Product, error) {
	return repository.readThrough(context, constants.RedisPrefixProduct+"slug:"+slug, func() (*Product, error) {
		return repository.inner.FindBySlug(context, slug)
	})
}

// Create delegates to the underlying repository. Nothing to invalidate:
// a brand-new product cannot be cached yet.
func (repository *CachedProductRepository) Create(context context.Context, product *Product) error {
	return repository.inner.Create(context, product)
}

// Update writes through and invalidates both cache keys for the product.
func (repository *CachedProductRepository) Update(context context.Context, product *Product) error {
	if err := repository.inner.Update(context, product); err != nil {
		return err
	}
	repository.invalidate(context, product)
	return nil
}

// Delete removes the row and invalidates both cache keys for the product.
func (repository *CachedProductRepository) Delete(context context.Context, id string) error {
	// Resolve the slug first so its cache key can be dropped too.
	product, findErr := repository.inner.FindByID(context, id)

	if err := repository.inner.Delete(context, id); err != nil {
		return err
	}

	if findErr == nil {
		repository.invalidate(context, product)
	} else {
		repository.cache.Del(context, constants.RedisPrefixProduct+"id:"+id)
	}
	return nil
}

// readThrough resolves a product from the cache, falling back to loader and
// populating the cache on a miss.
func (repository *CachedProductRepository) readThrough(context context.Context, key string, loader func() (*Product, error)) (*Product, error) {

	// 1. Cache hit: decode and return
	if payload, err := repository.cache.Get(context, key).Bytes(); err == nil {
		product := &Product{}
		if json.Unmarshal(payload, product) == nil {
			return product, nil
		}
		// Undecodable entry: drop it and fall through to the loader.
		repository.cache.Del(context, key)
	}

	// 2. Miss: load from the database
	product, err := loader()
	if err != nil {
		return nil, err
	}

	// 3. Populate the cache (best effort)
	if payload, err := json.Marshal(product); err == nil {
		repository.cache.Set(context, key, payload, cacheTTL)
	}

	return product, nil
}

// invalidate drops both lookup keys for a product.
func (repository *CachedProductRepository) invalidate(context context.Context, product *Product) {
	repository.cache.Del(context,
		constants.RedisPrefixProduct+"id:"+product.ID,
		constants.RedisPrefixProduct+"slug:"+product.Slug,
	)
}
