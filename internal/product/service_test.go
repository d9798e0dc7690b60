// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/pkg/pointer"
)

// # Test Doubles

// fakeProductRepo is an in-memory ProductRepository.
type fakeProductRepo struct {
	byID map[string]*Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[string]*Product)}
}

func (r *fakeProductRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	var matched []*Product
	for _, product := range r.byID {
		if !filter.IncludeInactive && !product.IsActive {
			continue
		}
		matched = append(matched, product)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*Product, error) {
	product, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return product, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*Product, error) {
	for _, product := range r.byID {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, apperr.NotFound("Product")
}

func (r *fakeProductRepo) Create(_ context.Context, product *Product) error {
	for _, existing := range r.byID {
		if existing.Slug == product.Slug {
			return apperr.Conflict("Product slug already exists")
		}
	}
	r.byID[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *Product) error {
	if _, ok := r.byID[product.ID]; !ok {
		return apperr.NotFound("Product")
	}
	r.byID[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("Product")
	}
	delete(r.byID, id)
	return nil
}

// fakeImageStore records uploads and deletions in memory.
type fakeImageStore struct {
	objects map[string]string // key -> content type
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string]string)}
}

func (s *fakeImageStore) Put(_ context.Context, key, contentType string, _ io.Reader) error {
	s.objects[key] = contentType
	return nil
}

func (s *fakeImageStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeImageStore) URL(_ context.Context, key string) (string, error) {
	return "https://cdn.kaimono.shop/" + key + "?signed", nil
}

// # Fixtures

func newTestService(t *testing.T) (*Service, *fakeProductRepo, *fakeImageStore) {
	t.Helper()

	repo := newFakeProductRepo()
	images := newFakeImageStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(repo, images, logger), repo, images
}

func mustCreate(t *testing.T, service *Service, name string) *Product {
	t.Helper()

	product := &Product{
		Name:     name,
		Price:    1280,
		Category: "kitchen",
		Stock:    10,
		IsActive: true,
	}
	require.NoError(t, service.CreateProduct(context.Background(), product))
	return product
}

// # Creation

/*
TestCreateProduct_GeneratesIdentityAndSlug verifies UUIDv7 assignment and
slug derivation from the product name, including Unicode names.
*/
func TestCreateProduct_GeneratesIdentityAndSlug(t *testing.T) {
	service, _, _ := newTestService(t)

	product := mustCreate(t, service, "Céramique Coffee Mug")
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "ceramique-coffee-mug", product.Slug)
}

/*
TestCreateProduct_Validation verifies field-level business validation.
*/
func TestCreateProduct_Validation(t *testing.T) {
	service, _, _ := newTestService(t)

	tests := []struct {
		name    string
		product Product
	}{
		{"missing_name", Product{Category: "kitchen", Price: 10}},
		{"missing_category", Product{Name: "Mug", Price: 10}},
		{"negative_price", Product{Name: "Mug", Category: "kitchen", Price: -1}},
		{"negative_stock", Product{Name: "Mug", Category: "kitchen", Price: 10, Stock: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CreateProduct(context.Background(), &tt.product)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.CodeOf(err))
		})
	}
}

/*
TestCreateProduct_DuplicateSlug verifies the conflict kind when two products
derive the same slug.
*/
func TestCreateProduct_DuplicateSlug(t *testing.T) {
	service, _, _ := newTestService(t)
	mustCreate(t, service, "Coffee Mug")

	err := service.CreateProduct(context.Background(), &Product{
		Name:     "Coffee Mug",
		Price:    980,
		Category: "kitchen",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.CodeOf(err))
}

// # Lookups

/*
TestGetProduct_ByIDAndSlug verifies the identifier-format detection.
*/
func TestGetProduct_ByIDAndSlug(t *testing.T) {
	service, _, _ := newTestService(t)
	created := mustCreate(t, service, "Coffee Mug")

	byID, err := service.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	bySlug, err := service.GetProduct(context.Background(), "coffee-mug")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = service.GetProduct(context.Background(), "no-such-product")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.CodeOf(err))
}

// # Updates

/*
TestUpdateProduct_PartialMerge verifies that only provided fields change and
the slug stays stable across renames.
*/
func TestUpdateProduct_PartialMerge(t *testing.T) {
	service, _, _ := newTestService(t)
	created := mustCreate(t, service, "Coffee Mug")

	updated, err := service.UpdateProduct(context.Background(), created.ID, UpdateInput{
		Price: pointer.To(1480.0),
		Stock: pointer.To(3),
	})
	require.NoError(t, err)

	assert.Equal(t, 1480.0, updated.Price)
	assert.Equal(t, 3, updated.Stock)
	assert.Equal(t, "Coffee Mug", updated.Name)   // untouched
	assert.Equal(t, "coffee-mug", updated.Slug)   // stable across updates
	assert.True(t, updated.IsActive)              // untouched

	// A rename must not move the published URL.
	renamed, err := service.UpdateProduct(context.Background(), created.ID, UpdateInput{
		Name: pointer.To("Grand Coffee Mug"),
	})
	require.NoError(t, err)
	assert.Equal(t, "coffee-mug", renamed.Slug)
}

/*
TestUpdateProduct_RejectsInvalidMerge verifies that the merged state is
re-validated.
*/
func TestUpdateProduct_RejectsInvalidMerge(t *testing.T) {
	service, _, _ := newTestService(t)
	created := mustCreate(t, service, "Coffee Mug")

	_, err := service.UpdateProduct(context.Background(), created.ID, UpdateInput{
		Price: pointer.To(-5.0),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.CodeOf(err))
}

// # Imagery & Deletion

/*
TestAttachImage_RoundTrip verifies upload, key linkage, and presigned URL
resolution.
*/
func TestAttachImage_RoundTrip(t *testing.T) {
	service, _, images := newTestService(t)
	created := mustCreate(t, service, "Coffee Mug")

	updated, err := service.AttachImage(context.Background(), created.ID, "image/png", nil)
	require.NoError(t, err)

	assert.Equal(t, "products/"+created.ID, updated.ImageKey)
	assert.Contains(t, updated.ImageURL, updated.ImageKey)
	assert.Equal(t, "image/png", images.objects[updated.ImageKey])
}

/*
TestDeleteProduct_CleansUpImage verifies that deleting a product removes both
the row and the stored image object.
*/
func TestDeleteProduct_CleansUpImage(t *testing.T) {
	service, repo, images := newTestService(t)
	created := mustCreate(t, service, "Coffee Mug")

	_, err := service.AttachImage(context.Background(), created.ID, "image/png", nil)
	require.NoError(t, err)

	require.NoError(t, service.DeleteProduct(context.Background(), created.ID))
	assert.Empty(t, repo.byID)
	assert.Empty(t, images.objects)

	err = service.DeleteProduct(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.CodeOf(err))
}
