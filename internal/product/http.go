// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product provides the HTTP delivery layer for the catalogue.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface; multipart for image upload.
  - Security: Browsing is public; every mutation requires a verified identity.
  - Verification: Enforces strict input validation before passing to [Service].
*/
package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kaimono/internal/platform/apperr"
	"github.com/taibuivan/kaimono/internal/platform/middleware"
	requestutil "github.com/taibuivan/kaimono/internal/platform/request"
	"github.com/taibuivan/kaimono/internal/platform/respond"
	"github.com/taibuivan/kaimono/internal/platform/validate"
	"github.com/taibuivan/kaimono/pkg/convert"
	"github.com/taibuivan/kaimono/pkg/pagination"
	"github.com/taibuivan/kaimono/pkg/query"
)

// maxImageUploadBytes caps product image uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// # Definitions & Constructors

// Handler implements catalogue-related HTTP endpoints.
type Handler struct {
	productService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{productService: service}
}

// Routes returns a [chi.Router] configured with catalogue-specific routes.
//
// # Endpoints
//   - GET    /             : Lists products (public).
//   - GET    /{identifier} : Fetches one product by UUID or slug (public).
//   - POST   /             : Creates a product (authenticated).
//   - PATCH  /{id}         : Partially updates a product (authenticated).
//   - DELETE /{id}         : Deletes a product (authenticated).
//   - PUT    /{id}/image   : Uploads the product image (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Put("/{id}/image", handler.uploadImage)
	})

	return router
}

// # Request Payloads

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
}

/*
List returns a filtered, paginated product collection.

GET /api/v1/products?search=&category=a,b&include_inactive=&page=&limit=

Response:
  - 200: PaginatedEnvelope: Products plus pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Search:          request.URL.Query().Get("search"),
		Categories:      query.StringSlice(request.URL.Query().Get("category")),
		IncludeInactive: convert.ToBool(request.URL.Query().Get("include_inactive")),
	}

	products, total, err := handler.productService.ListProducts(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get fetches a single product by UUID or slug.

GET /api/v1/products/{identifier}

Response:
  - 200: Product
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	product, err := handler.productService.GetProduct(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Create adds a new product to the catalogue.

POST /api/v1/products

Response:
  - 201: Product
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Slug already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createProductRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	product := &Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		// New products are live unless explicitly created hidden.
		IsActive: input.IsActive == nil || *input.IsActive,
	}

	if err := handler.productService.CreateProduct(request.Context(), product); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
Update applies a partial modification to a product.

PATCH /api/v1/products/{id}

Response:
  - 200: Product: Updated entity
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateProductRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	product, err := handler.productService.UpdateProduct(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Delete removes a product and its image permanently.

DELETE /api/v1/products/{id}

Response:
  - 204: No Content
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.productService.DeleteProduct(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
UploadImage attaches a product image via multipart form data.

PUT /api/v1/products/{id}/image

Request:
  - Form field "image": The image file (max 5 MiB)

Response:
  - 200: Product: Entity with a fresh presigned image URL
  - 400: VALIDATION_ERROR: Missing or oversized file
  - 404: NOT_FOUND
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxImageUploadBytes)

	if err := request.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldImage, "A multipart image file is required"))
		return
	}

	file, header, err := request.FormFile(FieldImage)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldImage, "A multipart image file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		respond.Error(writer, request, apperr.Unprocessable("Only JPEG, PNG, or WebP images are accepted"))
		return
	}

	product, err := handler.productService.AttachImage(request.Context(), requestutil.Param(request, "id"), contentType, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}
