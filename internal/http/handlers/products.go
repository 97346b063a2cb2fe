package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/http/respond"
	"github.com/camisetaria/backend/internal/middleware"
	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/models/dto"
	"github.com/camisetaria/backend/internal/storage"
)

// ProductHandler owns the /api/products routes.
type ProductHandler struct {
	store  storage.ProductStore
	logger *zap.Logger
}

// NewProductHandler constructs the handler.
func NewProductHandler(store storage.ProductStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{store: store, logger: logger}
}

// Register attaches product routes to the mux.
func (h *ProductHandler) Register(mux *http.ServeMux, authn *middleware.Authenticator) {
	user := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireUser(fn))
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireAdmin(fn))
	}

	mux.Handle("GET /api/products", user(h.handleList))
	mux.Handle("GET /api/products/{id}", user(h.handleGet))
	mux.Handle("POST /api/products", admin(h.handleCreate))
	mux.Handle("PUT /api/products/{id}", admin(h.handleUpdate))
	mux.Handle("DELETE /api/products/{id}", admin(h.handleDelete))
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		respond.Internal(w, "Failed to list products", err)
		return
	}
	respond.List(w, "Products listed successfully", products, len(products))
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Product not found")
			return
		}
		respond.Internal(w, "Failed to fetch product", err)
		return
	}
	respond.OK(w, http.StatusOK, "Product found", product)
}

func (h *ProductHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" ||
		req.Price == nil || req.Stock == nil {
		respond.Fail(w, http.StatusBadRequest, "Required fields: name, description, price, stock")
		return
	}

	created, err := h.store.CreateProduct(r.Context(), productFromRequest(req, 0))
	if err != nil {
		respond.Internal(w, "Failed to create product", err)
		return
	}
	respond.OK(w, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	var req dto.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" ||
		req.Price == nil || req.Stock == nil {
		respond.Fail(w, http.StatusBadRequest, "Required fields: name, description, price, stock")
		return
	}

	updated, err := h.store.UpdateProduct(r.Context(), productFromRequest(req, id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Product not found")
			return
		}
		respond.Internal(w, "Failed to update product", err)
		return
	}
	respond.OK(w, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Product not found")
			return
		}
		respond.Internal(w, "Failed to delete product", err)
		return
	}
	respond.OK(w, http.StatusOK, "Product deleted successfully", nil)
}

func productFromRequest(req dto.ProductRequest, id int64) models.Product {
	return models.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Stock:       *req.Stock,
		Category:    strings.TrimSpace(req.Category),
	}
}
