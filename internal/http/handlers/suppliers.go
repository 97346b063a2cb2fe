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

// SupplierHandler owns the /api/suppliers routes.
type SupplierHandler struct {
	store  storage.SupplierStore
	logger *zap.Logger
}

// NewSupplierHandler constructs the handler.
func NewSupplierHandler(store storage.SupplierStore, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{store: store, logger: logger}
}

// Register attaches supplier routes to the mux.
func (h *SupplierHandler) Register(mux *http.ServeMux, authn *middleware.Authenticator) {
	user := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireUser(fn))
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireAdmin(fn))
	}

	mux.Handle("GET /api/suppliers", user(h.handleList))
	mux.Handle("GET /api/suppliers/{id}", user(h.handleGet))
	mux.Handle("POST /api/suppliers", admin(h.handleCreate))
	mux.Handle("PUT /api/suppliers/{id}", admin(h.handleUpdate))
	mux.Handle("DELETE /api/suppliers/{id}", admin(h.handleDelete))
}

func (h *SupplierHandler) handleList(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.ListSuppliers(r.Context())
	if err != nil {
		respond.Internal(w, "Failed to list suppliers", err)
		return
	}
	respond.List(w, "Suppliers listed successfully", suppliers, len(suppliers))
}

func (h *SupplierHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid supplier id")
		return
	}
	supplier, err := h.store.GetSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Supplier not found")
			return
		}
		respond.Internal(w, "Failed to fetch supplier", err)
		return
	}
	respond.OK(w, http.StatusOK, "Supplier found", supplier)
}

func (h *SupplierHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.SupplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Fail(w, http.StatusBadRequest, "Name is required")
		return
	}

	created, err := h.store.CreateSupplier(r.Context(), supplierFromRequest(req, 0))
	if err != nil {
		respond.Internal(w, "Failed to create supplier", err)
		return
	}
	respond.OK(w, http.StatusCreated, "Supplier created successfully", created)
}

func (h *SupplierHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid supplier id")
		return
	}
	var req dto.SupplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Fail(w, http.StatusBadRequest, "Name is required")
		return
	}

	updated, err := h.store.UpdateSupplier(r.Context(), supplierFromRequest(req, id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Supplier not found")
			return
		}
		respond.Internal(w, "Failed to update supplier", err)
		return
	}
	respond.OK(w, http.StatusOK, "Supplier updated successfully", updated)
}

func (h *SupplierHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid supplier id")
		return
	}
	if err := h.store.DeleteSupplier(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Supplier not found")
			return
		}
		respond.Internal(w, "Failed to delete supplier", err)
		return
	}
	respond.OK(w, http.StatusOK, "Supplier deleted successfully", nil)
}

func supplierFromRequest(req dto.SupplierRequest, id int64) models.Supplier {
	return models.Supplier{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		LegalName:    strings.TrimSpace(req.LegalName),
		TaxID:        strings.TrimSpace(req.TaxID),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		SupplyType:   req.SupplyType,
		DeliveryDays: req.DeliveryDays,
	}
}
