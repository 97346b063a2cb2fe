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

// CustomerHandler owns the /api/customers routes.
type CustomerHandler struct {
	store  storage.CustomerStore
	logger *zap.Logger
}

// NewCustomerHandler constructs the handler.
func NewCustomerHandler(store storage.CustomerStore, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{store: store, logger: logger}
}

// Register attaches customer routes to the mux.
func (h *CustomerHandler) Register(mux *http.ServeMux, authn *middleware.Authenticator) {
	user := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireUser(fn))
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireAdmin(fn))
	}

	mux.Handle("GET /api/customers", user(h.handleList))
	mux.Handle("GET /api/customers/{id}", user(h.handleGet))
	mux.Handle("POST /api/customers", admin(h.handleCreate))
	mux.Handle("PUT /api/customers/{id}", admin(h.handleUpdate))
	mux.Handle("DELETE /api/customers/{id}", admin(h.handleDelete))
}

func (h *CustomerHandler) handleList(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		respond.Internal(w, "Failed to list customers", err)
		return
	}
	respond.List(w, "Customers listed successfully", customers, len(customers))
}

func (h *CustomerHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}
	customer, err := h.store.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Customer not found")
			return
		}
		respond.Internal(w, "Failed to fetch customer", err)
		return
	}
	respond.OK(w, http.StatusOK, "Customer found", customer)
}

func (h *CustomerHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Fail(w, http.StatusBadRequest, "Name is required")
		return
	}

	created, err := h.store.CreateCustomer(r.Context(), customerFromRequest(req, 0))
	if err != nil {
		respond.Internal(w, "Failed to create customer", err)
		return
	}
	respond.OK(w, http.StatusCreated, "Customer created successfully", created)
}

func (h *CustomerHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}
	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Fail(w, http.StatusBadRequest, "Name is required")
		return
	}

	updated, err := h.store.UpdateCustomer(r.Context(), customerFromRequest(req, id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Customer not found")
			return
		}
		respond.Internal(w, "Failed to update customer", err)
		return
	}
	respond.OK(w, http.StatusOK, "Customer updated successfully", updated)
}

func (h *CustomerHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}
	if err := h.store.DeleteCustomer(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Customer not found")
			return
		}
		respond.Internal(w, "Failed to delete customer", err)
		return
	}
	respond.OK(w, http.StatusOK, "Customer deleted successfully", nil)
}

func customerFromRequest(req dto.CustomerRequest, id int64) models.Customer {
	return models.Customer{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
	}
}
