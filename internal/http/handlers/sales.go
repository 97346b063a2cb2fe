package handlers

import (
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/http/respond"
	"github.com/camisetaria/backend/internal/middleware"
	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/models/dto"
	"github.com/camisetaria/backend/internal/storage"
)

// SaleHandler owns the /api/sales routes.
type SaleHandler struct {
	store  storage.SaleStore
	logger *zap.Logger
}

// NewSaleHandler constructs the handler.
func NewSaleHandler(store storage.SaleStore, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{store: store, logger: logger}
}

// Register attaches sales routes to the mux.
func (h *SaleHandler) Register(mux *http.ServeMux, authn *middleware.Authenticator) {
	user := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireUser(fn))
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return authn.Authenticate(middleware.RequireAdmin(fn))
	}

	mux.Handle("GET /api/sales", user(h.handleList))
	mux.Handle("GET /api/sales/{id}", user(h.handleGet))
	mux.Handle("POST /api/sales", admin(h.handleCreate))
	mux.Handle("PUT /api/sales/{id}", admin(h.handleUpdate))
	mux.Handle("DELETE /api/sales/{id}", admin(h.handleCancel))
}

func (h *SaleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	sales, err := h.store.ListSales(r.Context())
	if err != nil {
		respond.Internal(w, "Failed to list sales", err)
		return
	}
	respond.List(w, "Sales listed successfully", sales, len(sales))
}

func (h *SaleHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid sale id")
		return
	}
	sale, err := h.store.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Sale not found")
			return
		}
		respond.Internal(w, "Failed to fetch sale", err)
		return
	}
	respond.OK(w, http.StatusOK, "Sale found", sale)
}

func (h *SaleHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.CustomerID == 0 || req.ProductID == 0 || req.Quantity <= 0 || req.UnitPrice == nil {
		respond.Fail(w, http.StatusBadRequest, "Required fields: customer_id, product_id, quantity, unit_price")
		return
	}

	orderNumber, err := newOrderNumber(time.Now())
	if err != nil {
		respond.Internal(w, "Failed to generate order number", err)
		return
	}

	sale := models.Sale{
		OrderNumber:     orderNumber,
		CustomerID:      req.CustomerID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		Size:            req.Size,
		Color:           req.Color,
		UnitPrice:       *req.UnitPrice,
		TotalPrice:      *req.UnitPrice*float64(req.Quantity) - req.Discount,
		Discount:        req.Discount,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}

	created, err := h.store.CreateSale(r.Context(), sale)
	if err != nil {
		h.logger.Error("create sale failed", zap.Error(err))
		respond.Internal(w, "Failed to create sale", err)
		return
	}
	respond.OK(w, http.StatusCreated, "Sale created successfully", created)
}

func (h *SaleHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid sale id")
		return
	}
	var req dto.UpdateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	patch := models.SalePatch{
		Quantity:        req.Quantity,
		Size:            req.Size,
		Color:           req.Color,
		UnitPrice:       req.UnitPrice,
		Discount:        req.Discount,
		Status:          req.Status,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}

	// The total is recomputed only when both price and quantity are supplied.
	if req.UnitPrice != nil && req.Quantity != nil {
		discount := 0.0
		if req.Discount != nil {
			discount = *req.Discount
		}
		total := *req.UnitPrice*float64(*req.Quantity) - discount
		patch.TotalPrice = &total
	}

	updated, err := h.store.UpdateSale(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Sale not found")
			return
		}
		respond.Internal(w, "Failed to update sale", err)
		return
	}
	respond.OK(w, http.StatusOK, "Sale updated successfully", updated)
}

func (h *SaleHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid sale id")
		return
	}
	if _, err := h.store.CancelSale(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Sale not found")
			return
		}
		respond.Internal(w, "Failed to cancel sale", err)
		return
	}
	respond.OK(w, http.StatusOK, "Sale cancelled successfully", nil)
}

// newOrderNumber returns a sortable, unique order number like PED-01J....
func newOrderNumber(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now.UTC()), rand.Reader)
	if err != nil {
		return "", err
	}
	return "PED-" + id.String(), nil
}
