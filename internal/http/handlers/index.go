package handlers

import (
	"net/http"

	"github.com/camisetaria/backend/internal/http/respond"
)

// IndexHandler serves the API index with the available endpoints.
type IndexHandler struct{}

// NewIndexHandler constructs the handler.
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// Register wires the handler into a ServeMux.
func (h *IndexHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api", h.handle)
}

func (h *IndexHandler) handle(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, http.StatusOK, "Retail API online", map[string]any{
		"auth": map[string]string{
			"register": "POST /api/auth/register",
			"login":    "POST /api/auth/login",
			"profile":  "GET /api/auth/profile",
			"users":    "GET /api/auth/users (admin)",
			"status":   "PATCH /api/auth/users/{id}/status (admin)",
		},
		"customers": "GET/POST/PUT/DELETE /api/customers",
		"suppliers": "GET/POST/PUT/DELETE /api/suppliers",
		"products":  "GET/POST/PUT/DELETE /api/products",
		"sales":     "GET/POST/PUT/DELETE /api/sales",
		"access": map[string]string{
			"read":  "ADMIN and STANDARD can list and view data",
			"write": "only ADMIN can create, edit and delete",
		},
	})
}
