package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/auth"
	"github.com/camisetaria/backend/internal/http/respond"
	"github.com/camisetaria/backend/internal/middleware"
	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/models/dto"
	"github.com/camisetaria/backend/internal/storage"
)

// AuthHandler owns registration, login, profile, and user administration.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	cache  *auth.UserCache
	logger *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, cache *auth.UserCache, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, cache: cache, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux, authn *middleware.Authenticator) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.Handle("GET /api/auth/profile",
		authn.Authenticate(middleware.RequireUser(http.HandlerFunc(h.handleProfile))))
	mux.Handle("GET /api/auth/users",
		authn.Authenticate(middleware.RequireAdmin(http.HandlerFunc(h.handleListUsers))))
	mux.Handle("PATCH /api/auth/users/{id}/status",
		authn.Authenticate(middleware.RequireAdmin(http.HandlerFunc(h.handleToggleStatus))))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		respond.Fail(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleStandard
	}
	if !models.ValidRole(role) {
		respond.Fail(w, http.StatusBadRequest, "Role must be ADMIN or STANDARD")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respond.Internal(w, "Failed to hash password", err)
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Fail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		respond.Internal(w, "Failed to register user", err)
		return
	}

	token, err := h.tokens.Issue(created)
	if err != nil {
		respond.Internal(w, "Failed to generate token", err)
		return
	}

	respond.OK(w, http.StatusCreated, "User registered successfully",
		dto.AuthResponse{User: created, Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respond.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Generic message so responses cannot be used to enumerate accounts.
			respond.Fail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("login lookup failed", zap.Error(err))
		respond.Internal(w, "Failed to fetch user", err)
		return
	}

	if !user.Active {
		respond.Fail(w, http.StatusUnauthorized, "Account inactive. Contact an administrator.")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := h.store.TouchLastLogin(r.Context(), user.ID); err != nil {
		h.logger.Warn("failed to stamp last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		respond.Internal(w, "Failed to generate token", err)
		return
	}

	respond.OK(w, http.StatusOK, "Login successful", dto.AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.IdentityFromContext(r.Context())
	respond.OK(w, http.StatusOK, "User profile", user)
}

func (h *AuthHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respond.Internal(w, "Failed to list users", err)
		return
	}
	respond.List(w, "Users listed successfully", users, len(users))
}

func (h *AuthHandler) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	// Self-deactivation is rejected before any store mutation.
	caller, _ := middleware.IdentityFromContext(r.Context())
	if id == caller.ID {
		respond.Fail(w, http.StatusBadRequest, "You cannot deactivate your own account")
		return
	}

	user, err := h.store.ToggleActive(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		respond.Internal(w, "Failed to change user status", err)
		return
	}

	// The identity cache must not keep serving the pre-toggle snapshot.
	h.cache.Invalidate(id)

	message := "User deactivated successfully"
	if user.Active {
		message = "User activated successfully"
	}
	respond.OK(w, http.StatusOK, message, user)
}
