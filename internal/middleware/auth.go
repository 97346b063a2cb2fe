package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/auth"
	"github.com/camisetaria/backend/internal/http/respond"
	"github.com/camisetaria/backend/internal/metrics"
	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

// RejectionCode is the closed set of machine-readable rejection codes emitted
// by the access middleware. Clients branch on these strings; they are part of
// the wire contract and must not change.
type RejectionCode string

const (
	CodeTokenRequired    RejectionCode = "TOKEN_REQUIRED"
	CodeInvalidToken     RejectionCode = "INVALID_TOKEN"
	CodeTokenExpired     RejectionCode = "TOKEN_EXPIRED"
	CodeUserNotFound     RejectionCode = "USER_NOT_FOUND"
	CodeNotAuthenticated RejectionCode = "NOT_AUTHENTICATED"
	CodeAdminRequired    RejectionCode = "ADMIN_REQUIRED"
	CodeAccessDenied     RejectionCode = "ACCESS_DENIED"
)

const tokenCookieName = "token"

// maxTokenBodyBytes bounds how much of a request body the extractor will
// buffer while looking for a token field.
const maxTokenBodyBytes = 1 << 20

// Authenticator resolves bearer tokens to identities. Per request it
// extracts a token, verifies it, resolves the subject through the user cache
// or the store (active rows only), and attaches the identity to the request
// context. Every failure is terminal and fail-closed.
type Authenticator struct {
	tokens  *auth.TokenManager
	users   storage.UserStore
	cache   *auth.UserCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAuthenticator wires the access middleware.
func NewAuthenticator(tokens *auth.TokenManager, users storage.UserStore, cache *auth.UserCache, m *metrics.Metrics, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, cache: cache, metrics: m, logger: logger}
}

// Authenticate requires a valid token resolving to an active user.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.metrics.AuthRequest()

		token := extractToken(r)
		if token == "" {
			a.reject(w, http.StatusUnauthorized, "Access token required", CodeTokenRequired)
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				a.reject(w, http.StatusUnauthorized, "Token expired", CodeTokenExpired)
			default:
				a.reject(w, http.StatusUnauthorized, "Invalid token", CodeInvalidToken)
			}
			return
		}

		user, ok := a.cache.Get(claims.UserID)
		if ok {
			a.metrics.CacheHit()
		} else {
			a.metrics.CacheMiss()
			user, err = a.users.FindActiveByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					a.reject(w, http.StatusUnauthorized, "User not found or inactive", CodeUserNotFound)
					return
				}
				a.logger.Error("identity lookup failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
				respond.Internal(w, "Internal server error", err)
				return
			}
			a.cache.Put(user.ID, user)
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, status int, message string, code RejectionCode) {
	a.metrics.AuthFailure(string(code))
	a.logger.Warn("request rejected", zap.String("code", string(code)))
	respond.Reject(w, status, message, string(code))
}

// RequireUser admits any authenticated identity with a recognized role.
// Apply after Authenticate.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		if !ok {
			respond.Reject(w, http.StatusUnauthorized, "User not authenticated", string(CodeNotAuthenticated))
			return
		}
		if !models.ValidRole(user.Role) {
			respond.Reject(w, http.StatusForbidden, "Access denied", string(CodeAccessDenied))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits only administrators. Apply after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		if !ok {
			respond.Reject(w, http.StatusUnauthorized, "User not authenticated", string(CodeNotAuthenticated))
			return
		}
		if user.Role != models.RoleAdmin {
			respond.Reject(w, http.StatusForbidden, "Access denied. Only administrators can perform this action.", string(CodeAdminRequired))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken looks for a token in, in order: the Authorization header, the
// session cookie, a JSON body field, and finally a query parameter. First
// non-empty wins.
func extractToken(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token := tokenFromBody(r); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

// tokenFromBody peeks at a JSON request body for a "token" field, restoring
// the body so the downstream handler can still read it.
func tokenFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Token
}
