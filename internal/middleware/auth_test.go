package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/auth"
	"github.com/camisetaria/backend/internal/http/respond"
	"github.com/camisetaria/backend/internal/metrics"
	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

const testSecret = "middleware-test-secret"

type fakeUserStore struct {
	users map[int64]models.User
	finds int
}

func (s *fakeUserStore) FindActiveByID(_ context.Context, id int64) (models.User, error) {
	s.finds++
	user, ok := s.users[id]
	if !ok || !user.Active {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	return u, nil
}

func (s *fakeUserStore) FindByEmail(context.Context, string) (models.User, error) {
	return models.User{}, storage.ErrNotFound
}

func (s *fakeUserStore) ListUsers(context.Context) ([]models.User, error) {
	return nil, nil
}

func (s *fakeUserStore) TouchLastLogin(context.Context, int64) error {
	return nil
}

func (s *fakeUserStore) ToggleActive(context.Context, int64) (models.User, error) {
	return models.User{}, storage.ErrNotFound
}

func activeUser() models.User {
	return models.User{ID: 7, Name: "Ana", Email: "ana@example.com", Role: models.RoleStandard, Active: true}
}

func newTestAuthenticator(store *fakeUserStore) (*Authenticator, *auth.TokenManager, *auth.UserCache) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	cache := auth.NewUserCache(time.Hour)
	authn := NewAuthenticator(tokens, store, cache, metrics.New(false), zap.NewNop())
	return authn, tokens, cache
}

// echoIdentity reports the identity the middleware attached to the context.
func echoIdentity(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		respond.OK(w, http.StatusOK, user.Email, nil)
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestAuthenticator_RejectsMissingToken(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{}}
	authn, _, _ := newTestAuthenticator(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	authn.Authenticate(echoIdentity(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, string(CodeTokenRequired), env.Code)
}

func TestAuthenticator_RejectsMalformedToken(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{}}
	authn, _, _ := newTestAuthenticator(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	authn.Authenticate(echoIdentity(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(CodeInvalidToken), decodeEnvelope(t, rec).Code)
}

func TestAuthenticator_RejectsWrongSignature(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, _, _ := newTestAuthenticator(store)

	foreign := auth.NewTokenManager("some-other-secret", time.Hour)
	token, err := foreign.Issue(activeUser())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authn.Authenticate(echoIdentity(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(CodeInvalidToken), decodeEnvelope(t, rec).Code)
}

func TestAuthenticator_RejectsExpiredToken(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, _, _ := newTestAuthenticator(store)

	expired := auth.NewTokenManager(testSecret, -time.Minute)
	token, err := expired.Issue(activeUser())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authn.Authenticate(echoIdentity(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(CodeTokenExpired), decodeEnvelope(t, rec).Code)
}

func TestAuthenticator_RejectsUnknownOrInactiveUser(t *testing.T) {
	inactive := activeUser()
	inactive.Active = false
	store := &fakeUserStore{users: map[int64]models.User{7: inactive}}
	authn, tokens, _ := newTestAuthenticator(store)

	token, err := tokens.Issue(inactive)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authn.Authenticate(echoIdentity(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(CodeUserNotFound), decodeEnvelope(t, rec).Code)
}

func TestAuthenticator_ResolvesIdentityAndCaches(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, tokens, _ := newTestAuthenticator(store)

	token, err := tokens.Issue(activeUser())
	require.NoError(t, err)

	handler := authn.Authenticate(echoIdentity(t))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ana@example.com", decodeEnvelope(t, rec).Message)
	}

	// Only the first request goes through the store; the rest hit the cache.
	assert.Equal(t, 1, store.finds)
}

func TestAuthenticator_TokenExtraction(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, tokens, cache := newTestAuthenticator(store)

	token, err := tokens.Issue(activeUser())
	require.NoError(t, err)

	handler := authn.Authenticate(echoIdentity(t))

	tests := []struct {
		name  string
		build func() *http.Request
	}{
		{
			name: "authorization header",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
		},
		{
			name: "session cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
				req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
				return req
			},
		},
		{
			name: "json body field",
			build: func() *http.Request {
				body, _ := json.Marshal(map[string]string{"token": token})
				req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
		},
		{
			name: "query parameter",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/customers?token="+token, nil)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cache.InvalidateAll()
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tc.build())
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestAuthenticator_HeaderWinsOverQuery(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, _, _ := newTestAuthenticator(store)

	handler := authn.Authenticate(echoIdentity(t))

	valid := auth.NewTokenManager(testSecret, time.Hour)
	token, err := valid.Issue(activeUser())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers?token="+token, nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(rec, req)

	// The header token is used even though the query token is valid.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(CodeInvalidToken), decodeEnvelope(t, rec).Code)
}

func TestAuthenticator_BodyTokenLeavesBodyReadable(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, tokens, _ := newTestAuthenticator(store)

	token, err := tokens.Issue(activeUser())
	require.NoError(t, err)

	var got struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	handler := authn.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respond.OK(w, http.StatusOK, "ok", nil)
	}))

	body, _ := json.Marshal(map[string]string{"token": token, "name": "Camiseta"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Camiseta", got.Name)
	assert.Equal(t, token, got.Token)
}

// An identity cached before a deactivation keeps granting access until the
// toggle path invalidates it. This is the documented staleness window of the
// user cache.
func TestAuthenticator_StaleCacheGrantsAccessUntilInvalidated(t *testing.T) {
	store := &fakeUserStore{users: map[int64]models.User{7: activeUser()}}
	authn, tokens, cache := newTestAuthenticator(store)

	token, err := tokens.Issue(activeUser())
	require.NoError(t, err)

	handler := authn.Authenticate(echoIdentity(t))

	send := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Prime the cache.
	require.Equal(t, http.StatusOK, send().Code)

	// Deactivate the user behind the cache's back.
	inactive := activeUser()
	inactive.Active = false
	store.users[7] = inactive

	// The stale snapshot still grants access.
	assert.Equal(t, http.StatusOK, send().Code)

	// After invalidation the next lookup hits the store and is rejected.
	cache.Invalidate(7)
	rec := send()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(CodeUserNotFound), decodeEnvelope(t, rec).Code)
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, http.StatusOK, "ok", nil)
	})

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		RequireUser(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, string(CodeNotAuthenticated), decodeEnvelope(t, rec).Code)
	})

	t.Run("unrecognized role", func(t *testing.T) {
		user := activeUser()
		user.Role = "SUPERVISOR"
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), user))
		RequireUser(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, string(CodeAccessDenied), decodeEnvelope(t, rec).Code)
	})

	t.Run("standard user passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), activeUser()))
		RequireUser(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, http.StatusOK, "ok", nil)
	})

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		RequireAdmin(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, string(CodeNotAuthenticated), decodeEnvelope(t, rec).Code)
	})

	t.Run("standard user rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), activeUser()))
		RequireAdmin(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, string(CodeAdminRequired), decodeEnvelope(t, rec).Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := activeUser()
		admin.Role = models.RoleAdmin
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), admin))
		RequireAdmin(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestExtractToken_StripsBearerPrefix(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	assert.Equal(t, "abc.def.ghi", strings.TrimSpace(extractToken(req)))
}
