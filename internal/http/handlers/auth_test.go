package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/auth"
	"github.com/camisetaria/backend/internal/http/respond"
	"github.com/camisetaria/backend/internal/metrics"
	"github.com/camisetaria/backend/internal/middleware"
	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

// memUserStore is an in-memory storage.UserStore for handler tests.
type memUserStore struct {
	nextID int64
	users  map[int64]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]models.User)}
}

func (s *memUserStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.Active = true
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *memUserStore) FindActiveByID(_ context.Context, id int64) (models.User, error) {
	user, ok := s.users[id]
	if !ok || !user.Active {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *memUserStore) TouchLastLogin(_ context.Context, id int64) error {
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	s.users[id] = user
	return nil
}

func (s *memUserStore) ToggleActive(_ context.Context, id int64) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.Active = !user.Active
	s.users[id] = user
	return user, nil
}

type authStack struct {
	mux    *http.ServeMux
	store  *memUserStore
	tokens *auth.TokenManager
	cache  *auth.UserCache
}

func newAuthStack() *authStack {
	store := newMemUserStore()
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)
	cache := auth.NewUserCache(time.Hour)
	logger := zap.NewNop()
	authn := middleware.NewAuthenticator(tokens, store, cache, metrics.New(false), logger)

	mux := http.NewServeMux()
	NewAuthHandler(store, tokens, cache, logger).Register(mux, authn)

	return &authStack{mux: mux, store: store, tokens: tokens, cache: cache}
}

// seedUser inserts a user with the given password already hashed.
func (s *authStack) seedUser(t *testing.T, name, email, password, role string, active bool) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user, err := s.store.CreateUser(context.Background(), models.User{
		Name: name, Email: email, Role: role, PasswordHash: hash,
	})
	require.NoError(t, err)
	if !active {
		user, err = s.store.ToggleActive(context.Background(), user.ID)
		require.NoError(t, err)
	}
	return user
}

func (s *authStack) do(method, target, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func parseEnvelope(t *testing.T, rec *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestRegister_CreatesUserAndIssuesToken(t *testing.T) {
	s := newAuthStack()

	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "s3cret-pass",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	env := parseEnvelope(t, rec)
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	claims, err := s.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, models.RoleStandard, claims.Role)

	// The password hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newAuthStack()
	s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, true)

	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "maria@example.com", "password": "whatever1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", parseEnvelope(t, rec).Message)
}

func TestRegister_Validation(t *testing.T) {
	s := newAuthStack()

	t.Run("missing fields", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Maria"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unrecognized role", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Maria", "email": "m@example.com", "password": "s3cret", "role": "ROOT",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin_Success(t *testing.T) {
	s := newAuthStack()
	user := s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, true)

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "maria@example.com", "password": "s3cret-pass",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	env := parseEnvelope(t, rec)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	token, _ := data["token"].(string)
	claims, err := s.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	assert.NotNil(t, s.store.users[user.ID].LastLoginAt)
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	s := newAuthStack()
	s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, true)

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "maria@example.com", "password": "wrong-pass",
	})
	unknownEmail := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "wrong-pass",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Same message either way so responses cannot enumerate accounts.
	assert.Equal(t,
		parseEnvelope(t, wrongPassword).Message,
		parseEnvelope(t, unknownEmail).Message,
	)
}

func TestLogin_InactiveAccount(t *testing.T) {
	s := newAuthStack()
	s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, false)

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "maria@example.com", "password": "s3cret-pass",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Account inactive. Contact an administrator.", parseEnvelope(t, rec).Message)
}

func TestProfile_ReturnsAuthenticatedUser(t *testing.T) {
	s := newAuthStack()
	user := s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, true)
	token, err := s.tokens.Issue(user)
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/auth/profile", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := parseEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, "maria@example.com", data["email"])
}

func TestListUsers_RequiresAdmin(t *testing.T) {
	s := newAuthStack()
	standard := s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, true)
	admin := s.seedUser(t, "Root", "root@example.com", "s3cret-pass", models.RoleAdmin, true)

	standardToken, err := s.tokens.Issue(standard)
	require.NoError(t, err)
	adminToken, err := s.tokens.Issue(admin)
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/auth/users", standardToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ADMIN_REQUIRED", parseEnvelope(t, rec).Code)

	rec = s.do(http.MethodGet, "/api/auth/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := parseEnvelope(t, rec)
	require.NotNil(t, env.Total)
	assert.Equal(t, 2, *env.Total)
}

func TestToggleStatus(t *testing.T) {
	s := newAuthStack()
	admin := s.seedUser(t, "Root", "root@example.com", "s3cret-pass", models.RoleAdmin, true)
	target := s.seedUser(t, "Maria", "maria@example.com", "s3cret-pass", models.RoleStandard, true)
	adminToken, err := s.tokens.Issue(admin)
	require.NoError(t, err)

	t.Run("deactivates another user and drops the cache entry", func(t *testing.T) {
		s.cache.Put(target.ID, target)

		rec := s.do(http.MethodPatch,
			fmt.Sprintf("/api/auth/users/%d/status", target.ID), adminToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "User deactivated successfully", parseEnvelope(t, rec).Message)
		assert.False(t, s.store.users[target.ID].Active)

		_, cached := s.cache.Get(target.ID)
		assert.False(t, cached)
	})

	t.Run("self-deactivation is rejected without mutation", func(t *testing.T) {
		rec := s.do(http.MethodPatch,
			fmt.Sprintf("/api/auth/users/%d/status", admin.ID), adminToken, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "You cannot deactivate your own account", parseEnvelope(t, rec).Message)
		assert.True(t, s.store.users[admin.ID].Active)
	})

	t.Run("unknown user id", func(t *testing.T) {
		rec := s.do(http.MethodPatch, "/api/auth/users/999/status", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
