package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/auth"
	"github.com/camisetaria/backend/internal/config"
	"github.com/camisetaria/backend/internal/http/handlers"
	"github.com/camisetaria/backend/internal/metrics"
	"github.com/camisetaria/backend/internal/middleware"
	"github.com/camisetaria/backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, logger *zap.Logger, store storage.Store, m *metrics.Metrics) *Server {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	cache := auth.NewUserCache(cfg.UserCacheTTL)
	authn := middleware.NewAuthenticator(tokens, store, cache, m, logger)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewIndexHandler().Register(mux)
	handlers.NewAuthHandler(store, tokens, cache, logger).Register(mux, authn)
	handlers.NewCustomerHandler(store, logger).Register(mux, authn)
	handlers.NewSupplierHandler(store, logger).Register(mux, authn)
	handlers.NewProductHandler(store, logger).Register(mux, authn)
	handlers.NewSaleHandler(store, logger).Register(mux, authn)

	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", m.Handler())
	}

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
