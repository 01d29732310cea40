package webui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthProvider is implemented by auth.AuthMiddleware. The interface keeps the
// server decoupled from the auth package to avoid an import cycle.
type AuthProvider interface {
	// Middleware wraps an http.Handler with authentication
	Middleware(next http.Handler) http.Handler
	// LoginHandler returns a handler for the login endpoint
	LoginHandler() http.HandlerFunc
	// LogoutHandler returns a handler for logout
	LogoutHandler() http.HandlerFunc
}

// Server is the dashboard HTTP server. It wires together the logging
// middleware, the REST API, the WebSocket broadcaster, and optional session
// authentication.
type Server struct {
	httpServer    *http.Server
	mux           *http.ServeMux
	config        ServerConfig
	logger        *zap.Logger
	authProvider  AuthProvider
	loggingMw     *LoggingMiddleware
	dashboardAPI  *DashboardAPI
	wsBroadcaster *WebSocketBroadcaster
}

// ServerConfig configures the Server.
type ServerConfig struct {
	// Port to listen on (default: 3000)
	Port int

	// Host to bind to (default: "localhost")
	Host string

	// ReadTimeout for HTTP requests (default: 30s)
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses (default: 30s)
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections (default: 120s)
	IdleTimeout time.Duration

	// ShutdownTimeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration

	// LogSkipPaths are paths to skip logging
	LogSkipPaths []string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            3000,
		Host:            "localhost",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogSkipPaths:    []string{"/health"},
	}
}

// NewServer creates a Server wiring the API, the broadcaster, and the
// middleware. authProvider may be nil for an unauthenticated server.
func NewServer(config ServerConfig, api *DashboardAPI, broadcaster *WebSocketBroadcaster, authProvider AuthProvider, logger *zap.Logger) (*Server, error) {
	if api == nil {
		return nil, fmt.Errorf("dashboard API is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	server := &Server{
		mux:           http.NewServeMux(),
		config:        config,
		logger:        logger,
		authProvider:  authProvider,
		loggingMw:     NewLoggingMiddleware(logger, config.LogSkipPaths),
		dashboardAPI:  api,
		wsBroadcaster: broadcaster,
	}
	server.setupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server.httpServer = &http.Server{
		Addr:         addr,
		Handler:      server.rootHandler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	logger.Info("Dashboard server created",
		zap.String("addr", addr),
		zap.Bool("auth_enabled", authProvider != nil))

	return server, nil
}

// setupRoutes configures all the HTTP routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.mux.HandleFunc("/health", s.handleHealth)

	// API endpoints, behind auth when enabled
	apiMux := http.NewServeMux()
	s.dashboardAPI.RegisterRoutes(apiMux)
	s.mux.Handle("/api/", s.protect(apiMux))

	// WebSocket endpoint
	if s.wsBroadcaster != nil {
		s.mux.Handle("/ws", s.protect(http.HandlerFunc(s.wsBroadcaster.HandleConnection)))
	}

	// Auth routes (if enabled)
	if s.authProvider != nil {
		s.mux.HandleFunc("/login", s.authProvider.LoginHandler())
		s.mux.HandleFunc("/logout", s.authProvider.LogoutHandler())
	}
}

// rootHandler wraps the mux with middleware.
func (s *Server) rootHandler() http.Handler {
	return s.loggingMw.Handler(s.mux)
}

// protect wraps a handler with auth middleware if enabled.
func (s *Server) protect(handler http.Handler) http.Handler {
	if s.authProvider != nil {
		return s.authProvider.Middleware(handler)
	}
	return handler
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Start begins listening for HTTP requests. It starts the WebSocket
// broadcaster and blocks until the server shuts down.
func (s *Server) Start(ctx context.Context) error {
	if s.wsBroadcaster != nil {
		go s.wsBroadcaster.Start(ctx)
	}

	s.logger.Info("Dashboard server starting",
		zap.String("addr", s.httpServer.Addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dashboard server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}

	s.logger.Info("Dashboard server stopped")
	return nil
}

// Broadcaster returns the WebSocket broadcaster for sending messages.
func (s *Server) Broadcaster() *WebSocketBroadcaster {
	return s.wsBroadcaster
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// HasAuth returns whether authentication is enabled.
func (s *Server) HasAuth() bool {
	return s.authProvider != nil
}
