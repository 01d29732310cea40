package auth

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Izenberk/analytics-dashboard/webui"
)

// AuthMiddleware holds the hashed password, the session store, and the rate
// limiter, and gates protected handlers behind a valid session cookie.
type AuthMiddleware struct {
	passwordHash []byte
	sessions     *webui.SessionStore
	rateLimiter  *webui.RateLimiter
	cookieCfg    CookieConfig
	logger       *zap.Logger
}

// Config tunes the middleware.
type Config struct {
	// SessionTTL is how long sessions stay valid (default: 24h)
	SessionTTL time.Duration
	// MaxLoginAttempts per IP within AttemptWindow (default: 5)
	MaxLoginAttempts int
	// AttemptWindow for rate limiting (default: 15m)
	AttemptWindow time.Duration
	// Cookie settings
	Cookie CookieConfig
}

// DefaultConfig returns the standard middleware configuration.
func DefaultConfig() Config {
	return Config{
		SessionTTL:       webui.DefaultSessionDuration,
		MaxLoginAttempts: webui.DefaultMaxAttempts,
		AttemptWindow:    webui.DefaultAttemptWindow,
		Cookie:           DefaultCookieConfig(),
	}
}

// NewAuthMiddleware hashes the password with bcrypt and builds the
// middleware with default configuration.
func NewAuthMiddleware(password string, logger *zap.Logger) (*AuthMiddleware, error) {
	return NewAuthMiddlewareWithConfig(password, logger, DefaultConfig())
}

// NewAuthMiddlewareWithConfig hashes the password and builds the middleware.
func NewAuthMiddlewareWithConfig(password string, logger *zap.Logger, cfg Config) (*AuthMiddleware, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = webui.DefaultSessionDuration
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie = DefaultCookieConfig()
	}

	return &AuthMiddleware{
		passwordHash: hash,
		sessions:     webui.NewSessionStore(cfg.SessionTTL),
		rateLimiter:  webui.NewRateLimiter(cfg.MaxLoginAttempts, cfg.AttemptWindow),
		cookieCfg:    cfg.Cookie,
		logger:       logger.Named("auth"),
	}, nil
}

// Middleware wraps a handler, rejecting requests without a valid session.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := ParseSessionCookie(r)
		if err != nil {
			m.unauthorized(w, r)
			return
		}
		if _, err := m.sessions.Get(sessionID); err != nil {
			m.unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request) {
	m.logger.Debug("Unauthorized request",
		zap.String("path", r.URL.Path),
		zap.String("ip", clientIP(r)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}

// VerifyPassword checks a password against the stored bcrypt hash.
func (m *AuthMiddleware) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password))
}

// CreateSession creates a session and the cookie carrying it.
func (m *AuthMiddleware) CreateSession() (webui.Session, *http.Cookie, error) {
	session, err := m.sessions.Create()
	if err != nil {
		return webui.Session{}, nil, err
	}
	cookie, err := NewSessionCookie(session.ID, m.cookieCfg)
	if err != nil {
		return webui.Session{}, nil, err
	}
	return session, cookie, nil
}

// GetSession looks up a session by id.
func (m *AuthMiddleware) GetSession(sessionID string) (webui.Session, error) {
	return m.sessions.Get(sessionID)
}

// DestroySession removes the session and returns a cookie that clears it.
func (m *AuthMiddleware) DestroySession(sessionID string) *http.Cookie {
	m.sessions.Delete(sessionID)
	return ClearSessionCookie()
}

// SessionStore exposes the underlying store, mainly for cleanup wiring.
func (m *AuthMiddleware) SessionStore() *webui.SessionStore {
	return m.sessions
}

// clientIP extracts the client IP, honoring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
