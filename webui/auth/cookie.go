// Package auth provides session-based authentication for the dashboard.
// It hashes the configured password with bcrypt, stores sessions in memory,
// and rate limits failed login attempts per client IP.
package auth

import (
	"errors"
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session id.
const SessionCookieName = "dashboard_session"

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	// Name of the cookie (default: SessionCookieName)
	Name string
	// Path scope (default: "/")
	Path string
	// MaxAge in seconds (default: 24h)
	MaxAge int
	// Secure restricts the cookie to HTTPS
	Secure bool
}

// DefaultCookieConfig returns the standard session cookie settings.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:   SessionCookieName,
		Path:   "/",
		MaxAge: int((24 * time.Hour).Seconds()),
	}
}

// NewSessionCookie builds the cookie carrying the given session id.
func NewSessionCookie(sessionID string, cfg CookieConfig) (*http.Cookie, error) {
	if sessionID == "" {
		return nil, errors.New("session id must not be empty")
	}
	if cfg.Name == "" {
		cfg.Name = SessionCookieName
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    sessionID,
		Path:     cfg.Path,
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ParseSessionCookie extracts the session id from the request.
func ParseSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	if cookie.Value == "" {
		return "", errors.New("session cookie is empty")
	}
	return cookie.Value, nil
}

// ClearSessionCookie returns a cookie that instructs the browser to delete
// the session cookie.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
