package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestMiddleware builds a middleware with rate limiting loose enough not
// to interfere unless a test tightens it.
func newTestMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()
	m, err := NewAuthMiddleware("correct horse battery staple", nil)
	if err != nil {
		t.Fatalf("NewAuthMiddleware() error = %v", err)
	}
	return m
}

func TestVerifyPassword(t *testing.T) {
	m := newTestMiddleware(t)

	if err := m.VerifyPassword("correct horse battery staple"); err != nil {
		t.Errorf("VerifyPassword() error = %v for correct password", err)
	}
	if err := m.VerifyPassword("wrong"); err == nil {
		t.Error("VerifyPassword() error = nil for wrong password")
	}
}

func TestMiddlewareRejectsWithoutSession(t *testing.T) {
	m := newTestMiddleware(t)
	protected := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if !strings.Contains(rec.Body.String(), "authentication required") {
			t.Errorf("body = %q, want auth error", rec.Body.String())
		}
	})

	t.Run("bogus session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-session"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestMiddlewareAcceptsValidSession(t *testing.T) {
	m := newTestMiddleware(t)
	protected := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	session, cookie, err := m.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if _, err := m.GetSession(session.ID); err != nil {
		t.Errorf("GetSession() error = %v", err)
	}
}

func TestDestroySession(t *testing.T) {
	m := newTestMiddleware(t)
	session, _, err := m.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	clear := m.DestroySession(session.ID)
	if clear.MaxAge != -1 {
		t.Errorf("clearing cookie MaxAge = %d, want -1", clear.MaxAge)
	}
	if _, err := m.GetSession(session.ID); err == nil {
		t.Error("GetSession() error = nil after destroy")
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	cookie, err := NewSessionCookie("abc123", DefaultCookieConfig())
	if err != nil {
		t.Fatalf("NewSessionCookie() error = %v", err)
	}
	if cookie.Name != SessionCookieName {
		t.Errorf("Name = %q, want %q", cookie.Name, SessionCookieName)
	}
	if !cookie.HttpOnly {
		t.Error("HttpOnly = false")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("MaxAge = %d, want 24h in seconds", cookie.MaxAge)
	}

	if _, err := NewSessionCookie("", DefaultCookieConfig()); err == nil {
		t.Error("NewSessionCookie(\"\") error = nil, want error")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "x-forwarded-for single",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.9",
		},
		{
			name:    "x-forwarded-for chain takes first",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.9",
		},
		{
			name:    "x-real-ip",
			headers: map[string]string{"X-Real-IP": "203.0.113.7"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.7",
		},
		{
			name:   "remote addr fallback",
			remote: "10.0.0.1:1234",
			want:   "10.0.0.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
