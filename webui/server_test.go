package webui

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubAuth is a minimal AuthProvider that accepts requests carrying the
// X-Test-Auth header.
type stubAuth struct{}

func (stubAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test-Auth") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (stubAuth) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
}

func (stubAuth) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
}

func newTestServer(t *testing.T, auth AuthProvider) *Server {
	t.Helper()
	api, _ := newAPIFixture(t)
	server, err := NewServer(DefaultServerConfig(), api, nil, auth, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return server
}

func TestNewServerRequiresAPI(t *testing.T) {
	if _, err := NewServer(DefaultServerConfig(), nil, nil, nil, nil); err == nil {
		t.Error("NewServer() error = nil without API")
	}
}

func TestHealthEndpointUnauthenticated(t *testing.T) {
	server := newTestServer(t, stubAuth{})

	rec := httptest.NewRecorder()
	server.rootHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %q, want ok status", rec.Body.String())
	}
}

func TestAPIBehindAuth(t *testing.T) {
	server := newTestServer(t, stubAuth{})
	handler := server.rootHandler()

	t.Run("unauthenticated rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("X-Test-Auth", "yes")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestAPIOpenWithoutAuthProvider(t *testing.T) {
	server := newTestServer(t, nil)
	if server.HasAuth() {
		t.Error("HasAuth() = true without provider")
	}

	rec := httptest.NewRecorder()
	server.rootHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLoginRoutesOnlyWithAuth(t *testing.T) {
	withAuth := newTestServer(t, stubAuth{})
	rec := httptest.NewRecorder()
	withAuth.rootHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want %d", rec.Code, http.StatusOK)
	}

	withoutAuth := newTestServer(t, nil)
	rec = httptest.NewRecorder()
	withoutAuth.rootHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("login status without auth = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
