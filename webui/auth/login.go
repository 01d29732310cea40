package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// FailedLoginDelay slows down brute force attempts and masks timing
// differences between failure causes.
const FailedLoginDelay = 1 * time.Second

// loginRequest is the JSON body for POST /login.
type loginRequest struct {
	Password string `json:"password"`
}

// loginResponse is the JSON body for login results.
type loginResponse struct {
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
	Error         string `json:"error,omitempty"`
}

// LoginHandler handles POST /login. The password arrives either as a JSON
// body or as form data; a successful login sets the session cookie.
func (m *AuthMiddleware) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		ip := clientIP(r)

		if allowed, retryAfter := m.rateLimiter.Allowed(ip); !allowed {
			m.logger.Info("Login rate limited",
				zap.String("ip", ip),
				zap.Duration("retry_after", retryAfter))
			w.Header().Set("Retry-After", retryAfter.Round(time.Second).String())
			writeLogin(w, http.StatusTooManyRequests, loginResponse{
				Error: "too many failed attempts, try again later",
			})
			return
		}

		password := extractPassword(r)
		if password == "" {
			time.Sleep(FailedLoginDelay)
			writeLogin(w, http.StatusBadRequest, loginResponse{
				Error: "password is required",
			})
			return
		}

		if err := m.VerifyPassword(password); err != nil {
			m.rateLimiter.RecordFailure(ip)
			m.logger.Info("Login failed", zap.String("ip", ip))
			time.Sleep(FailedLoginDelay)
			writeLogin(w, http.StatusUnauthorized, loginResponse{
				Error: "invalid password",
			})
			return
		}

		session, cookie, err := m.CreateSession()
		if err != nil {
			m.logger.Error("Failed to create session",
				zap.String("ip", ip),
				zap.Error(err))
			writeLogin(w, http.StatusInternalServerError, loginResponse{
				Error: "failed to create session",
			})
			return
		}

		m.rateLimiter.Reset(ip)
		http.SetCookie(w, cookie)

		m.logger.Info("Login successful", zap.String("ip", ip))
		writeLogin(w, http.StatusOK, loginResponse{
			Authenticated: true,
			ExpiresAt:     session.ExpiresAt.Format(time.RFC3339),
		})
	}
}

// extractPassword reads the password from a JSON body or form data.
func extractPassword(r *http.Request) string {
	if r.Header.Get("Content-Type") == "application/json" {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			return req.Password
		}
		return ""
	}
	if err := r.ParseForm(); err != nil {
		return ""
	}
	return r.FormValue("password")
}

func writeLogin(w http.ResponseWriter, status int, resp loginResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
