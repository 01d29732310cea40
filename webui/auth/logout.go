package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// LogoutHandler handles POST /logout. It destroys the session and clears the
// cookie. Logging out without a session is a no-op success.
func (m *AuthMiddleware) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		if sessionID, err := ParseSessionCookie(r); err == nil {
			http.SetCookie(w, m.DestroySession(sessionID))
			m.logger.Info("Logout", zap.String("ip", clientIP(r)))
		} else {
			http.SetCookie(w, ClearSessionCookie())
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"authenticated":false}`))
	}
}
