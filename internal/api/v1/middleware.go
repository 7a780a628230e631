package v1

import (
	"crypto/subtle"
	"net/http"
)

// requireSession wraps an admin handler. It returns 503 when the admin
// surface is disabled and 401 when the request carries no live session.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Admin == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Admin API not configured")
			return
		}
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || !s.deps.Sessions.Validate(cookie.Value) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			return
		}
		next(w, r)
	}
}

// requireRelay mounts the stream relay, or a 503 handler when relaying
// is not configured.
func (s *Server) requireRelay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Relay == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Relay not configured")
			return
		}
		s.deps.Relay.ServeHTTP(w, r)
	}
}

// requireWebhook guards the ingestion webhook. The route 404s when
// ingestion is disabled, and rejects calls missing the platform secret
// when one is configured.
func (s *Server) requireWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Webhook == nil {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Ingestion not configured")
			return
		}
		if s.deps.WebhookSecret != "" {
			got := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.deps.WebhookSecret)) != 1 {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Bad webhook secret")
				return
			}
		}
		s.deps.Webhook(w, r)
	}
}
